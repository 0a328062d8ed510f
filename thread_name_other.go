//go:build !linux

package forkjoin

// setCurrentThreadName is a no-op on platforms where we have no grounded example of
// setting the OS thread name (the pack's only OS-naming precedent, x/sys/unix.Prctl,
// is Linux-specific — see DESIGN.md).
func setCurrentThreadName(name string) {}
