//go:build linux

package forkjoin

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// setCurrentThreadName sets the calling OS thread's name via prctl(PR_SET_NAME), the
// Linux analogue of ze-core/src/thread.rs's set_thread_name. Per-GOOS build-tag
// split grounded on joeycumines-go-utilpkg/eventloop's wakeup_linux.go /
// wakeup_darwin.go convention. Truncated to 15 bytes plus NUL, the kernel's limit.
//
// Go goroutines aren't pinned to OS threads by default, so this is best-effort: it
// names whichever OS thread happens to be running this goroutine at the moment it's
// called (right after the worker goroutine starts), not a permanent binding.
func setCurrentThreadName(name string) {
	if len(name) > 15 {
		name = name[:15]
	}
	buf := append([]byte(name), 0)
	_ = unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(&buf[0])), 0, 0, 0)
}
