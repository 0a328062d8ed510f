package forkjoin

import (
	"unsafe"

	uatomic "go.uber.org/atomic"
)

// continuationsCap and payloadCap are the compile-time array sizes backing a record's
// continuation list and inline payload. Config.MaxContinuations and
// Config.MaxPayloadBytes are runtime-enforced ceilings no larger than these; the
// arrays themselves stay fixed-size so the record remains a flat, cache-aligned value
// with no per-job heap allocation for these fields, matching job.rs's
// [MaybeUninit<JobHandle>; 16] / [u8; 128] (the array sizes here are the upper bound
// a Config may choose from, not a hardcoded 16/128 — see Config.RingCapacity sibling
// fields in config.go).
const (
	continuationsCap = 32
	payloadCap       = 256
)

// JobFunc is a job body: a one-shot callable taking the scheduler and the job's own
// handle. It runs to completion on whichever worker pops or steals
// it; it must not block indefinitely.
type JobFunc func(s *Scheduler, self Handle)

// PanicHook is invoked with the recovered value when a job body panics.
// Install one with Scheduler.SetPanicHook. The default hook only logs.
type PanicHook func(worker int, recovered any)

// record is the job control block holding the completion counter, parent link,
// continuation list, inline payload, and the job's body. The Rust original is aligned
// to one 64-byte cache line (#[repr(align(64))]); this Go struct is sized by its
// fields (well over one cache line, with the inline arrays) and is neither padded nor
// aligned, since Go has no stable struct-alignment pragma.
type record struct {
	generation     uatomic.Int32
	unfinishedJobs uatomic.Int32
	continuationN  uatomic.Int32

	hasParent bool
	parent    Handle

	fn          JobFunc
	dropPayload func() // zeroes the inline payload slot; nil for closure-only jobs

	continuations [continuationsCap]Handle
	payload       [payloadCap]byte
}

// reusable reports whether this slot's job has completed and the slot may be claimed
// by a new allocation. Only safe to call while holding the slot's ring allocator's
// mutex: finish holds that same lock across its whole 1→0 cleanup, so a true result
// here means finish is fully done with this slot, not just past the decrement.
func (r *record) reusable() bool {
	return r.unfinishedJobs.Load() == 0
}

// link sets a child's parent: the parent link must be set, and the
// parent's counter incremented, before the child is made visible to any other
// goroutine — i.e. before Schedule. Called only on a record still
// owned by its builder (pre-Schedule), so no synchronization is needed on the child
// side; the parent's counter increment is atomic because the parent may already be
// visible to other workers.
func (r *record) link(parent Handle, parentRec *record) {
	r.hasParent = true
	r.parent = parent
	parentRec.unfinishedJobs.Inc()
}

// addContinuation appends a continuation. Must be called
// before Schedule; enforced by the Builder, not by record itself.
func (r *record) addContinuation(cont Handle, max int) error {
	n := r.continuationN.Load()
	if int(n) >= max || int(n) >= continuationsCap {
		return ErrTooManyContinuations
	}
	r.continuations[n] = cont
	r.continuationN.Inc()
	return nil
}

// setPayload copies a value of type P into the record's inline byte buffer via
// unsafe.Pointer, the literal translation of job.rs's userdata: [u8; 128] (see
// DESIGN.md "Inline payload vs. closures"). Returns ErrPayloadTooLarge if P doesn't
// fit within maxPayloadBytes.
func setPayload[P any](r *record, payload P, maxPayloadBytes int) error {
	size := int(unsafe.Sizeof(payload))
	if size > maxPayloadBytes || size > payloadCap {
		return ErrPayloadTooLarge
	}
	*(*P)(unsafe.Pointer(&r.payload[0])) = payload
	r.dropPayload = func() {
		var zero P
		*(*P)(unsafe.Pointer(&r.payload[0])) = zero
	}
	return nil
}

// payloadOf reconstructs the *P stored by setPayload. Only valid to call from the
// job's own fn, which is the sole reader.
func payloadOf[P any](r *record) *P {
	return (*P)(unsafe.Pointer(&r.payload[0]))
}

// finish is invoked by the executor after a job's body returns, or by the panic
// recovery path if the body panicked. It decrements
// the completion counter; on the 1→0 transition it schedules each continuation, drops
// the payload in place, and then recursively finishes the parent — the same three
// steps as job.rs's finish, with the parent step last because it runs after the lock
// described below is released.
//
// The whole 1→0 cleanup runs under r's own ring allocator lock, the same lock
// allocate takes before checking reusable(): a stolen job can SpawnChild back onto
// its originating ring from any worker, so that ring's allocate is not actually
// single-writer, and the counter reaching zero is not by itself a safe signal for
// allocate to reclaim the slot while finish is still clearing hasParent, parent,
// continuationN, fn, and generation. Holding the lock across all of it, rather than
// just the decrement, makes generation.Inc() — finish's true last write — the thing
// allocate's reusable() check is actually synchronized against. The lock is released
// before recursing into the parent's finish, which locks its own ring's allocator
// (possibly the very same one), so the recursion never re-enters a held mutex.
func finish(s *Scheduler, h Handle, r *record) {
	var parent Handle
	var parentRec *record
	recurse := false

	alloc := s.allocatorForRing(h.Ring())
	lock := func() {
		if alloc != nil {
			alloc.mu.Lock()
		}
	}
	unlock := func() {
		if alloc != nil {
			alloc.mu.Unlock()
		}
	}

	lock()
	old := r.unfinishedJobs.Dec() + 1
	if old != 1 {
		unlock()
		return
	}

	if r.hasParent {
		if pr, ok := s.lookup(r.parent); ok {
			parent, parentRec, recurse = r.parent, pr, true
		}
	}

	n := int(r.continuationN.Load())
	for i := 0; i < n; i++ {
		s.scheduleHandle(r.continuations[i])
	}

	if r.dropPayload != nil {
		r.dropPayload()
		r.dropPayload = nil
	}
	r.fn = nil
	r.hasParent = false
	r.parent = zeroHandle
	r.continuationN.Store(0)

	r.generation.Inc()
	unlock()

	if recurse {
		finish(s, parent, parentRec)
	}
}
