package forkjoin

// Handle is an opaque reference to a job record. It is a plain value (clonable,
// copyable, safe to share across goroutines) rather than a raw pointer into the
// allocator ring: ring identifies which worker's
// (or the shared injector's) allocator owns the slot, index is the slot within that
// ring, and generation is bumped each time the slot is reused so a stale Handle can be
// told apart from one addressing the slot's current occupant.
type Handle struct {
	ring       int32
	index      int32
	generation int32
}

// Ring reports which allocator ring this handle's record lives in. Used by SpawnChild
// to give a child job the same ring affinity as the job spawning it (thread-local
// allocation on the hot recursive path), and by the pool to route Schedule pushes to
// the owning worker's deque.
func (h Handle) Ring() int32 { return h.ring }

// zeroHandle is the not-a-handle value; used as a job's parent link when it has none.
var zeroHandle = Handle{ring: -1}

func (h Handle) valid() bool { return h.ring >= 0 }

// IsFinished reports whether the job this handle addresses has completed: its
// unfinished-jobs counter has reached zero. The check holds the handle's ring
// allocator lock, which finish holds across its whole cleanup, so a true result means
// finish is done with the slot. A Handle observed finished must not be
// touched again except through a WaitFor barrier; the scheduler itself only
// ever dereferences handles internally under that discipline.
func (h Handle) IsFinished(s *Scheduler) bool {
	if alloc := s.allocatorForRing(h.ring); alloc != nil {
		alloc.mu.Lock()
		defer alloc.mu.Unlock()
	}
	rec, ok := s.lookup(h)
	if !ok {
		// Generation mismatch: the slot has already been recycled for a different
		// job, which can only happen after this job finished and was reused.
		return true
	}
	return rec.unfinishedJobs.Load() == 0
}
