package forkjoin

import "sync"

// allocator is a fixed-capacity ring of job records. Index
// computation uses a mask (counter & (cap-1)) rather than modulo, grounded on
// job_allocator.rs's JobAllocator::allocate and, for the mask-indexed ring shape
// itself, joeycumines-go-utilpkg/catrate/ring.go's power-of-two ringBuffer.
//
// A worker's ring is not single-writer: SpawnChild allocates on the ring of the job
// that calls it, from whichever goroutine is running that job (a thief or a WaitFor
// caller), and the injector's shared ring may be written by any goroutine submitting
// external work. Both cases share this type and both take mu, following the WorkStealingDeque pattern of guarding a
// "lock-free" Chase-Lev deque with a mutex rather than true lock-free CAS — see
// DESIGN.md.
type allocator struct {
	mu      sync.Mutex
	ringID  int32
	cap     int32
	mask    int32
	counter int32
	slots   []record
}

func newAllocator(ringID int32, capacity int) *allocator {
	capacity = nextPowerOfTwo(capacity)
	return &allocator{
		ringID: ringID,
		cap:    int32(capacity),
		mask:   int32(capacity) - 1,
		slots:  make([]record, capacity),
	}
}

// allocate reserves a slot, returning ErrAllocatorExhausted if the slot at the next
// index is still occupied (job_allocator.rs: "if job.unfinished_jobs == 0 { claim }
// else { Err(Exhausted) }").
func (a *allocator) allocate() (Handle, *record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	index := a.counter & a.mask
	rec := &a.slots[index]
	if !rec.reusable() {
		return Handle{}, nil, ErrAllocatorExhausted
	}

	a.counter++
	rec.unfinishedJobs.Store(1)
	gen := rec.generation.Load()

	return Handle{ring: a.ringID, index: index, generation: gen}, rec, nil
}

// lookup validates a handle against this ring's current slot generation and returns
// the addressed record. Returns ok=false if the slot has already been recycled for a
// different job (the handle is stale).
func (a *allocator) lookup(h Handle) (*record, bool) {
	if h.index < 0 || h.index >= a.cap {
		return nil, false
	}
	rec := &a.slots[h.index]
	if rec.generation.Load() != h.generation {
		return nil, false
	}
	return rec, true
}
