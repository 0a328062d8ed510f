package forkjoin

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// workerThreadName builds the OS thread name for a worker, matching worker_thread.rs's
// format!("Worker Thread {}", index).
func workerThreadName(index int) string {
	return fmt.Sprintf("Worker Thread %d", index)
}

// stealBatchSize bounds how many handles a worker pulls from the injector in one go,
// mirroring worker_thread.rs's steal_batch_and_pop call (it moves a batch, not a
// single item, to amortize the injector's lock).
const stealBatchSize = 32

// Worker owns one allocator ring and one work-stealing deque. It runs its
// find-work loop on its own goroutine, parking on the pool's condition variable when
// it finds nothing to do anywhere, grounded on worker_thread.rs's thread_main: pop,
// then steal_batch_and_pop from the injector, then steal from siblings, then park on
// sleep_mutex()/sleep_condvar().
type Worker struct {
	index     int
	allocator *allocator
	deque     *deque
	pool      *Pool
}

// Pool is the fixed set of worker goroutines plus the shared injector ring non-worker
// callers submit into. Unlike a pool that distributes a known, finite job slice across
// strategies, this one runs an open-ended work-stealing scheduler where jobs spawn
// further jobs at runtime.
type Pool struct {
	workers       []*Worker
	injector      *injector
	externalRing  int32
	externalAlloc *allocator

	mu        sync.Mutex
	cond      *sync.Cond
	idleCount int32
	active    atomic.Int32
	shutdown  atomic.Bool

	logger    schedulerLogger
	panicHook PanicHook

	wg sync.WaitGroup
}

func newPool(cfg Config, logger schedulerLogger) *Pool {
	p := &Pool{
		injector:     newInjector(),
		logger:       logger,
		externalRing: int32(cfg.WorkerCount),
	}
	p.cond = sync.NewCond(&p.mu)
	p.workers = make([]*Worker, cfg.WorkerCount)
	for i := range p.workers {
		p.workers[i] = &Worker{
			index:     i,
			allocator: newAllocator(int32(i), cfg.RingCapacity),
			deque:     newDeque(cfg.RingCapacity),
			pool:      p,
		}
	}
	p.externalAlloc = newAllocator(p.externalRing, cfg.RingCapacity)
	return p
}

// lookup resolves a handle to its record whether it was allocated from a worker's own
// ring or from the shared ring used for externally-submitted jobs.
func (p *Pool) lookup(h Handle) (*record, bool) {
	if h.ring == p.externalRing {
		return p.externalAlloc.lookup(h)
	}
	if int(h.ring) < 0 || int(h.ring) >= len(p.workers) {
		return nil, false
	}
	return p.workers[h.ring].allocator.lookup(h)
}

// dispatch routes a freshly scheduled handle to its owning worker's deque, or to the
// shared injector when it was allocated on the external ring.
func (p *Pool) dispatch(h Handle) {
	if h.ring == p.externalRing {
		p.injector.Push(h)
	} else {
		p.workers[h.ring].deque.Push(h)
	}
	p.wake()
}

// start launches every worker goroutine. s is passed through to job bodies.
func (p *Pool) start(s *Scheduler) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go w.run(s)
	}
}

// shutdownAndWait signals every worker to exit once it next observes no work
// anywhere, wakes any parked workers, and blocks until all have returned.
func (p *Pool) shutdownAndWait() {
	p.shutdown.Store(true)
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

// wake wakes any worker parked waiting for new work, called whenever a job becomes
// runnable (Schedule, a continuation firing, an external Push into the injector).
func (p *Pool) wake() {
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
}

// isIdle reports whether every worker is currently parked, no job body is executing,
// and the injector and every worker deque are empty; used by Scheduler.WaitUntilIdle.
func (p *Pool) isIdle() bool {
	p.mu.Lock()
	idle := int(p.idleCount) == len(p.workers)
	p.mu.Unlock()
	if !idle || p.active.Load() != 0 || !p.injector.IsEmpty() {
		return false
	}
	for _, w := range p.workers {
		if !w.deque.IsEmpty() {
			return false
		}
	}
	return true
}

func (w *Worker) run(s *Scheduler) {
	defer w.pool.wg.Done()
	setCurrentThreadName(workerThreadName(w.index))
	w.pool.logger.workerStarted(w.index)

	for {
		if h, rec, ok := w.findWork(); ok {
			w.execute(s, h, rec)
			continue
		}

		if w.pool.shutdown.Load() {
			return
		}

		if w.park() {
			return
		}
	}
}

// findWork implements the pop / steal-from-injector / steal-from-siblings chain,
// returning the handle together with its record so the caller doesn't pay a second
// lookup. Lookups always go through pool.lookup rather than this worker's own
// allocator, since a deque can hold handles originally allocated on another ring (a
// batch pulled from the shared injector keeps the external ring id it was allocated
// with).
func (w *Worker) findWork() (Handle, *record, bool) {
	if h, ok := w.deque.Pop(); ok {
		if rec, ok := w.pool.lookup(h); ok {
			return h, rec, true
		}
	}

	if h, ok := w.pool.injector.StealBatchAndPop(w.deque, stealBatchSize); ok {
		if rec, ok := w.pool.lookup(h); ok {
			return h, rec, true
		}
	}

	n := len(w.pool.workers)
	for i := 1; i < n; i++ {
		victim := w.pool.workers[(w.index+i)%n]
		if h, ok := victim.deque.Steal(); ok {
			if rec, ok := w.pool.lookup(h); ok {
				return h, rec, true
			}
		}
	}

	return Handle{}, nil, false
}

// execute runs a job body to completion, recovering a panic per the PanicHook policy,
// then calls finish regardless of outcome.
func (w *Worker) execute(s *Scheduler, h Handle, rec *record) {
	w.pool.active.Add(1)
	defer w.pool.active.Add(-1)

	func() {
		defer func() {
			if r := recover(); r != nil {
				w.pool.logger.jobPanicked(w.index, r)
				if hook := w.pool.panicHook; hook != nil {
					hook(w.index, r)
				}
			}
		}()
		fn := rec.fn
		if fn != nil {
			fn(s, h)
		}
	}()

	finish(s, h, rec)
	w.pool.wake()
}

// park blocks this worker on the pool's condition variable until new work may exist
// or shutdown is requested, returning true if the worker should exit.
func (w *Worker) park() bool {
	w.pool.mu.Lock()
	w.pool.idleCount++
	w.pool.logger.workerParked(w.index)
	for !w.pool.shutdown.Load() && w.pool.injector.IsEmpty() && w.allDequesEmpty() {
		w.pool.cond.Wait()
	}
	w.pool.idleCount--
	shutdown := w.pool.shutdown.Load()
	w.pool.mu.Unlock()
	return shutdown && w.allDequesEmpty() && w.pool.injector.IsEmpty()
}

func (w *Worker) allDequesEmpty() bool {
	for _, sib := range w.pool.workers {
		if !sib.deque.IsEmpty() {
			return false
		}
	}
	return true
}
