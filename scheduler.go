package forkjoin

import (
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler is the fork-join job system facade. It owns a Pool of worker
// goroutines and exposes the Spawn/Schedule/Wait API job bodies and external callers
// use to build and run job graphs. Adapted from a WorkerPool entry point
// (New/NewWithConfig/Run), replaced with an always-on pool rather than a run-once
// batch processor, since jobs here spawn further jobs at runtime instead of arriving
// as one upfront slice.
type Scheduler struct {
	cfg    Config
	pool   *Pool
	logger schedulerLogger
}

// NewScheduler builds and starts a Scheduler with the given configuration.
// Zero-valued fields in cfg are filled in with their defaults.
func NewScheduler(cfg Config) *Scheduler {
	cfg = cfg.normalize()
	s := &Scheduler{
		cfg:    cfg,
		logger: newNopLogger(),
	}
	s.pool = newPool(cfg, s.logger)
	s.pool.start(s)
	return s
}

// SetLogger installs a zap logger for scheduler diagnostics. Safe to call at
// any point after NewScheduler.
func (s *Scheduler) SetLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	wrapped := schedulerLogger{l.Sugar()}
	s.logger = wrapped
	s.pool.logger = wrapped
}

// SetPanicHook installs a callback invoked whenever a job body panics.
// The scheduler always recovers the panic and logs it regardless of whether a hook is
// installed; the hook is purely an additional notification point.
func (s *Scheduler) SetPanicHook(hook PanicHook) {
	s.pool.panicHook = hook
}

// Shutdown stops every worker goroutine once the job graph has drained, and blocks
// until they've all exited. The Scheduler must not be used again afterward.
func (s *Scheduler) Shutdown() {
	s.pool.shutdownAndWait()
}

// lookup resolves a Handle to its record; used internally by finish, IsFinished, and
// WaitFor.
func (s *Scheduler) lookup(h Handle) (*record, bool) {
	return s.pool.lookup(h)
}

// scheduleHandle pushes an already-allocated job onto its owning ring's deque (or the
// shared injector for externally-allocated jobs), making it visible to worker
// goroutines.
func (s *Scheduler) scheduleHandle(h Handle) {
	s.pool.dispatch(h)
}

// Builder constructs a job before it becomes visible to any worker. Obtain one
// via Scheduler.Spawn, Scheduler.SpawnChild, or Scheduler.SpawnPayload; call
// WithContinuation any number of times, then Schedule exactly once.
type Builder struct {
	s         *Scheduler
	ring      int32
	allocator *allocator
	h         Handle
	rec       *record
	err       error
}

// Spawn allocates a job from the shared external ring, for use by goroutines outside
// the worker pool. From inside a running job body prefer SpawnChild,
// which keeps the new job on the calling job's own ring.
func (s *Scheduler) Spawn(fn JobFunc) *Builder {
	return s.spawnOn(s.pool.externalAlloc, fn)
}

// SpawnChild allocates a job on the same ring as self, the job currently executing,
// grounded on ze_jobsystem/allocator.rs's spawn_child(job, ...) convenience API. Call
// this from within a JobFunc using the self Handle it was given.
func (s *Scheduler) SpawnChild(self Handle, fn JobFunc) *Builder {
	alloc := s.allocatorForRing(self.Ring())
	if alloc == nil {
		return s.Spawn(fn)
	}
	return s.spawnOn(alloc, fn)
}

func (s *Scheduler) allocatorForRing(ring int32) *allocator {
	if ring == s.pool.externalRing {
		return s.pool.externalAlloc
	}
	if int(ring) < 0 || int(ring) >= len(s.pool.workers) {
		return nil
	}
	return s.pool.workers[ring].allocator
}

func (s *Scheduler) spawnOn(alloc *allocator, fn JobFunc) *Builder {
	h, rec, err := alloc.allocate()
	if err != nil {
		s.logger.allocatorExhausted(int(alloc.ringID))
		return &Builder{s: s, err: err}
	}
	rec.fn = fn
	return &Builder{s: s, ring: alloc.ringID, allocator: alloc, h: h, rec: rec}
}

// SpawnPayload allocates a child job on self's ring whose body receives a pointer to
// an inline copy of payload, grounded on job.rs's [u8; 128] userdata
// buffer. Returns ErrPayloadTooLarge if payload doesn't fit within
// Config.MaxPayloadBytes.
func SpawnPayload[P any](s *Scheduler, self Handle, payload P, fn func(sch *Scheduler, self Handle, p *P)) *Builder {
	b := s.SpawnChild(self, nil)
	if b.err != nil {
		return b
	}
	if err := setPayload(b.rec, payload, s.cfg.MaxPayloadBytes); err != nil {
		b.err = err
		return b
	}
	b.rec.fn = func(sch *Scheduler, h Handle) {
		fn(sch, h, payloadOf[P](b.rec))
	}
	return b
}

// WithParent links this job as a child of parent.
// The parent's completion waits for this job. Must be called before Schedule.
func (b *Builder) WithParent(parent Handle) *Builder {
	if b.err != nil {
		return b
	}
	parentRec, ok := b.s.lookup(parent)
	if !ok {
		return b
	}
	b.rec.link(parent, parentRec)
	return b
}

// WithContinuation registers cont to be scheduled when this job finishes. Must be called before Schedule. cont should
// already be built (via a prior Builder.Schedule-less allocation) but not yet
// scheduled, so it doesn't run before this job finishes.
func (b *Builder) WithContinuation(cont Handle) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.rec.addContinuation(cont, b.s.cfg.MaxContinuations); err != nil {
		b.err = err
	}
	return b
}

// Handle returns the handle this builder will schedule, usable for WithParent /
// WithContinuation calls on sibling builders before any of them is scheduled.
func (b *Builder) Handle() Handle { return b.h }

// Err reports any error recorded on this builder (allocator exhaustion, too many
// continuations, an oversized payload, or ErrAlreadyScheduled once Schedule has
// succeeded).
func (b *Builder) Err() error { return b.err }

// Schedule makes this job visible to the worker pool. Returns the
// job's Handle and any error recorded during building; a non-nil error means this
// call did not schedule the job.
func (b *Builder) Schedule() (Handle, error) {
	if b.err != nil {
		return Handle{}, b.err
	}
	if b.s.pool.shutdown.Load() {
		return Handle{}, ErrPoolShutdown
	}
	b.s.scheduleHandle(b.h)
	b.err = ErrAlreadyScheduled
	return b.h, nil
}

// Join spawns b as a job, runs a as a plain call on the calling goroutine, then waits
// for b. Only b costs a ring slot; a never touches the allocator, so a recursive
// caller like iter's driver only pays for one spawn per split level instead of two.
// a runs with the zero Handle as its self, so a SpawnChild call from within a falls
// back to Spawn (see SpawnChild) rather than dereferencing an invalid ring.
func (s *Scheduler) Join(a, b JobFunc) {
	bh, bErr := s.Spawn(b).Schedule()

	func() {
		defer func() {
			if r := recover(); r != nil {
				s.pool.logger.jobPanicked(-1, r)
				if hook := s.pool.panicHook; hook != nil {
					hook(-1, r)
				}
			}
		}()
		a(s, zeroHandle)
	}()

	if bErr == nil {
		s.WaitFor(bh)
	}
}

// WaitFor blocks the calling goroutine until h's job (and all of its descendants)
// have finished. The caller helps drain the pool while waiting: deque.Steal is an
// any-thread operation, so WaitFor treats worker and non-worker callers identically
// rather than tracking which goroutines are workers.
func (s *Scheduler) WaitFor(h Handle) {
	backoff := time.Microsecond
	for !h.IsFinished(s) {
		if s.stealAndRunOne() {
			backoff = time.Microsecond
			continue
		}
		time.Sleep(backoff)
		if backoff < time.Millisecond {
			backoff *= 2
		}
	}
}

// WaitUntilIdle blocks until no job is running or runnable anywhere in the pool.
func (s *Scheduler) WaitUntilIdle() {
	backoff := time.Microsecond
	for !s.pool.isIdle() {
		time.Sleep(backoff)
		if backoff < time.Millisecond {
			backoff *= 2
		}
	}
}

// stealAndRunOne attempts to steal and execute a single runnable job from anywhere in
// the pool, returning false if nothing was found. Used by WaitFor so a blocked
// goroutine contributes to draining the graph instead of idling.
func (s *Scheduler) stealAndRunOne() bool {
	if h, ok := s.pool.injector.Pop(); ok {
		if rec, ok := s.pool.lookup(h); ok {
			runInline(s, h, rec, s.pool)
			return true
		}
	}
	for _, w := range s.pool.workers {
		if h, ok := w.deque.Steal(); ok {
			if rec, ok := s.pool.lookup(h); ok {
				runInline(s, h, rec, s.pool)
				return true
			}
		}
	}
	return false
}

// runInline executes a single job body outside any worker's own loop, recovering
// panics the same way Worker.execute does.
func runInline(s *Scheduler, h Handle, rec *record, p *Pool) {
	p.active.Add(1)
	defer p.active.Add(-1)

	func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.jobPanicked(-1, r)
				if hook := p.panicHook; hook != nil {
					hook(-1, r)
				}
			}
		}()
		fn := rec.fn
		if fn != nil {
			fn(s, h)
		}
	}()

	finish(s, h, rec)
	p.wake()
}

var (
	global   *Scheduler
	globalMu sync.Mutex
)

// TryInitializeGlobal initializes the process-wide Scheduler singleton. Returns ErrSchedulerAlreadyInitialized if called more than
// once; only the first call's Config takes effect.
func TryInitializeGlobal(cfg Config) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global != nil {
		global.logger.globalAlreadyInitialized()
		return ErrSchedulerAlreadyInitialized
	}
	global = NewScheduler(cfg)
	return nil
}

// Global returns the process-wide Scheduler singleton, or ErrNoGlobalScheduler if
// TryInitializeGlobal hasn't been called yet.
func Global() (*Scheduler, error) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		return nil, ErrNoGlobalScheduler
	}
	return global, nil
}

// DefaultParallelism returns runtime.GOMAXPROCS(0) (at least 1), a fan-out width for
// callers (e.g. the iter package's Splitter) that need one without constructing a
// Scheduler, grounded on the original Splitter's splits: num_cpus::get(). It is one
// more than the default worker count, which leaves a slot for the calling goroutine.
func DefaultParallelism() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}
