package forkjoin

import "errors"

// Sentinel errors returned by the scheduler. They are returned as-is, not wrapped,
// so callers may compare them with ==; there is no custom error-code type.
var (
	// ErrAllocatorExhausted is returned by allocate when the calling goroutine's ring
	// has wrapped and the slot at the expected index is still running. The caller
	// should drain outstanding work with a short WaitFor, or raise RingCapacity.
	ErrAllocatorExhausted = errors.New("forkjoin: allocator ring exhausted")

	// ErrPayloadTooLarge is returned by SpawnPayload when the payload exceeds the
	// scheduler's MaxPayloadBytes.
	ErrPayloadTooLarge = errors.New("forkjoin: payload exceeds max payload bytes")

	// ErrTooManyContinuations is returned by WithContinuation when a job's
	// continuation list is already at MaxContinuations.
	ErrTooManyContinuations = errors.New("forkjoin: too many continuations")

	// ErrSchedulerAlreadyInitialized is returned by TryInitializeGlobal on any call
	// after the first.
	ErrSchedulerAlreadyInitialized = errors.New("forkjoin: global scheduler already initialized")

	// ErrAlreadyScheduled is recorded on a Builder once its job has been scheduled:
	// a second Schedule returns it, and later WithParent/WithContinuation calls leave
	// the job unchanged and report it through Err. Continuations and parent links
	// must be registered strictly before Schedule.
	ErrAlreadyScheduled = errors.New("forkjoin: job already scheduled")

	// ErrPoolShutdown is returned by Schedule when the pool has been shut down.
	ErrPoolShutdown = errors.New("forkjoin: pool is shut down")

	// ErrNoGlobalScheduler is returned by Global when TryInitializeGlobal has never
	// succeeded.
	ErrNoGlobalScheduler = errors.New("forkjoin: no global scheduler initialized")
)
