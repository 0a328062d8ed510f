package forkjoin

import "go.uber.org/zap"

// schedulerLogger wraps *zap.SugaredLogger with scheduler-specific helper methods,
// grounded on the pulseLogger wrapper pattern over *zap.SugaredLogger in
// other_examples/f1135f49_teranos-QNTX__pulse-async-worker.go.go. Defaults to a no-op
// logger so library consumers aren't forced into a logging backend.
type schedulerLogger struct {
	*zap.SugaredLogger
}

func newNopLogger() schedulerLogger {
	return schedulerLogger{zap.NewNop().Sugar()}
}

// workerStarted logs a worker goroutine coming up, identified by its worker index.
func (l schedulerLogger) workerStarted(index int) {
	l.Debugw("worker started", "worker", index)
}

// workerParked logs a worker finding no work and parking.
func (l schedulerLogger) workerParked(index int) {
	l.Debugw("worker parked", "worker", index)
}

// allocatorExhausted logs a ring exhaustion event.
func (l schedulerLogger) allocatorExhausted(worker int) {
	l.Warnw("allocator ring exhausted", "worker", worker)
}

// jobPanicked logs a recovered user-body panic.
func (l schedulerLogger) jobPanicked(worker int, recovered any) {
	l.Errorw("job panicked", "worker", worker, "panic", recovered)
}

// globalAlreadyInitialized logs a rejected TryInitializeGlobal race.
func (l schedulerLogger) globalAlreadyInitialized() {
	l.Warnw("global scheduler already initialized")
}
