// Package forkjoin provides a fork-join job scheduler: a fixed-size pool of worker
// goroutines that execute short-lived jobs drawn from per-worker work-stealing deques,
// with parent/child hierarchies and completion continuations.
//
// The scheduler supports:
//   - Generic, payload-carrying jobs with O(1) thread-local allocation
//   - Work-stealing distribution across a fixed worker pool, with a shared injector
//     for submissions from non-worker goroutines
//   - Parent/child job hierarchies and completion continuations
//   - A divide-and-conquer parallel-iterator layer built on top (see package iter)
//   - A process-wide optional global scheduler instance
//
// The scheduler is tuned for bursts of many short jobs (e.g. one simulation frame);
// it does not support persistent tasks, priority classes, preemption, deadline
// scheduling, or cross-process work migration. Long-running blocking jobs will starve
// the pool.
package forkjoin
