package iter

import "github.com/go-foundations/forkjoin"

// ParallelSlice is a fluent entry point over a Go slice, mirroring a chained
// pool.New[...]().WithProcessor(...) style adapted to the producer/consumer model:
// construct with Of, then call ForEach/Reduce.
type ParallelSlice[T any] struct {
	s    *forkjoin.Scheduler
	prod Producer[T]
}

// Of wraps items for parallel iteration, driven by s.
func Of[T any](s *forkjoin.Scheduler, items []T) ParallelSlice[T] {
	return ParallelSlice[T]{s: s, prod: FromSlice(items)}
}

// ForEach visits every item in parallel.
func (p ParallelSlice[T]) ForEach(fn func(T)) {
	ForEach[T](p.s, p.prod, fn)
}

// Reduce combines every item using combine, starting from identity.
func (p ParallelSlice[T]) Reduce(identity T, combine func(T, T) T) T {
	return Reduce[T](p.s, p.prod, identity, combine)
}

// Enumerate pairs every item with its index, returning a plain Producer (not a
// ParallelSlice) usable with Drive directly for callers needing custom consumers.
func (p ParallelSlice[T]) Enumerate() Producer[indexed[T]] {
	return Enumerate[T](p.prod)
}
