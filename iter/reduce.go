package iter

import "github.com/go-foundations/forkjoin"

// reduceFolder and reduceConsumer implement the Reduce terminal operation, the
// generalization of for_each.rs's pattern to an accumulating fold with an associative
// combining function, adding the fold/reduce operation present throughout the
// original iter module's Folder/Reducer split.
type reduceFolder[T any] struct {
	identity T
	combine  func(T, T) T
	acc      T
	started  bool
}

func (f *reduceFolder[T]) Consume(item T) {
	if !f.started {
		f.acc = item
		f.started = true
		return
	}
	f.acc = f.combine(f.acc, item)
}

func (f *reduceFolder[T]) Complete() T {
	if !f.started {
		return f.identity
	}
	return f.acc
}

type reduceConsumer[T any] struct {
	identity T
	combine  func(T, T) T
}

func (c *reduceConsumer[T]) Split(int) (Consumer[T, T], Consumer[T, T]) {
	return c, c
}

func (c *reduceConsumer[T]) IntoFolder() Folder[T, T] {
	return &reduceFolder[T]{identity: c.identity, combine: c.combine}
}

func (c *reduceConsumer[T]) Reduce(left, right T) T {
	return c.combine(left, right)
}

// Reduce combines every item produced by prod using combine, an associative function,
// starting from identity. combine must be safe to call concurrently.
func Reduce[T any](s *forkjoin.Scheduler, prod Producer[T], identity T, combine func(T, T) T) T {
	return Drive[T, T](s, prod, &reduceConsumer[T]{identity: identity, combine: combine})
}
