package iter

import "github.com/go-foundations/forkjoin"

// forEachFolder and forEachConsumer implement the ForEach terminal operation,
// grounded on iter/for_each.rs's ForEachConsumer/ForEachFolder, which carry no
// accumulated value: Complete/Reduce both return struct{}{}.
type forEachFolder[T any] struct {
	fn func(T)
}

func (f *forEachFolder[T]) Consume(item T) { f.fn(item) }
func (f *forEachFolder[T]) Complete() struct{} { return struct{}{} }

type forEachConsumer[T any] struct {
	fn func(T)
}

func (c *forEachConsumer[T]) Split(int) (Consumer[T, struct{}], Consumer[T, struct{}]) {
	return c, c
}
func (c *forEachConsumer[T]) IntoFolder() Folder[T, struct{}] { return &forEachFolder[T]{fn: c.fn} }
func (c *forEachConsumer[T]) Reduce(struct{}, struct{}) struct{} { return struct{}{} }

// ForEach visits every item produced by prod in parallel, in no particular order.
// fn must be safe to call concurrently from multiple goroutines.
func ForEach[T any](s *forkjoin.Scheduler, prod Producer[T], fn func(T)) {
	Drive[T, struct{}](s, prod, &forEachConsumer[T]{fn: fn})
}
