package iter

// Producer is an indexed source of items that can be divided in two at an index,
// grounded on iter/producer.rs's Producer trait (len/split_at). Implementors
// must make Split(i) + Split(i) cover exactly the same items as the original in the
// same order, with no overlap.
type Producer[T any] interface {
	// Len reports how many items remain in this producer.
	Len() int
	// Split divides this producer at index, returning the [0,index) producer and the
	// [index,Len()) producer.
	Split(index int) (Producer[T], Producer[T])
	// ForEach visits every remaining item in order. Called only on a producer that
	// has stopped splitting (a leaf of the recursion).
	ForEach(visit func(T))
}

// SliceProducer is a Producer backed by a Go slice, grounded on iter/slice.rs's
// SliceProducer / iter/vec.rs's IntoIter-over-Vec producer.
type SliceProducer[T any] struct {
	items []T
}

// FromSlice builds a Producer over items. The slice is read, never mutated.
func FromSlice[T any](items []T) *SliceProducer[T] {
	return &SliceProducer[T]{items: items}
}

func (p *SliceProducer[T]) Len() int { return len(p.items) }

func (p *SliceProducer[T]) Split(index int) (Producer[T], Producer[T]) {
	return &SliceProducer[T]{items: p.items[:index]}, &SliceProducer[T]{items: p.items[index:]}
}

func (p *SliceProducer[T]) ForEach(visit func(T)) {
	for _, item := range p.items {
		visit(item)
	}
}
