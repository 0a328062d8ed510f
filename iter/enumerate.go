package iter

// indexed is the item type produced by Enumerate, standing in for the original's
// (usize, T) tuple (iter/enumerate.rs).
type indexed[T any] struct {
	Index int
	Value T
}

// enumerateProducer carries an offset that the right half of every split advances by
// the split index (the left half keeps it), grounded on
// iter/enumerate.rs's EnumerateProducer, so each half knows its items' true position
// in the original sequence rather than restarting from zero.
type enumerateProducer[T any] struct {
	base   Producer[T]
	offset int
}

// Enumerate pairs every item from base with its position in the original sequence.
func Enumerate[T any](base Producer[T]) Producer[indexed[T]] {
	return &enumerateProducer[T]{base: base}
}

func (p *enumerateProducer[T]) Len() int { return p.base.Len() }

func (p *enumerateProducer[T]) Split(index int) (Producer[indexed[T]], Producer[indexed[T]]) {
	left, right := p.base.Split(index)
	return &enumerateProducer[T]{base: left, offset: p.offset},
		&enumerateProducer[T]{base: right, offset: p.offset + index}
}

func (p *enumerateProducer[T]) ForEach(visit func(indexed[T])) {
	i := p.offset
	p.base.ForEach(func(v T) {
		visit(indexed[T]{Index: i, Value: v})
		i++
	})
}
