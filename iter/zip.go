package iter

// pair is the item type produced by Zip, standing in for the original's tuple
// (A, B) (iter/zip.rs).
type pair[A, B any] struct {
	First  A
	Second B
}

// zipProducer drives two producers in lockstep, grounded on iter/zip.rs's
// ZipProducer: its length is the shorter of the two, and splitting both sides at the
// same index keeps them aligned.
type zipProducer[A, B any] struct {
	a Producer[A]
	b Producer[B]
}

// Zip pairs up items from a and b positionally, stopping at the shorter of the two.
func Zip[A, B any](a Producer[A], b Producer[B]) Producer[pair[A, B]] {
	return &zipProducer[A, B]{a: a, b: b}
}

func (p *zipProducer[A, B]) Len() int {
	la, lb := p.a.Len(), p.b.Len()
	if la < lb {
		return la
	}
	return lb
}

func (p *zipProducer[A, B]) Split(index int) (Producer[pair[A, B]], Producer[pair[A, B]]) {
	leftA, rightA := p.a.Split(index)
	leftB, rightB := p.b.Split(index)
	return &zipProducer[A, B]{a: leftA, b: leftB}, &zipProducer[A, B]{a: rightA, b: rightB}
}

func (p *zipProducer[A, B]) ForEach(visit func(pair[A, B])) {
	n := p.Len()
	as := collect(p.a, n)
	bs := collect(p.b, n)
	for i := 0; i < n; i++ {
		visit(pair[A, B]{First: as[i], Second: bs[i]})
	}
}

// collect drains up to n items from a producer's ForEach in order; used by Zip's
// leaf-level ForEach, which needs positional access to items a plain ForEach callback
// doesn't give it.
func collect[T any](p Producer[T], n int) []T {
	out := make([]T, 0, n)
	p.ForEach(func(item T) {
		if len(out) < n {
			out = append(out, item)
		}
	})
	return out
}
