package iter

import "github.com/go-foundations/forkjoin"

// Drive runs prod through cons, recursively halving both in step and joining the two
// halves on the scheduler, the literal translation of
// connect_producer_to_consumer's splitter_impl (iter/mod.rs), which recurses via
// global().join(...) until the Splitter budget is exhausted.
func Drive[T, Out any](s *forkjoin.Scheduler, prod Producer[T], cons Consumer[T, Out]) Out {
	return drive(s, NewSplitter(), prod, cons)
}

func drive[T, Out any](s *forkjoin.Scheduler, sp *Splitter, prod Producer[T], cons Consumer[T, Out]) Out {
	n := prod.Len()
	if !sp.TrySplit(n) {
		folder := cons.IntoFolder()
		prod.ForEach(folder.Consume)
		return folder.Complete()
	}

	mid := n / 2
	leftProd, rightProd := prod.Split(mid)
	leftCons, rightCons := cons.Split(mid)
	leftSp, rightSp := sp.Split()

	var leftOut, rightOut Out
	s.Join(
		func(sch *forkjoin.Scheduler, _ forkjoin.Handle) {
			leftOut = drive(sch, leftSp, leftProd, leftCons)
		},
		func(sch *forkjoin.Scheduler, _ forkjoin.Handle) {
			rightOut = drive(sch, rightSp, rightProd, rightCons)
		},
	)

	return cons.Reduce(leftOut, rightOut)
}
