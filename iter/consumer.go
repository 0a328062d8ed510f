package iter

// Folder accumulates items fed to it one at a time and produces a result when done,
// grounded on iter/mod.rs's Folder trait (consume/complete).
type Folder[T, Out any] interface {
	// Consume folds one item into the accumulator.
	Consume(item T)
	// Complete finalizes and returns this folder's accumulated result.
	Complete() Out
}

// Consumer is the sink half of the producer/consumer pair, grounded on
// iter/mod.rs's Consumer trait: it can be split alongside a Producer, turned into a
// Folder for a leaf range, and knows how to reduce two sibling results back into one.
type Consumer[T, Out any] interface {
	// Split divides this consumer at index, mirroring a Producer.Split(index) on the
	// same driver.
	Split(index int) (Consumer[T, Out], Consumer[T, Out])
	// IntoFolder converts this (now leaf) consumer into a Folder.
	IntoFolder() Folder[T, Out]
	// Reduce combines two results produced by sibling consumers, in left-to-right
	// order, mirroring iter/mod.rs's Reducer::reduce.
	Reduce(left, right Out) Out
}
