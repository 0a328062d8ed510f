// Package iter is the parallel-iterator layer built on top of the scheduler,
// grounded on ze-jobsystem/src/iter/{mod,producer,for_each,zip,enumerate,slice}.rs.
// It recursively halves a producer's work and runs each half through
// Scheduler.Join, bottoming out once a budget of splits is exhausted or a producer
// can no longer be divided.
package iter

import "github.com/go-foundations/forkjoin"

// Splitter tracks how many times a producer may still be divided, the literal
// translation of the original Splitter: splits starts at the scheduler's parallelism
// and halves on every split, bottoming out at minSplits.
type Splitter struct {
	splits    int
	minSplits int
}

// NewSplitter returns a Splitter seeded from the scheduler's default parallelism,
// matching Splitter::new()'s splits: num_cpus::get().
func NewSplitter() *Splitter {
	return &Splitter{splits: forkjoin.DefaultParallelism(), minSplits: 1}
}

// TrySplit reports whether a producer of the given length should still be divided:
// there must be split budget remaining and more than one item to split across.
func (sp *Splitter) TrySplit(length int) bool {
	if sp == nil {
		return false
	}
	if sp.splits < sp.minSplits || length <= 1 {
		return false
	}
	sp.splits--
	return true
}

// Split halves the remaining budget between two children, the other side of a
// producer split.
func (sp *Splitter) Split() (*Splitter, *Splitter) {
	half := sp.splits / 2
	left := &Splitter{splits: half, minSplits: sp.minSplits}
	right := &Splitter{splits: sp.splits - half, minSplits: sp.minSplits}
	return left, right
}
