package iter

import (
	"sync"
	"testing"

	"github.com/go-foundations/forkjoin"
)

func newTestScheduler() *forkjoin.Scheduler {
	return forkjoin.NewScheduler(forkjoin.Config{WorkerCount: 4, RingCapacity: 256})
}

func TestForEachVisitsEveryItem(t *testing.T) {
	s := newTestScheduler()
	defer s.Shutdown()

	const n = 1000
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}

	var mu sync.Mutex
	seen := make(map[int]bool, n)

	ForEach(s, FromSlice(items), func(v int) {
		mu.Lock()
		seen[v] = true
		mu.Unlock()
	})

	if len(seen) != n {
		t.Fatalf("expected %d items visited, got %d", n, len(seen))
	}
}

func TestReduceSum(t *testing.T) {
	s := newTestScheduler()
	defer s.Shutdown()

	const n = 10000
	items := make([]int, n)
	want := 0
	for i := range items {
		items[i] = i + 1
		want += i + 1
	}

	got := Reduce(s, FromSlice(items), 0, func(a, b int) int { return a + b })
	if got != want {
		t.Fatalf("Reduce sum = %d, want %d", got, want)
	}
}

func TestReduceEmptyReturnsIdentity(t *testing.T) {
	s := newTestScheduler()
	defer s.Shutdown()

	got := Reduce(s, FromSlice([]int{}), 42, func(a, b int) int { return a + b })
	if got != 42 {
		t.Fatalf("Reduce over an empty producer should return the identity, got %d", got)
	}
}

func TestZipStopsAtShorterSide(t *testing.T) {
	a := FromSlice([]int{1, 2, 3, 4, 5})
	b := FromSlice([]string{"a", "b", "c"})

	zipped := Zip[int, string](a, b)
	if zipped.Len() != 3 {
		t.Fatalf("Zip length should be the shorter side's length, got %d", zipped.Len())
	}

	var got []pair[int, string]
	zipped.ForEach(func(p pair[int, string]) { got = append(got, p) })
	if len(got) != 3 || got[2].First != 3 || got[2].Second != "c" {
		t.Fatalf("unexpected zipped contents: %+v", got)
	}
}

func TestEnumerateOffsetSurvivesSplit(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	enum := Enumerate[string](FromSlice(items))

	left, right := enum.Split(2)
	var leftGot, rightGot []indexed[string]
	left.ForEach(func(v indexed[string]) { leftGot = append(leftGot, v) })
	right.ForEach(func(v indexed[string]) { rightGot = append(rightGot, v) })

	if len(leftGot) != 2 || leftGot[0].Index != 0 || leftGot[1].Index != 1 {
		t.Fatalf("unexpected left half: %+v", leftGot)
	}
	if len(rightGot) != 2 || rightGot[0].Index != 2 || rightGot[1].Index != 3 {
		t.Fatalf("unexpected right half (offset should carry across split): %+v", rightGot)
	}
}

func TestSplitterExhaustsBudget(t *testing.T) {
	sp := &Splitter{splits: 2, minSplits: 1}
	if !sp.TrySplit(100) {
		t.Fatal("expected first TrySplit to succeed")
	}
	if !sp.TrySplit(100) {
		t.Fatal("expected second TrySplit to succeed")
	}
	if sp.TrySplit(100) {
		t.Fatal("expected TrySplit to fail once the budget is exhausted")
	}
}

func TestSplitterRefusesSingleItem(t *testing.T) {
	sp := NewSplitter()
	if sp.TrySplit(1) {
		t.Fatal("a producer of length 1 should never be split")
	}
}

func TestParallelSliceForEach(t *testing.T) {
	s := newTestScheduler()
	defer s.Shutdown()

	var count int32
	var mu sync.Mutex
	Of(s, []int{1, 2, 3, 4, 5}).ForEach(func(int) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	if count != 5 {
		t.Fatalf("expected 5 visits, got %d", count)
	}
}
