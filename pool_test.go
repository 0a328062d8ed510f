package forkjoin

import "testing"

func TestPoolLookupRoutesByRing(t *testing.T) {
	cfg := Config{WorkerCount: 2, RingCapacity: 16}
	p := newPool(cfg, newNopLogger())

	workerHandle, workerRec, err := p.workers[1].allocator.allocate()
	if err != nil {
		t.Fatalf("allocate on worker ring failed: %v", err)
	}
	got, ok := p.lookup(workerHandle)
	if !ok || got != workerRec {
		t.Fatal("lookup should resolve a handle allocated from a worker's own ring")
	}

	externalHandle, externalRec, err := p.externalAlloc.allocate()
	if err != nil {
		t.Fatalf("allocate on external ring failed: %v", err)
	}
	got, ok = p.lookup(externalHandle)
	if !ok || got != externalRec {
		t.Fatal("lookup should resolve a handle allocated from the external ring")
	}
}

func TestPoolDispatchRoutesToOwningDeque(t *testing.T) {
	cfg := Config{WorkerCount: 2, RingCapacity: 16}
	p := newPool(cfg, newNopLogger())

	workerHandle, _, err := p.workers[0].allocator.allocate()
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	p.dispatch(workerHandle)
	if p.workers[0].deque.IsEmpty() {
		t.Fatal("dispatch should push a worker-ring handle onto that worker's own deque")
	}

	externalHandle, _, err := p.externalAlloc.allocate()
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	p.dispatch(externalHandle)
	if p.injector.IsEmpty() {
		t.Fatal("dispatch should push an external-ring handle into the shared injector")
	}
}

func TestPoolIsIdleWhenNoWorkersStarted(t *testing.T) {
	cfg := Config{WorkerCount: 2, RingCapacity: 16}
	p := newPool(cfg, newNopLogger())

	// No workers have been started, so idleCount never reaches len(workers); isIdle
	// should report false rather than vacuously true.
	if p.isIdle() {
		t.Fatal("a pool with no parked workers should not report idle")
	}
}
