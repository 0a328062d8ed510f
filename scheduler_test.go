package forkjoin

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// SchedulerTestSuite exercises the fork-join scenarios from the original job
// system's test suite: S1 spawn-and-wait, S2 spawn-with-children, S3
// continuations plus WaitUntilIdle.
type SchedulerTestSuite struct {
	suite.Suite
	s *Scheduler
}

func TestSchedulerTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (ts *SchedulerTestSuite) SetupTest() {
	ts.s = NewScheduler(Config{WorkerCount: 4, RingCapacity: 256})
}

func (ts *SchedulerTestSuite) TearDownTest() {
	ts.s.Shutdown()
}

// TestSpawnOneJobAndWait is S1: spawn_one_job_and_wait.
func (ts *SchedulerTestSuite) TestSpawnOneJobAndWait() {
	var ran atomic.Bool

	h, err := ts.s.Spawn(func(sch *Scheduler, self Handle) {
		ran.Store(true)
	}).Schedule()
	ts.Require().NoError(err)

	ts.s.WaitFor(h)
	ts.True(ran.Load())
	ts.True(h.IsFinished(ts.s))
}

// TestSpawnOneJobFiveChildren is S2: spawn_one_job_five_childs.
func (ts *SchedulerTestSuite) TestSpawnOneJobFiveChildren() {
	var completed atomic.Int32

	root, err := ts.s.Spawn(func(sch *Scheduler, self Handle) {
		for i := 0; i < 5; i++ {
			_, cerr := sch.SpawnChild(self, func(sch *Scheduler, child Handle) {
				completed.Add(1)
			}).WithParent(self).Schedule()
			ts.Require().NoError(cerr)
		}
	}).Schedule()
	ts.Require().NoError(err)

	ts.s.WaitFor(root)
	ts.Equal(int32(5), completed.Load())
}

// TestThreeJobsOneContinuationPerJob is S3:
// spawn_three_jobs_one_continuation_per_job. Each continuation K_i must not start
// before its job J_i ends, asserted by comparing timestamps captured inside the job
// bodies themselves (each i owns a distinct slice index, so no shared mutable state
// needs a lock between the job goroutines; WaitUntilIdle's synchronization is what
// makes those writes visible to the read below).
func (ts *SchedulerTestSuite) TestThreeJobsOneContinuationPerJob() {
	var count atomic.Int32
	jobEnd := make([]time.Time, 3)
	contStart := make([]time.Time, 3)

	for i := int32(0); i < 3; i++ {
		i := i
		// The continuation job is only allocated here, not scheduled: it becomes
		// runnable when the primary job below finishes, via finish()'s own call to
		// scheduleHandle.
		contBuilder := ts.s.Spawn(func(sch *Scheduler, self Handle) {
			contStart[i] = time.Now()
			count.Add(1)
		})
		ts.Require().NoError(contBuilder.Err())

		_, err := ts.s.Spawn(func(sch *Scheduler, self Handle) {
			jobEnd[i] = time.Now()
		}).WithContinuation(contBuilder.Handle()).Schedule()
		ts.Require().NoError(err)
	}

	ts.s.WaitUntilIdle()
	ts.Equal(int32(3), count.Load())

	for i := range jobEnd {
		ts.Require().False(contStart[i].IsZero(), "continuation %d never ran", i)
		ts.True(!contStart[i].Before(jobEnd[i]), "continuation %d started before job %d ended", i, i)
	}
}

func (ts *SchedulerTestSuite) TestIsFinishedAfterWaitUntilIdle() {
	h, err := ts.s.Spawn(func(sch *Scheduler, self Handle) {
		time.Sleep(time.Millisecond)
	}).Schedule()
	ts.Require().NoError(err)

	ts.s.WaitUntilIdle()
	ts.True(h.IsFinished(ts.s))
}

func (ts *SchedulerTestSuite) TestPanicHookInvoked() {
	var hookWorker int32 = -2
	ts.s.SetPanicHook(func(worker int, recovered any) {
		hookWorker = int32(worker)
	})

	h, err := ts.s.Spawn(func(sch *Scheduler, self Handle) {
		panic("boom")
	}).Schedule()
	ts.Require().NoError(err)

	ts.s.WaitFor(h)
	ts.NotEqual(int32(-2), hookWorker)
}

func TestTryInitializeGlobalOnlyOnce(t *testing.T) {
	globalMu.Lock()
	global = nil
	globalMu.Unlock()

	err1 := TryInitializeGlobal(Config{WorkerCount: 2, RingCapacity: 64})
	if err1 != nil {
		t.Fatalf("first TryInitializeGlobal should succeed, got %v", err1)
	}
	err2 := TryInitializeGlobal(Config{WorkerCount: 2, RingCapacity: 64})
	if err2 != ErrSchedulerAlreadyInitialized {
		t.Fatalf("second TryInitializeGlobal should report already-initialized, got %v", err2)
	}

	s, err := Global()
	if err != nil || s == nil {
		t.Fatalf("Global() should return the initialized scheduler, got %v, %v", s, err)
	}
	s.Shutdown()
}
