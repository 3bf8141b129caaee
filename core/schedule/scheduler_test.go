package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/edusight/backend/core"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

func newTestScheduler() *Scheduler {
	return New(core.NewTestConfig(), nopLogger{})
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestRegisterDuplicate(t *testing.T) {
	s := newTestScheduler()
	noop := func(ctx context.Context) error { return nil }

	if err := s.Register("job", Every(time.Minute), noop); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := s.Register("job", Every(time.Minute), noop); errors.Cause(err) != ErrDuplicateJob {
		t.Errorf("err = %v, expected ErrDuplicateJob", err)
	}
}

func TestRegisterAfterStart(t *testing.T) {
	s := newTestScheduler()
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop() //nolint:errcheck

	if err := s.Register("late", Every(time.Minute), func(ctx context.Context) error { return nil }); err != ErrStarted {
		t.Errorf("err = %v, expected ErrStarted", err)
	}
	if err := s.Start(context.Background()); err != ErrStarted {
		t.Errorf("second Start err = %v, expected ErrStarted", err)
	}
}

func TestJobRunsRepeatedly(t *testing.T) {
	s := newTestScheduler()

	var runs int64
	err := s.Register("counter", Every(time.Millisecond), func(ctx context.Context) error {
		atomic.AddInt64(&runs, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	eventually(t, func() bool { return atomic.LoadInt64(&runs) >= 3 }, "job did not run repeatedly")

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestSlowJobSkipsOccurrences(t *testing.T) {
	s := newTestScheduler()

	var started int64
	release := make(chan struct{})
	err := s.Register("slow", Every(time.Millisecond), func(ctx context.Context) error {
		atomic.AddInt64(&started, 1)
		<-release
		return nil
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	eventually(t, func() bool { return atomic.LoadInt64(&started) == 1 }, "job never started")

	// several ticks pass while the job blocks; no second instance may start
	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt64(&started); n != 1 {
		t.Errorf("started = %d instances, expected 1", n)
	}
	if running := s.Running(); len(running) != 1 || running[0] != "slow" {
		t.Errorf("Running() = %v, expected [slow]", running)
	}

	close(release)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if running := s.Running(); len(running) != 0 {
		t.Errorf("Running() after Stop = %v, expected none", running)
	}
}

func TestFailingJobDoesNotWedge(t *testing.T) {
	s := newTestScheduler()

	var failures, successes int64
	if err := s.Register("failing", Every(time.Millisecond), func(ctx context.Context) error {
		atomic.AddInt64(&failures, 1)
		return errors.New("boom")
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := s.Register("healthy", Every(time.Millisecond), func(ctx context.Context) error {
		atomic.AddInt64(&successes, 1)
		return nil
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	eventually(t, func() bool {
		return atomic.LoadInt64(&failures) >= 2 && atomic.LoadInt64(&successes) >= 2
	}, "jobs did not keep running after failures")

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestPanickingJobRecovers(t *testing.T) {
	s := newTestScheduler()

	var runs int64
	if err := s.Register("panicky", Every(time.Millisecond), func(ctx context.Context) error {
		atomic.AddInt64(&runs, 1)
		panic("boom")
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	eventually(t, func() bool { return atomic.LoadInt64(&runs) >= 2 }, "job did not run again after a panic")

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if running := s.Running(); len(running) != 0 {
		t.Errorf("Running() after Stop = %v, expected none", running)
	}
}

func TestStopCancelsInFlightJobs(t *testing.T) {
	s := newTestScheduler()

	stopped := make(chan struct{})
	if err := s.Register("blocking", Every(time.Millisecond), func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return ctx.Err()
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	eventually(t, func() bool { return len(s.Running()) == 1 }, "job never started")

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case <-stopped:
	default:
		t.Error("in-flight job was not cancelled")
	}
}

func TestTwoDueJobsFireSameTick(t *testing.T) {
	s := newTestScheduler()

	var a, b int64
	if err := s.Register("a", Every(time.Millisecond), func(ctx context.Context) error {
		atomic.AddInt64(&a, 1)
		return nil
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := s.Register("b", Every(time.Millisecond), func(ctx context.Context) error {
		atomic.AddInt64(&b, 1)
		return nil
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	eventually(t, func() bool {
		return atomic.LoadInt64(&a) >= 1 && atomic.LoadInt64(&b) >= 1
	}, "both jobs should fire")

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestNextRun(t *testing.T) {
	s := newTestScheduler()
	if err := s.Register("job", Every(time.Hour), func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if !s.NextRun("job").IsZero() {
		t.Error("NextRun before Start should be zero")
	}
	if !s.NextRun("unknown").IsZero() {
		t.Error("NextRun for unknown job should be zero")
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop() //nolint:errcheck

	if s.NextRun("job").IsZero() {
		t.Error("NextRun after Start should be set")
	}
}
