package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/edusight/backend/core"
)

var (
	ErrDuplicateJob = errors.New("job already registered")
	ErrStarted      = errors.New("scheduler already started")
)

type (
	// Action is the unit of scheduled work. It must honor ctx cancellation;
	// a returned error is logged, never retried.
	Action func(ctx context.Context) error

	job struct {
		name    string
		trigger Trigger
		action  Action

		nextRun time.Time
		running bool
	}

	// Scheduler runs registered jobs on a coarse tick. Each tick it starts
	// every due job in its own goroutine. A job still running when its next
	// due time passes is skipped for that occurrence, never queued.
	Scheduler struct {
		tick         time.Duration
		drainTimeout time.Duration
		logger       core.Logger
		now          func() time.Time

		mu      sync.Mutex
		jobs    map[string]*job
		order   []string
		started bool

		wg     sync.WaitGroup
		cancel context.CancelFunc
		done   chan struct{}
	}
)

func New(conf *core.Config, logger core.Logger) *Scheduler {
	return &Scheduler{
		tick:         conf.Scheduler.Tick,
		drainTimeout: conf.Scheduler.DrainTimeout,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
		jobs:         make(map[string]*job),
	}
}

// Register adds a named job. Names are unique; registering after Start is
// rejected.
func (s *Scheduler) Register(name string, trigger Trigger, action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrStarted
	}
	if _, ok := s.jobs[name]; ok {
		return errors.Wrap(ErrDuplicateJob, name)
	}
	s.jobs[name] = &job{name: name, trigger: trigger, action: action}
	s.order = append(s.order, name)
	return nil
}

// Start launches the tick loop. Initial due times are computed from the
// start instant, so an Every job first fires one interval in.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrStarted
	}
	s.started = true

	now := s.now()
	for _, j := range s.jobs {
		j.nextRun = j.trigger.Next(now)
	}
	s.mu.Unlock()

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.loop(ctx)
	s.logger.Info("scheduler started", "jobs", len(s.jobs), "tick", s.tick)
	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.dispatch(ctx)
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range s.order {
		j := s.jobs[name]
		if now.Before(j.nextRun) {
			continue
		}
		// advance even when skipping so a long run cannot pile up occurrences
		j.nextRun = j.trigger.Next(now)
		if j.running {
			s.logger.Warn("job still running, skipping occurrence", "job", j.name)
			continue
		}
		j.running = true
		s.wg.Add(1)
		go s.run(ctx, j)
	}
}

func (s *Scheduler) run(ctx context.Context, j *job) {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panicked", "job", j.name, "panic", r)
		}
		s.mu.Lock()
		j.running = false
		s.mu.Unlock()
	}()

	started := s.now()
	s.logger.Debug("job started", "job", j.name)
	if err := j.action(ctx); err != nil {
		s.logger.Error("job failed", "job", j.name, "error", err)
		return
	}
	s.logger.Debug("job finished", "job", j.name, "took", s.now().Sub(started))
}

// Stop cancels the tick loop and in-flight jobs, then waits for them to
// drain up to the drain timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.cancel()
	<-s.done

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		s.logger.Info("scheduler stopped")
		return nil
	case <-time.After(s.drainTimeout):
		return errors.New("scheduler drain timed out")
	}
}

// Running lists the jobs currently executing.
func (s *Scheduler) Running() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	for _, name := range s.order {
		if s.jobs[name].running {
			names = append(names, name)
		}
	}
	return names
}

// NextRun reports the next due time of a registered job. The zero time means
// the job is unknown or the scheduler has not started.
func (s *Scheduler) NextRun(name string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if j, ok := s.jobs[name]; ok {
		return j.nextRun
	}
	return time.Time{}
}
