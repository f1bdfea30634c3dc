package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclekit/internal/services"
)

type Dispatcher interface {
	DispatchDue(ctx context.Context, now time.Time) (services.DispatchReport, error)
}

// ReportObserver receives the outcome of every sweep, successful or not.
type ReportObserver func(report services.DispatchReport, finishedAt time.Time)

type Scheduler struct {
	cron       *cron.Cron
	dispatcher Dispatcher
	observe    ReportObserver
	logger     logrus.FieldLogger
	now        func() time.Time
	timeout    time.Duration

	mu      sync.Mutex
	started bool
}

type Option func(*Scheduler)

func WithObserver(observe ReportObserver) Option {
	return func(s *Scheduler) {
		s.observe = observe
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTimeout bounds a single sweep. Zero means no bound.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		s.timeout = timeout
	}
}

func New(dispatcher Dispatcher, location *time.Location, logger *logrus.Logger, opts ...Option) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	cronLogger := cron.PrintfLogger(logger.WithField("component", "cron"))

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		dispatcher: dispatcher,
		logger:     logger.WithField("component", "scheduler"),
		now:        time.Now,
		timeout:    time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule registers the due-reminder sweep under a standard five-field
// cron spec (descriptors such as @every are accepted too).
func (s *Scheduler) Schedule(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		_, _ = s.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule reminder dispatch %q: %w", spec, err)
	}
	return nil
}

// RunOnce performs one sweep synchronously.
func (s *Scheduler) RunOnce(ctx context.Context) (services.DispatchReport, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	report, err := s.dispatcher.DispatchDue(ctx, s.now())
	finishedAt := s.now()
	if s.observe != nil {
		s.observe(report, finishedAt)
	}

	entry := s.logger.WithFields(logrus.Fields{
		"due":    report.Due,
		"sent":   report.Sent,
		"failed": report.Failed,
	})
	if err != nil {
		entry.WithError(err).Warn("reminder dispatch finished with errors")
		return report, err
	}
	if report.Due > 0 {
		entry.Info("reminder dispatch finished")
	} else {
		entry.Debug("no due reminders")
	}
	return report, nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
	s.logger.WithField("entries", len(s.cron.Entries())).Info("scheduler started")
}

// Stop prevents new sweeps and waits for a running one to finish or for ctx
// to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
