// Package scheduler runs periodic jobs on cron schedules with seconds precision.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of periodic work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler manages background jobs.
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *slog.Logger
	timeout time.Duration
}

// New creates a scheduler. Each run gets a context bounded by timeout; a zero
// timeout leaves runs unbounded. A run that is still going when its next tick
// fires causes that tick to be skipped.
func New(logger *slog.Logger, timeout time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	logger = logger.With(slog.String("component", "scheduler"))
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
		),
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger,
		timeout: timeout,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// AddJob registers job under a six-field cron schedule such as "0 0 0 * * *".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.RunNow(job); err != nil {
			s.logger.Error("job failed",
				slog.String("job", job.Name()),
				slog.String("error", err.Error()),
			)
		}
	})
	if err != nil {
		return err
	}

	s.logger.Info("job registered",
		slog.String("schedule", schedule),
		slog.String("job", job.Name()),
	)
	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	s.logger.Debug("running job", slog.String("job", job.Name()))
	if err := job.Run(ctx); err != nil {
		return err
	}
	s.logger.Debug("job completed",
		slog.String("job", job.Name()),
		slog.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, slog.String("error", err.Error()))...)
}
