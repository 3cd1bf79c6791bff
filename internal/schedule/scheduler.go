// Package schedule runs full dispatch rounds on a cron expression.
package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/autobuilder/internal/build"
	"git.home.luguber.info/inful/autobuilder/internal/logfields"
)

// Runner performs one dispatch round. *build.Dispatcher satisfies it.
type Runner interface {
	DispatchAll(ctx context.Context) ([]*build.Outcome, error)
}

// Scheduler wraps a gocron scheduler. Rounds never overlap: a tick that fires
// while the previous round is still building is rescheduled.
type Scheduler struct {
	scheduler gocron.Scheduler
	runner    Runner
	ctx       context.Context
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(runner Runner) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, runner: runner, ctx: context.Background()}, nil
}

// ScheduleCron registers a dispatch round on a standard five-field cron
// expression and returns the job ID.
func (s *Scheduler) ScheduleCron(expr string) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(s.run, expr),
		gocron.WithName("dispatch-all"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create scheduled build job: %w", err)
	}
	return job.ID().String(), nil
}

// Start begins the scheduler. Rounds are run with ctx, so cancelling it
// cancels an in-flight build.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Starting scheduler")
	s.ctx = ctx
	s.scheduler.Start()
}

// Stop shuts down the scheduler, waiting for a running round to return.
func (s *Scheduler) Stop(_ context.Context) error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start(ctx)
	<-ctx.Done()
	return s.Stop(context.Background())
}

func (s *Scheduler) run(expr string) {
	slog.Info("Executing scheduled build", logfields.Schedule(expr))
	if _, err := s.runner.DispatchAll(s.ctx); err != nil {
		slog.Error("Scheduled build aborted", logfields.Schedule(expr), logfields.Error(err))
	}
}
