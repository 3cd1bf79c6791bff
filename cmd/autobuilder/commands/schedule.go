package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/autobuilder/internal/config"
	abErrors "git.home.luguber.info/inful/autobuilder/internal/errors"
	"git.home.luguber.info/inful/autobuilder/internal/logfields"
	"git.home.luguber.info/inful/autobuilder/internal/schedule"
)

// ScheduleCmd implements the 'schedule' command.
type ScheduleCmd struct {
	Cron string `help:"Cron expression (overrides schedule.cron)"`
}

func (s *ScheduleCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root)
	if err != nil {
		return err
	}
	expr := cfg.Schedule.Cron
	if s.Cron != "" {
		if err := config.ValidateCron(s.Cron); err != nil {
			return err
		}
		expr = s.Cron
	}
	if expr == "" {
		return abErrors.ValidationFailed("schedule.cron", "no cron expression configured; set schedule.cron or pass --cron")
	}

	session, err := NewSession(cfg, root.DryRun)
	if err != nil {
		return err
	}
	defer closeSession(session)

	sched, err := schedule.NewScheduler(session)
	if err != nil {
		return abErrors.InternalError("create scheduler", err)
	}
	if _, err := sched.ScheduleCron(expr); err != nil {
		return abErrors.InternalError("schedule builds", err)
	}

	ctx, stop := signalContext()
	defer stop()

	slog.Info("Waiting for scheduled builds", logfields.Schedule(expr))
	return sched.Run(ctx)
}
