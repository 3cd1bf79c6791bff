package config

import (
	"fmt"
	"strings"

	"github.com/go-co-op/gocron/v2"

	abErrors "git.home.luguber.info/inful/autobuilder/internal/errors"
)

// Validate checks the configuration for values that can never work.
func (c *Config) Validate() error {
	for i, s := range c.Scenes {
		if strings.TrimSpace(s.Path) == "" {
			return abErrors.ValidationFailed(fmt.Sprintf("scenes[%d].path", i), "must not be empty")
		}
	}
	if c.Version != "" {
		if err := ValidateVersion(c.Version); err != nil {
			return err
		}
	}
	if c.Schedule.Cron != "" {
		if err := ValidateCron(c.Schedule.Cron); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVersion rejects version strings that would nest the
// Builds/<version> output directory.
func ValidateVersion(version string) error {
	if strings.ContainsAny(version, `/\`) {
		return abErrors.ValidationFailed("version", "must not contain path separators")
	}
	return nil
}

// ValidateCron checks a five-field cron expression by defining a throwaway job.
func ValidateCron(expr string) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return abErrors.InternalError("create scheduler", err)
	}
	defer func() { _ = s.Shutdown() }()

	if _, err := s.NewJob(gocron.CronJob(expr, false), gocron.NewTask(func() {})); err != nil {
		return abErrors.ValidationFailed("schedule.cron", err.Error())
	}
	return nil
}
