package config

import (
	"os"

	"git.home.luguber.info/inful/autobuilder/internal/build"
	"git.home.luguber.info/inful/autobuilder/internal/unity"
)

const (
	DefaultNotifySubject = "autobuilder.outcomes"
	// EnvEditorPath supplies engine.editor_path when the file leaves it empty.
	EnvEditorPath = "UNITY_PATH"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Project == "" {
		cfg.Project = "."
	}
	if cfg.BuildsRoot == "" {
		cfg.BuildsRoot = build.DefaultBuildsRoot
	}
	if cfg.Engine.EditorPath == "" {
		cfg.Engine.EditorPath = os.Getenv(EnvEditorPath)
	}
	if cfg.Engine.ExecuteMethod == "" {
		cfg.Engine.ExecuteMethod = unity.DefaultExecuteMethod
	}
	if cfg.Engine.LogFile == "" {
		cfg.Engine.LogFile = "-"
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
}
