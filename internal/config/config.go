package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/autobuilder/internal/build"
	abErrors "git.home.luguber.info/inful/autobuilder/internal/errors"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "autobuilder.yaml"

// Config represents the application configuration
type Config struct {
	// Project is the Unity project directory.
	Project string `yaml:"project"`
	// BuildsRoot is the directory version-tagged output is written under.
	BuildsRoot string `yaml:"builds_root"`
	// Version overrides PlayerSettings.bundleVersion when set.
	Version string `yaml:"version,omitempty"`
	// ProductName overrides PlayerSettings.productName when set.
	ProductName string `yaml:"product_name,omitempty"`
	// Scenes replaces the project's EditorBuildSettings scene list when non-empty.
	Scenes []build.Scene `yaml:"scenes,omitempty"`

	Engine   EngineConfig   `yaml:"engine"`
	History  HistoryConfig  `yaml:"history"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Notify   NotifyConfig   `yaml:"notify"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// EngineConfig configures how the editor is launched.
type EngineConfig struct {
	EditorPath    string   `yaml:"editor_path"`
	ExecuteMethod string   `yaml:"execute_method"`
	LogFile       string   `yaml:"log_file"`
	ExtraArgs     []string `yaml:"extra_args,omitempty"`
}

// HistoryConfig configures the build history database. Empty Path disables it.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig configures metrics export. Empty Textfile disables it.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// NotifyConfig configures outcome notifications. Empty NATSURL disables them.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// ScheduleConfig configures scheduled builds.
type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, abErrors.ConfigNotFound(configPath)
	}
	if err != nil {
		return nil, abErrors.ConfigInvalid(configPath, fmt.Errorf("read config file: %w", err))
	}

	cfg, err := Parse(data)
	if err != nil {
		if abErrors.IsCategory(err, abErrors.CategoryValidation) {
			return nil, err
		}
		return nil, abErrors.ConfigInvalid(configPath, err)
	}
	return cfg, nil
}

// LoadOptional behaves like Load but returns the defaults when the file does not exist.
func LoadOptional(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		loadEnvFiles()
		cfg := Default()
		return &cfg, nil
	}
	return Load(configPath)
}

// Parse decodes configuration YAML, expanding ${VAR} references first, and
// applies defaults and validation.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return abErrors.New(abErrors.CategoryValidation, abErrors.SeverityFatal,
			"configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath)
	}

	example := Default()
	example.Engine.EditorPath = "${" + EnvEditorPath + "}"
	example.History.Path = ".autobuilder/history.db"

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
