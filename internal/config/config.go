// Package config loads the daemon configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/ericfisherdev/pullwatch/internal/domain/model"
)

// DefaultBranch is used when github.target_branch is absent.
const DefaultBranch = "main"

// Config holds the configuration for one run. It is immutable after Load.
type Config struct {
	GitHub    GitHubConfig    `mapstructure:"github"`
	LocalRepo LocalRepoConfig `mapstructure:"local_repo"`
	Log       LogConfig       `mapstructure:"log"`
}

// GitHubConfig identifies the watched remote branch and the credential
// used to reach the hosting API.
type GitHubConfig struct {
	Owner        string `mapstructure:"owner"`
	Repo         string `mapstructure:"repo"`
	TargetBranch string `mapstructure:"target_branch"`
	AccessToken  string `mapstructure:"access_token"`
}

// LocalRepoConfig identifies the local checkout and the poll cadence.
type LocalRepoConfig struct {
	Path                 string `mapstructure:"path"`
	CheckIntervalSeconds int    `mapstructure:"check_interval_seconds"`
}

// LogConfig selects the log sink. An empty File logs to stderr, keeping
// stdout free for the status line.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// RemoteRef returns the watched remote branch as a domain reference.
func (c *Config) RemoteRef() model.RemoteRef {
	return model.RemoteRef{
		Owner:  c.GitHub.Owner,
		Repo:   c.GitHub.Repo,
		Branch: c.GitHub.TargetBranch,
	}
}

// CheckInterval returns the configured poll interval as a duration.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.LocalRepo.CheckIntervalSeconds) * time.Second
}

// LogLevel parses log.level into a slog.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", c.Log.Level, err)
	}
	return lvl, nil
}

// Load reads and validates configuration from the TOML file at path.
// Any error here is fatal to startup; the reconciliation loop never starts
// with a partial configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(path)
	v.SetDefault("github.target_branch", DefaultBranch)
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.GitHub.Owner == "" {
		return errors.New("github.owner is required")
	}
	if c.GitHub.Repo == "" {
		return errors.New("github.repo is required")
	}
	if c.LocalRepo.Path == "" {
		return errors.New("local_repo.path is required")
	}
	if c.LocalRepo.CheckIntervalSeconds <= 0 {
		return errors.New("local_repo.check_interval_seconds must be a positive integer")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}
