package domain

import (
	"fmt"
	"strings"
	"time"
)

// Config mirrors ~/.re_test/config.yaml.
type Config struct {
	ConfigFormatVersion string          `yaml:"config_format_version"`
	Engine              EngineSettings  `yaml:"engine"`
	Cache               CacheSettings   `yaml:"cache"`
	History             HistorySettings `yaml:"history"`
	Logging             LoggingSettings `yaml:"logging"`
}

// EngineSettings selects and tunes the regular-expression engine.
type EngineSettings struct {
	Name         string `yaml:"name"`
	MatchTimeout string `yaml:"match_timeout"`
	ECMAScript   bool   `yaml:"ecmascript"`
}

// CacheSettings bounds the compiled-pattern cache.
type CacheSettings struct {
	MaxEntries int `yaml:"max_entries"`
}

// HistorySettings controls where executions are persisted.
type HistorySettings struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// LoggingSettings configures the rotating log file.
type LoggingSettings struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// EngineName returns the configured engine, defaulting to re2.
func (c *Config) EngineName() string {
	name := strings.ToLower(strings.TrimSpace(c.Engine.Name))
	if name == "" {
		return EngineRE2
	}
	return name
}

// MatchTimeout parses engine.match_timeout. An empty value disables the timeout.
func (c *Config) MatchTimeout() (time.Duration, error) {
	if strings.TrimSpace(c.Engine.MatchTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Engine.MatchTimeout)
	if err != nil {
		return 0, fmt.Errorf("engine.match_timeout invalid: %w", err)
	}
	return d, nil
}

// HistoryBackend returns the configured store kind, defaulting to json.
func (c *Config) HistoryBackend() string {
	backend := strings.ToLower(strings.TrimSpace(c.History.Backend))
	if backend == "" {
		return HistoryBackendJSON
	}
	return backend
}
