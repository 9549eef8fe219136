package config

import (
	"fmt"
	"strings"

	"github.com/doeshing/retest-go/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateEngine(cfg); err != nil {
		return err
	}
	if err := validateCache(cfg.Cache); err != nil {
		return err
	}
	if err := validateHistory(cfg); err != nil {
		return err
	}
	if err := validateLogging(cfg.Logging); err != nil {
		return err
	}
	return nil
}

func validateEngine(cfg domain.Config) error {
	switch cfg.EngineName() {
	case domain.EngineRE2, domain.EngineRegexp2:
	default:
		return fmt.Errorf("engine.name must be %s|%s, got %s", domain.EngineRE2, domain.EngineRegexp2, cfg.Engine.Name)
	}
	timeout, err := cfg.MatchTimeout()
	if err != nil {
		return err
	}
	if timeout < 0 {
		return fmt.Errorf("engine.match_timeout must be >= 0")
	}
	return nil
}

func validateCache(cache domain.CacheSettings) error {
	if cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must be >= 0")
	}
	return nil
}

func validateHistory(cfg domain.Config) error {
	switch cfg.HistoryBackend() {
	case domain.HistoryBackendJSON, domain.HistoryBackendSQLite:
		return nil
	default:
		return fmt.Errorf("history.backend must be %s|%s, got %s", domain.HistoryBackendJSON, domain.HistoryBackendSQLite, cfg.History.Backend)
	}
}

func validateLogging(logging domain.LoggingSettings) error {
	switch strings.ToLower(logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug|info|warn|error, got %s", logging.Level)
	}
	if logging.MaxSizeMB < 0 || logging.MaxBackups < 0 {
		return fmt.Errorf("logging.max_size_mb and logging.max_backups must be >= 0")
	}
	return nil
}
