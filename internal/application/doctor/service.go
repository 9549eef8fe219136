package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	configapp "github.com/doeshing/retest-go/internal/application/config"
	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/ports"
)

const probePattern = `(a+)(b)?`

// fallbackReporter is implemented by providers that can fall back to defaults.
type fallbackReporter interface {
	Fallback() error
}

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Engine         ports.Engine
	HistoryStore   ports.HistoryRepository
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if fb, isFallback := s.ConfigProvider.(fallbackReporter); isFallback && fb.Fallback() != nil {
		checks = append(checks, warn("Config file", fmt.Sprintf("using built-in defaults: %v", fb.Fallback())))
	} else if err := configapp.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))
	}

	checks = append(checks, s.stateDirCheck(), s.historyCheck(), s.engineCheck())
	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) stateDirCheck() domain.HealthCheck {
	if s.HistoryStore == nil || s.HistoryStore.Path() == "" {
		return fail("State directory", "cannot resolve history location (no home directory?)")
	}
	dir := filepath.Dir(s.HistoryStore.Path())
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return fail("State directory", err.Error())
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fail("State directory", fmt.Sprintf("%s not writable: %v", dir, err))
	}
	name := probe.Name()
	probe.Close()
	_ = os.Remove(name)
	return ok("State directory", dir)
}

func (s *Service) historyCheck() domain.HealthCheck {
	if s.HistoryStore == nil {
		return warn("History", "history store not initialized")
	}
	records, err := s.HistoryStore.Load()
	if err != nil {
		if domain.IsHistoryErrorKind(err, domain.HistoryIOFailure) && errors.Is(err, fs.ErrNotExist) {
			return warn("History", "no history saved yet")
		}
		return fail("History", err.Error())
	}
	return ok("History", fmt.Sprintf("%d records in %s", len(records), s.HistoryStore.Path()))
}

func (s *Service) engineCheck() domain.HealthCheck {
	if s.Engine == nil {
		return warn("Regex engine", "engine not initialized")
	}
	m, err := s.Engine.Compile(probePattern)
	if err != nil {
		return fail("Regex engine", err.Error())
	}
	loc, err := m.Submatch("xaab")
	if err != nil || len(loc) != 6 || loc[0] != 1 {
		return fail("Regex engine", fmt.Sprintf("probe match returned %v (%v)", loc, err))
	}
	return ok("Regex engine", s.Engine.Name())
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
