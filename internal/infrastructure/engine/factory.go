package engine

import (
	"fmt"

	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/ports"
)

// New builds the engine named in the configuration.
func New(cfg domain.Config) (ports.Engine, error) {
	return ByName(cfg.EngineName(), cfg)
}

// ByName builds a specific engine, taking its tuning from cfg.
func ByName(name string, cfg domain.Config) (ports.Engine, error) {
	switch name {
	case "", domain.EngineRE2:
		return NewRE2(), nil
	case domain.EngineRegexp2:
		timeout, err := cfg.MatchTimeout()
		if err != nil {
			return nil, err
		}
		return NewRegexp2(cfg.Engine.ECMAScript, timeout), nil
	default:
		return nil, fmt.Errorf("unknown engine %q (want %s or %s)", name, domain.EngineRE2, domain.EngineRegexp2)
	}
}
