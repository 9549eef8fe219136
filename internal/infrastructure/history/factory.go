package history

import (
	"fmt"

	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/ports"
)

// NewStore returns the repository selected by history.backend.
func NewStore(cfg domain.Config) (ports.HistoryRepository, error) {
	switch cfg.HistoryBackend() {
	case domain.HistoryBackendJSON:
		return NewJSONStore(cfg.History.Path), nil
	case domain.HistoryBackendSQLite:
		return NewSQLiteStore(cfg.History.Path), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q (want %s or %s)",
			cfg.History.Backend, domain.HistoryBackendJSON, domain.HistoryBackendSQLite)
	}
}
