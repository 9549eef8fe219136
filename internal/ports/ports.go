// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The evaluator and the execution history depend only on
// these abstractions, so regex engines, history stores and the terminal front-end
// can be swapped without touching the core.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Engine, HistoryRepository)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/retest-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.re_test/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Engine compiles pattern text into a Matcher.
// Compile errors are returned verbatim so they can be shown to the user.
type Engine interface {
	Name() string
	Compile(pattern string) (Matcher, error)
}

// Matcher is a compiled pattern. All offsets are byte offsets into the subject.
type Matcher interface {
	String() string
	// Submatch returns start/end pairs for the leftmost match and each capture
	// group, -1 for groups that did not participate, or nil when nothing matches.
	Submatch(subject string) ([]int, error)
	// MatchAll returns the successive non-overlapping matches, left to right.
	MatchAll(subject string) ([][]int, error)
}

// HistoryRepository persists the whole execution log at once.
type HistoryRepository interface {
	Load() ([]domain.Execution, error)
	Save([]domain.Execution) error
	Path() string
}

// Notifier surfaces recoverable problems to the user.
type Notifier interface {
	Alert(title, message string)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stderr, rotating files).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
