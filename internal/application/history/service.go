package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/ports"
)

const msgNoHistory = "No history as yet"

// Service owns the execution log for the lifetime of the process. It is
// driven from a single goroutine and does no locking of its own.
type Service struct {
	store    ports.HistoryRepository
	notifier ports.Notifier
	logger   ports.Logger
	now      func() time.Time
	entries  []domain.Execution
}

// NewService creates an empty history backed by store.
func NewService(store ports.HistoryRepository, notifier ports.Notifier, logger ports.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock replaces the time source used to stamp new records.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Load replaces the in-memory log with the persisted one. On failure the log
// is left empty and the error is returned for the caller to report.
func (s *Service) Load() error {
	s.entries = nil
	records, err := s.store.Load()
	if err != nil {
		s.logger.Warn("history load failed", map[string]interface{}{"path": s.store.Path(), "error": err.Error()})
		return err
	}
	s.entries = records
	s.logger.Debug("history loaded", map[string]interface{}{"path": s.store.Path(), "records": len(records)})
	return nil
}

// Add records a run of op. A previous record for the same pattern and
// subject is removed and its count carried over, so the pair moves to the
// end of the log. The log is persisted before Add returns; a failed save is
// reported through the notifier and the in-memory update is kept.
func (s *Service) Add(op domain.Operation, pattern, subject string) domain.Execution {
	exe := domain.NewExecution(op, pattern, subject, s.now().Local().Round(0))
	exe.Count = 1
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].SamePair(pattern, subject) {
			exe.Count = s.entries[i].Count + 1
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	s.entries = append(s.entries, exe)

	if err := s.Save(); err != nil {
		s.notifier.Alert("Error", fmt.Sprintf("Unable to save history: %v", err))
	}
	return exe
}

// Save persists the whole log.
func (s *Service) Save() error {
	if err := s.store.Save(s.entries); err != nil {
		s.logger.Error("history save failed", err, map[string]interface{}{"path": s.store.Path()})
		return err
	}
	return nil
}

// Clear empties the log and persists the empty state.
func (s *Service) Clear() error {
	s.entries = nil
	return s.Save()
}

// Render lists the log most recent first, one record per line, prefixed
// with the record's position in the log.
func (s *Service) Render() string {
	if len(s.entries) == 0 {
		return msgNoHistory
	}
	var b strings.Builder
	for i := len(s.entries) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%d: %s\n", i, s.entries[i].Format())
	}
	return b.String()
}

// RenderMatching is Render restricted to records whose pattern or subject
// contains term. Positions still refer to the full log.
func (s *Service) RenderMatching(term string) string {
	var b strings.Builder
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if strings.Contains(e.Pattern, term) || strings.Contains(e.Subject, term) {
			fmt.Fprintf(&b, "%d: %s\n", i, e.Format())
		}
	}
	if b.Len() == 0 {
		return fmt.Sprintf("No history matching %q", term)
	}
	return b.String()
}

// Last returns the most recently appended record.
func (s *Service) Last() (domain.Execution, bool) {
	if len(s.entries) == 0 {
		return domain.Execution{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Entries returns a copy of the log, oldest first.
func (s *Service) Entries() []domain.Execution {
	out := make([]domain.Execution, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of distinct pairs in the log.
func (s *Service) Len() int {
	return len(s.entries)
}

// Path returns where the log is persisted.
func (s *Service) Path() string {
	return s.store.Path()
}

// Stats summarizes the log. Busiest is the pair with the highest count,
// ties going to the most recent.
func (s *Service) Stats() domain.HistoryStats {
	stats := domain.HistoryStats{
		Records:     len(s.entries),
		ByOperation: make(map[domain.Operation]int, len(domain.Operations)),
	}
	for _, e := range s.entries {
		stats.Runs += int(e.Count)
		stats.ByOperation[e.Operation]++
		if e.Count >= stats.Busiest.Count {
			stats.Busiest = e
		}
		if e.Time.After(stats.Newest) {
			stats.Newest = e.Time
		}
	}
	return stats
}
