package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/pretty"

	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/pkg/filesystem"
	"github.com/doeshing/retest-go/internal/ports"
)

// JSONStore keeps the execution log as one pretty-printed JSON array,
// rewritten in full on every save.
type JSONStore struct {
	path    string
	homeErr error
	mu      sync.Mutex
}

// NewJSONStore creates a store at path, or at ~/.re_test/state.json when path is empty.
func NewJSONStore(path string) *JSONStore {
	if path != "" {
		expanded, err := filesystem.ExpandPath(path)
		if err != nil {
			return &JSONStore{homeErr: err}
		}
		return &JSONStore{path: expanded}
	}
	dir, err := filesystem.StateDir()
	if err != nil {
		return &JSONStore{homeErr: err}
	}
	return &JSONStore{path: filepath.Join(dir, domain.StateFileName)}
}

// Load implements ports.HistoryRepository.
func (s *JSONStore) Load() ([]domain.Execution, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, domain.NewHistoryError(domain.HistoryIOFailure, s.path, err)
	}
	var records []domain.Execution
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, domain.NewHistoryError(domain.HistoryParseFailure, s.path, err)
	}
	return records, nil
}

// Save implements ports.HistoryRepository.
func (s *JSONStore) Save(records []domain.Execution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureDir(); err != nil {
		return err
	}
	data, err := EncodeJSON(records)
	if err != nil {
		return domain.NewHistoryError(domain.HistoryIOFailure, s.path, err)
	}
	if err := os.WriteFile(s.path, data, domain.FilePermissions); err != nil {
		return domain.NewHistoryError(domain.HistoryIOFailure, s.path, err)
	}
	return nil
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) ensureDir() error {
	if s.homeErr != nil {
		return domain.NewHistoryError(domain.HistoryNoHomeDirectory, "", s.homeErr)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return domain.NewHistoryError(domain.HistoryIOFailure, dir, err)
	}
	return nil
}

// EncodeJSON renders records as the pretty-printed array stored on disk.
func EncodeJSON(records []domain.Execution) ([]byte, error) {
	if records == nil {
		records = []domain.Execution{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(raw), nil
}

// WriteJSON exports records to dest in the state-file format.
func WriteJSON(dest string, records []domain.Execution) error {
	data, err := EncodeJSON(records)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
			return err
		}
	}
	return os.WriteFile(dest, data, domain.FilePermissions)
}

var _ ports.HistoryRepository = (*JSONStore)(nil)
