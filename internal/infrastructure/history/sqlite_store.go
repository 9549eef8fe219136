package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/pkg/filesystem"
	"github.com/doeshing/retest-go/internal/ports"
)

// SQLiteStore persists the execution log in a SQLite database. The table is
// replaced wholesale on every save so it mirrors the JSON store exactly.
type SQLiteStore struct {
	db      *sql.DB
	path    string
	homeErr error
	mu      sync.Mutex
}

// NewSQLiteStore opens path, or ~/.re_test/state.db when path is empty.
// The database is opened lazily on first use.
func NewSQLiteStore(path string) *SQLiteStore {
	if path != "" {
		expanded, err := filesystem.ExpandPath(path)
		if err != nil {
			return &SQLiteStore{homeErr: err}
		}
		return &SQLiteStore{path: expanded}
	}
	dir, err := filesystem.StateDir()
	if err != nil {
		return &SQLiteStore{homeErr: err}
	}
	return &SQLiteStore{path: filepath.Join(dir, domain.StateDBName)}
}

func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}
	if s.homeErr != nil {
		return domain.NewHistoryError(domain.HistoryNoHomeDirectory, "", s.homeErr)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return domain.NewHistoryError(domain.HistoryIOFailure, filepath.Dir(s.path), err)
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return domain.NewHistoryError(domain.HistoryIOFailure, s.path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS executions (
		position INTEGER PRIMARY KEY,
		time TEXT NOT NULL,
		operation TEXT NOT NULL,
		pattern TEXT NOT NULL,
		subject TEXT NOT NULL,
		count INTEGER NOT NULL
	);`); err != nil {
		db.Close()
		return domain.NewHistoryError(domain.HistoryIOFailure, s.path, err)
	}
	s.db = db
	return nil
}

// Load implements ports.HistoryRepository. A database that does not exist
// yet is an IOFailure, as a missing state.json is for the JSON store; the
// first Save creates it.
func (s *SQLiteStore) Load() ([]domain.Execution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil && s.homeErr == nil {
		if _, err := os.Stat(s.path); err != nil {
			return nil, domain.NewHistoryError(domain.HistoryIOFailure, s.path, err)
		}
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`SELECT time, operation, pattern, subject, count FROM executions ORDER BY position`)
	if err != nil {
		return nil, domain.NewHistoryError(domain.HistoryIOFailure, s.path, err)
	}
	defer rows.Close()

	var records []domain.Execution
	for rows.Next() {
		var rec domain.Execution
		var ts, op string
		if err := rows.Scan(&ts, &op, &rec.Pattern, &rec.Subject, &rec.Count); err != nil {
			return nil, domain.NewHistoryError(domain.HistoryParseFailure, s.path, err)
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, domain.NewHistoryError(domain.HistoryParseFailure, s.path, fmt.Errorf("row %d: %w", len(records), err))
		}
		rec.Time = t
		rec.Operation = domain.Operation(op)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewHistoryError(domain.HistoryIOFailure, s.path, err)
	}
	return records, nil
}

// Save implements ports.HistoryRepository.
func (s *SQLiteStore) Save(records []domain.Execution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.open(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return domain.NewHistoryError(domain.HistoryIOFailure, s.path, err)
	}
	if err := replaceAll(tx, records); err != nil {
		_ = tx.Rollback()
		return domain.NewHistoryError(domain.HistoryIOFailure, s.path, err)
	}
	if err := tx.Commit(); err != nil {
		return domain.NewHistoryError(domain.HistoryIOFailure, s.path, err)
	}
	return nil
}

func replaceAll(tx *sql.Tx, records []domain.Execution) error {
	if _, err := tx.Exec(`DELETE FROM executions`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO executions
		(position, time, operation, pattern, subject, count)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, rec := range records {
		if _, err := stmt.Exec(i, rec.Time.Format(time.RFC3339Nano), string(rec.Operation), rec.Pattern, rec.Subject, rec.Count); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
