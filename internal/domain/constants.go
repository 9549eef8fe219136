package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// FilePermissions is the permission for the state file (rw-r--r--)
	FilePermissions = 0o644
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Per-user state layout
const (
	// StateDirName is the directory under the user's home holding all state
	StateDirName = ".re_test"
	// StateFileName is the JSON execution log
	StateFileName = "state.json"
	// StateDBName is the SQLite execution log
	StateDBName = "state.db"
	// ConfigFileName is the YAML configuration file
	ConfigFileName = "config.yaml"
	// LogFileName is the rotating log file under logs/
	LogFileName = "retest.log"
)

// Engines
const (
	EngineRE2     = "re2"
	EngineRegexp2 = "regexp2"
)

// History backends
const (
	HistoryBackendJSON   = "json"
	HistoryBackendSQLite = "sqlite"
)

// Defaults
const (
	// DefaultMatchTimeout bounds a single regexp2 evaluation
	DefaultMatchTimeout = 2 * time.Second
	// DefaultMaxCacheEntries is the maximum number of compiled patterns kept
	DefaultMaxCacheEntries = 128
	// DefaultLogMaxSizeMB is the size at which the log file rotates
	DefaultLogMaxSizeMB = 8
	// DefaultLogMaxBackups is the number of rotated log files kept
	DefaultLogMaxBackups = 3
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
