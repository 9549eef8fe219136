package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/pkg/filesystem"
	"github.com/doeshing/retest-go/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "RETEST_CONFIG"

// FileLoader loads YAML configuration from ~/.re_test/config.yaml (overridable via RETEST_CONFIG).
type FileLoader struct {
	overridePath string
	notifier     ports.Notifier
	fallbackErr  error
	alerted      bool
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// SetNotifier routes fallback warnings to n.
func (l *FileLoader) SetNotifier(n ports.Notifier) {
	l.notifier = n
}

// Load implements ports.ConfigProvider. A missing file is created with defaults.
//
// When the default location under the home directory is unusable, Load
// returns in-memory defaults without a log file and warns through the
// notifier. An explicit path (NewFileLoader or RETEST_CONFIG) fails instead.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path, err := l.resolvePath()
	if err != nil {
		return l.failOrFallback(err)
	}
	if err := ensureConfigDir(path); err != nil {
		return l.failOrFallback(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return l.failOrFallback(err)
		}
		cfg := DefaultConfig()
		if err := writeConfig(path, cfg); err != nil {
			return l.failOrFallback(err)
		}
		return cfg, nil
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return hydrateDefaults(cfg), nil
}

// Fallback returns the error that forced the last Load onto in-memory
// defaults, or nil when the file was used.
func (l *FileLoader) Fallback() error {
	return l.fallbackErr
}

// Path returns the resolved config file path, or "" when the default
// location cannot be resolved because there is no home directory.
func (l *FileLoader) Path() string {
	path, _ := l.resolvePath()
	return path
}

func (l *FileLoader) resolvePath() (string, error) {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	dir, err := filesystem.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, domain.ConfigFileName), nil
}

func (l *FileLoader) overridden() bool {
	return l.overridePath != "" || os.Getenv(EnvConfigPath) != ""
}

func (l *FileLoader) failOrFallback(err error) (domain.Config, error) {
	if l.overridden() {
		return domain.Config{}, err
	}
	l.fallbackErr = err
	if l.notifier != nil && !l.alerted {
		l.alerted = true
		l.notifier.Alert("Warning", fmt.Sprintf("Could not use configuration file, continuing with defaults: \n\t%v", err))
	}
	cfg := DefaultConfig()
	cfg.Logging.File = ""
	return cfg, nil
}

// Save writes cfg to the config file.
func (l *FileLoader) Save(cfg domain.Config) error {
	path, err := l.resolvePath()
	if err != nil {
		return err
	}
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	return writeConfig(path, cfg)
}

// Reset overwrites the config file with defaults.
func (l *FileLoader) Reset() (domain.Config, error) {
	cfg := DefaultConfig()
	if err := l.Save(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Backup copies the current config file next to itself and returns the copy's path.
func (l *FileLoader) Backup() (string, error) {
	path, err := l.resolvePath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102T150405"))
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func writeConfig(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// DefaultConfig returns the configuration written on first run. Without a
// home directory there is no default log file.
func DefaultConfig() domain.Config {
	logFile := ""
	if dir, err := filesystem.StateDir(); err == nil {
		logFile = filepath.Join(dir, "logs", domain.LogFileName)
	}
	return domain.Config{
		ConfigFormatVersion: "1",
		Engine: domain.EngineSettings{
			Name:         domain.EngineRE2,
			MatchTimeout: domain.DefaultMatchTimeout.String(),
		},
		Cache: domain.CacheSettings{
			MaxEntries: domain.DefaultMaxCacheEntries,
		},
		History: domain.HistorySettings{
			Backend: domain.HistoryBackendJSON,
		},
		Logging: domain.LoggingSettings{
			Level:      "info",
			File:       logFile,
			MaxSizeMB:  domain.DefaultLogMaxSizeMB,
			MaxBackups: domain.DefaultLogMaxBackups,
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Engine.Name == "" {
		cfg.Engine.Name = domain.EngineRE2
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = domain.DefaultMaxCacheEntries
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = domain.HistoryBackendJSON
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = domain.DefaultLogMaxSizeMB
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = domain.DefaultLogMaxBackups
	}
	if file, err := filesystem.ExpandPath(cfg.Logging.File); err == nil {
		cfg.Logging.File = file
	} else {
		cfg.Logging.File = ""
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
