package filesystem

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/doeshing/retest-go/internal/domain"
)

// ErrNoHomeDirectory is returned when the OS cannot report a home directory.
var ErrNoHomeDirectory = errors.New("cannot get home directory")

// HomeDir returns the current user's home directory.
// An unset home is ErrNoHomeDirectory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrNoHomeDirectory
	}
	return home, nil
}

// StateDir returns ~/.re_test.
func StateDir() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, domain.StateDirName), nil
}

// ExpandPath resolves a leading "~/" against the home directory.
func ExpandPath(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}
	if len(path) > 1 && path[:2] == "~/" {
		home, err := HomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return filepath.Clean(path), nil
}
