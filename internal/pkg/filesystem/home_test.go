package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateDirUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := StateDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".re_test"), dir)
}

func TestHomeDirMissing(t *testing.T) {
	t.Setenv("HOME", "")

	_, err := HomeDir()
	assert.ErrorIs(t, err, ErrNoHomeDirectory)

	_, err = StateDir()
	assert.ErrorIs(t, err, ErrNoHomeDirectory)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/var/log/x", "/var/log/x"},
		{"~/state.json", filepath.Join(home, "state.json")},
		{"a/./b", "a/b"},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestExpandPathWithoutHome(t *testing.T) {
	t.Setenv("HOME", "")

	_, err := ExpandPath("~/state.json")
	assert.ErrorIs(t, err, ErrNoHomeDirectory)

	got, err := ExpandPath("/abs/state.json")
	require.NoError(t, err)
	assert.Equal(t, "/abs/state.json", got)
}
