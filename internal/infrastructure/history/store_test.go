package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/ports"
)

func sampleRecords() []domain.Execution {
	base := time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.Local)
	return []domain.Execution{
		{Time: base, Operation: domain.OpMatch, Pattern: "a+", Subject: "baaab", Count: 2},
		{Time: base.Add(time.Minute), Operation: domain.OpSplit, Pattern: ",", Subject: "a,b,,c", Count: 1},
		{Time: base.Add(2 * time.Minute), Operation: domain.OpFind, Pattern: `\d+`, Subject: "a1b22c333", Count: 5},
	}
}

func assertSameRecords(t *testing.T, want, got []domain.Execution) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Time.Equal(got[i].Time), "record %d time: want %s, got %s", i, want[i].Time, got[i].Time)
		assert.Equal(t, want[i].Operation, got[i].Operation)
		assert.Equal(t, want[i].Pattern, got[i].Pattern)
		assert.Equal(t, want[i].Subject, got[i].Subject)
		assert.Equal(t, want[i].Count, got[i].Count)
	}
}

func TestStoresRoundTrip(t *testing.T) {
	dir := t.TempDir()
	stores := map[string]ports.HistoryRepository{
		"json":   NewJSONStore(filepath.Join(dir, "nested", "state.json")),
		"sqlite": NewSQLiteStore(filepath.Join(dir, "nested", "state.db")),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			records := sampleRecords()
			require.NoError(t, store.Save(records))

			loaded, err := store.Load()
			require.NoError(t, err)
			assertSameRecords(t, records, loaded)

			require.NoError(t, store.Save(records[:1]))
			loaded, err = store.Load()
			require.NoError(t, err)
			assertSameRecords(t, records[:1], loaded)
		})
	}
}

func TestJSONStoreWritesPrettyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewJSONStore(path)

	require.NoError(t, store.Save(sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "["))
	assert.Contains(t, text, "\n  {")
	assert.Contains(t, text, `"string": "baaab"`)
	assert.Contains(t, text, `"operation": "match"`)
}

func TestJSONStoreSavesEmptyLogAsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewJSONStore(path)

	require.NoError(t, store.Save(nil))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestJSONStoreMissingFileIsIOFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")
	store := NewJSONStore(filepath.Join(dir, "state.json"))

	_, err := store.Load()
	require.Error(t, err)
	assert.True(t, domain.IsHistoryErrorKind(err, domain.HistoryIOFailure))
	assert.ErrorIs(t, err, os.ErrNotExist)

	info, statErr := os.Stat(dir)
	require.NoError(t, statErr, "load creates the state directory")
	assert.True(t, info.IsDir())
}

func TestSQLiteStoreMissingDatabaseIsIOFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store := NewSQLiteStore(path)
	defer store.Close()

	_, err := store.Load()
	require.Error(t, err)
	assert.True(t, domain.IsHistoryErrorKind(err, domain.HistoryIOFailure))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, path)

	require.NoError(t, store.Save(sampleRecords()[:1]))
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestStoreWithoutHomeDirectoryForTildePath(t *testing.T) {
	t.Setenv("HOME", "")

	for _, store := range []ports.HistoryRepository{NewJSONStore("~/state.json"), NewSQLiteStore("~/state.db")} {
		_, err := store.Load()
		assert.True(t, domain.IsHistoryErrorKind(err, domain.HistoryNoHomeDirectory))
		assert.Empty(t, store.Path())
	}
}

func TestJSONStoreCorruptFileIsParseFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"`), 0o644))

	_, err := NewJSONStore(path).Load()
	require.Error(t, err)
	assert.True(t, domain.IsHistoryErrorKind(err, domain.HistoryParseFailure))
}

func TestStoreWithoutHomeDirectory(t *testing.T) {
	t.Setenv("HOME", "")

	for _, store := range []ports.HistoryRepository{NewJSONStore(""), NewSQLiteStore("")} {
		_, err := store.Load()
		assert.True(t, domain.IsHistoryErrorKind(err, domain.HistoryNoHomeDirectory))

		err = store.Save(sampleRecords())
		assert.True(t, domain.IsHistoryErrorKind(err, domain.HistoryNoHomeDirectory))
	}
}

func TestDefaultPathsUnderStateDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".re_test", "state.json"), NewJSONStore("").Path())
	assert.Equal(t, filepath.Join(home, ".re_test", "state.db"), NewSQLiteStore("").Path())
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(domain.Config{History: domain.HistorySettings{Path: filepath.Join(dir, "h.json")}})
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, store)

	store, err = NewStore(domain.Config{History: domain.HistorySettings{Backend: "sqlite", Path: filepath.Join(dir, "h.db")}})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)

	_, err = NewStore(domain.Config{History: domain.HistorySettings{Backend: "redis"}})
	assert.Error(t, err)
}

func TestWriteJSONExport(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out", "export.json")
	require.NoError(t, WriteJSON(dest, sampleRecords()))

	loaded, err := NewJSONStore(dest).Load()
	require.NoError(t, err)
	assertSameRecords(t, sampleRecords(), loaded)
}
