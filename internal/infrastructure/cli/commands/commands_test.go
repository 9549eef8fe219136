package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/retest-go/internal/app"
	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/infrastructure/config"
	"github.com/doeshing/retest-go/internal/infrastructure/history"
)

type recordingNotifier struct {
	alerts []string
}

func (n *recordingNotifier) Alert(title, message string) {
	n.alerts = append(n.alerts, title+": "+message)
}

func newTestContainer(t *testing.T) *app.Container {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfigPath, "")

	container, err := app.BuildContainer(context.Background(), app.Options{
		Notifier: &recordingNotifier{},
		Stderr:   &bytes.Buffer{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMatchCommandPrintsGroupsAndRecordsRun(t *testing.T) {
	container := newTestContainer(t)

	out, err := execute(t, NewMatchCommand(container), "", "a(b)?(c)?", "xab")
	require.NoError(t, err)
	assert.Contains(t, out, "Matching: \"a(b)?(c)?\"\nAgainst: \"xab\"\n")
	assert.Contains(t, out, "group[1] = \"b\"\ngroup[2] = None")

	last, ok := container.History().Last()
	require.True(t, ok)
	assert.Equal(t, domain.OpMatch, last.Operation)
	assert.Equal(t, "xab", last.Subject)
	assert.Equal(t, uint32(1), last.Count)
}

func TestFindCommandReadsStdin(t *testing.T) {
	container := newTestContainer(t)

	out, err := execute(t, NewFindCommand(container), "a1b22\n", `\d+`, "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Iteration 0 found \"1\" at [1,2)")
	assert.Contains(t, out, "Iteration 1 found \"22\" at [3,5)")
}

func TestSplitCommandJSON(t *testing.T) {
	container := newTestContainer(t)

	out, err := execute(t, NewSplitCommand(container), "", "--json", ",", "a,b,,c")
	require.NoError(t, err)

	var rep struct {
		Operation string   `json:"operation"`
		OK        bool     `json:"ok"`
		Pieces    []string `json:"pieces"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.True(t, rep.OK)
	assert.Equal(t, []string{"a", "b", "", "c"}, rep.Pieces)
}

func TestNoHistoryFlag(t *testing.T) {
	container := newTestContainer(t)

	_, err := execute(t, NewMatchCommand(container), "", "--no-history", "a", "a")
	require.NoError(t, err)
	assert.Equal(t, 0, container.History().Len())
}

func TestExitCodeOnFailedReport(t *testing.T) {
	container := newTestContainer(t)

	out, err := execute(t, NewMatchCommand(container), "", "--exit-code", "(", "x")
	assert.ErrorIs(t, err, ErrNotOK)
	assert.Contains(t, out, "Error with pattern:")

	// the failed attempt is still recorded
	last, ok := container.History().Last()
	require.True(t, ok)
	assert.Equal(t, "(", last.Pattern)
}

func TestSubjectFileGlob(t *testing.T) {
	container := newTestContainer(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.txt"), []byte("cat"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "two.txt"), []byte("dog"), 0o644))

	out, err := execute(t, NewMatchCommand(container), "", "--subject-file", filepath.Join(dir, "**", "*.txt"), "o")
	require.NoError(t, err)
	assert.Contains(t, out, "one.txt")
	assert.Contains(t, out, "two.txt")
	assert.Contains(t, out, "Does not match Pattern:")
	assert.Contains(t, out, "group[0] = \"o\"")
	assert.Equal(t, 2, container.History().Len())
}

func TestSubjectFileConflictsWithArgument(t *testing.T) {
	container := newTestContainer(t)

	_, err := execute(t, NewMatchCommand(container), "", "--subject-file", "*.txt", "a", "b")
	assert.EqualError(t, err, ErrSubjectConflict)
}

func TestEngineOverride(t *testing.T) {
	container := newTestContainer(t)

	out, err := execute(t, NewMatchCommand(container), "", "--engine", domain.EngineRegexp2, `(\w)\1`, "abba")
	require.NoError(t, err)
	assert.Contains(t, out, "group[0] = \"bb\"")

	_, err = execute(t, NewMatchCommand(container), "", "--engine", "pcre", "a", "a")
	assert.Error(t, err)
}

func TestHistorySubcommands(t *testing.T) {
	container := newTestContainer(t)
	container.History().Add(domain.OpMatch, "a+", "caaat")
	container.History().Add(domain.OpFind, `\d`, "x1")

	out, err := execute(t, NewHistoryCommand(container), "")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1: 1: "))
	assert.Contains(t, lines[1], `Op: "match" RE: "a+" str: "caaat"`)

	out, err = execute(t, NewHistoryCommand(container), "", "last")
	require.NoError(t, err)
	assert.Contains(t, out, `RE: "\d"`)

	out, err = execute(t, NewHistoryCommand(container), "", "search", "--query", "caa")
	require.NoError(t, err)
	assert.Contains(t, out, "0: 1: ")
	assert.NotContains(t, out, `\d`)

	_, err = execute(t, NewHistoryCommand(container), "", "search")
	assert.EqualError(t, err, ErrQueryRequired)

	out, err = execute(t, NewHistoryCommand(container), "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Distinct pairs: 2")

	dest := filepath.Join(t.TempDir(), "export.json")
	out, err = execute(t, NewHistoryCommand(container), "", "export", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 records")
	exported, err := history.NewJSONStore(dest).Load()
	require.NoError(t, err)
	assert.Len(t, exported, 2)

	out, err = execute(t, NewHistoryCommand(container), "", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, MsgHistoryCleared)
	assert.Equal(t, 0, container.History().Len())

	out, err = execute(t, NewHistoryCommand(container), "", "last")
	require.NoError(t, err)
	assert.Contains(t, out, MsgNoLastExecution)
}

func TestConfigSubcommands(t *testing.T) {
	container := newTestContainer(t)

	out, err := execute(t, NewConfigCommand(container), "", "path")
	require.NoError(t, err)
	assert.Equal(t, container.ConfigLoader.Path()+"\n", out)

	out, err = execute(t, NewConfigCommand(container), "", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, MsgConfigurationValid)

	out, err = execute(t, NewConfigCommand(container), "", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "engine:")

	out, err = execute(t, NewConfigCommand(container), "", "diff")
	require.NoError(t, err)
	assert.Contains(t, out, MsgNoDifferencesFromDefault)

	out, err = execute(t, NewConfigCommand(container), "", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Previous configuration saved to")
	assert.Contains(t, out, "Configuration reset at")
}

func TestDoctorCommand(t *testing.T) {
	container := newTestContainer(t)

	out, err := execute(t, NewDoctorCommand(container), "")
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] Config file")
	assert.Contains(t, out, "[WARN] History - no history saved yet")
	assert.Contains(t, out, "[OK] Regex engine - re2")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, NewVersionCommand(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "retest version")
	assert.Contains(t, out, "Go version:")
}
