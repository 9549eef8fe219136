package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/retest-go/internal/domain"
)

func TestRendererReportPlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Report(domain.Report{Text: "Matching: \"a\"\nAgainst: \"a\"\n\ngroup[0] = \"a\"\n", OK: true})

	assert.Equal(t, "Matching: \"a\"\nAgainst: \"a\"\n\ngroup[0] = \"a\"\n", buf.String())
}

func TestRendererTiming(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.Timing = true

	r.Report(domain.Report{Text: "Found nothing", Elapsed: 1500 * time.Microsecond})

	assert.Equal(t, "Found nothing\n(1.5ms)\n", buf.String())
}

func TestRendererReportJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	err := r.ReportJSON(domain.Report{
		Operation: domain.OpSplit,
		Pattern:   ",",
		Subject:   "a,b",
		Pieces:    []string{"a", "b"},
		OK:        true,
	})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "split", decoded["operation"])
	assert.Equal(t, "a,b", decoded["string"])
	assert.Equal(t, []interface{}{"a", "b"}, decoded["pieces"])
	assert.NotContains(t, decoded, "error")
}

func TestRendererReportJSONIncludesError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf).ReportJSON(domain.Report{Err: errors.New("boom")}))
	assert.Contains(t, buf.String(), `"error": "boom"`)
}

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	NewNotifier(&buf).Alert("Error", "Unable to save history: disk full")
	assert.Equal(t, "Error: Unable to save history: disk full\n", buf.String())
}

func TestDisplayHistoryStats(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	stats := domain.HistoryStats{
		Records:     2,
		Runs:        1205,
		ByOperation: map[domain.Operation]int{domain.OpFind: 1, domain.OpMatch: 1},
		Busiest:     domain.Execution{Pattern: "a+", Subject: "baaab", Count: 1204},
		Newest:      now.Add(-3 * time.Minute),
	}

	var buf bytes.Buffer
	DisplayHistoryStats(&buf, stats, now)

	out := buf.String()
	assert.Contains(t, out, "Distinct pairs: 2\nTotal runs: 1205\n")
	assert.Contains(t, out, "  split: 0\n")
	assert.Contains(t, out, `Most run: RE: "a+" str: "baaab" (1,204 runs)`)
	assert.Contains(t, out, "Last run: 3 minutes ago")
}

func TestDisplayHistoryStatsEmpty(t *testing.T) {
	var buf bytes.Buffer
	DisplayHistoryStats(&buf, domain.HistoryStats{}, time.Now())
	assert.NotContains(t, buf.String(), "Most run")
}
