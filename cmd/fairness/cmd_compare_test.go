package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/baseline"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
)

// writeReport analyses groups and stores the JSON report at dir/name.
func writeReport(t *testing.T, dir, name string, groups map[string][2]int) string {
	t.Helper()
	in := writeDecisions(t, dir, name+".csv", groups)
	out := filepath.Join(dir, name)
	_, _, err := run(newAnalyzeCommand(), in, "--output", out, "--format", "json", "--fail-on", "none")
	require.NoError(t, err)
	return out
}

// ---------------------------------------------------------------------------
// Argument validation
// ---------------------------------------------------------------------------

func TestCompareCommand_RequiresTwoArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", []string{}},
		{"one arg", []string{"one.json"}},
		{"three args", []string{"one.json", "two.json", "three.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(newCompareCommand(), tt.args...)
			assert.Error(t, err)
		})
	}
}

// ---------------------------------------------------------------------------
// Error handling
// ---------------------------------------------------------------------------

func TestCompareCommand_MissingFile(t *testing.T) {
	_, _, err := run(newCompareCommand(), "nonexistent1.json", "nonexistent2.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load")
}

func TestCompareCommand_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{invalid"), 0o644))
	good := writeReport(t, dir, "good.json", fairGroups)

	_, _, err := run(newCompareCommand(), good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load")
}

func TestCompareCommand_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	f1 := writeReport(t, dir, "r1.json", fairGroups)
	f2 := writeReport(t, dir, "r2.json", fairGroups)

	_, _, err := run(newCompareCommand(), f1, f2, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

// ---------------------------------------------------------------------------
// Output
// ---------------------------------------------------------------------------

func TestCompareCommand_TableImprovement(t *testing.T) {
	dir := t.TempDir()
	before := writeReport(t, dir, "before.json", biasedGroups)
	after := writeReport(t, dir, "after.json.gz", fairGroups)

	stdout, _, err := run(newCompareCommand(), before, after, "--fail-on-regression")
	require.NoError(t, err)

	assert.Contains(t, stdout, "COMPARISON REPORT")
	assert.Contains(t, stdout, "Fairness score")
	assert.Contains(t, stdout, "↑ improved")
	assert.Contains(t, stdout, "NEW VIOLATIONS (0)")
	assert.Contains(t, stdout, "PERSISTING VIOLATIONS (0)")
	assert.Contains(t, stdout, "disparate_impact [b vs a]")
}

func TestCompareCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	before := writeReport(t, dir, "before.json", fairGroups)
	after := writeReport(t, dir, "after.json", biasedGroups)

	stdout, _, err := run(newCompareCommand(), before, after, "--format", "json")
	require.NoError(t, err)

	var c baseline.Comparison
	require.NoError(t, json.Unmarshal([]byte(stdout), &c))
	assert.Equal(t, 100.0, c.ScoreBefore)
	assert.Less(t, c.ScoreDelta, 0.0)
	assert.True(t, c.Regressed())
	assert.NotEmpty(t, c.NewViolations)
	assert.Empty(t, c.ResolvedViolations)

	require.NotEmpty(t, c.Metrics)
	assert.Equal(t, baseline.ChangeRegressed, c.Metrics[0].Change, "regressions sort first")

	for _, d := range c.Metrics {
		if d.Metric == models.MetricDisparateImpact {
			require.NotNil(t, d.After)
			assert.InDelta(t, 0.25, *d.After, 1e-9)
		}
	}
}

func TestCompareCommand_FailOnRegression(t *testing.T) {
	dir := t.TempDir()
	before := writeReport(t, dir, "before.json", fairGroups)
	after := writeReport(t, dir, "after.json", biasedGroups)

	stdout, _, err := run(newCompareCommand(), before, after, "--fail-on-regression")
	var biasErr *BiasDetectedError
	require.ErrorAs(t, err, &biasErr)
	assert.NotContains(t, stdout, "Usage:")
	assert.Contains(t, err.Error(), "fairness regressed")
}
