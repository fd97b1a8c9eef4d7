package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"analyze", "compare", "init", "thresholds"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCommand_LogFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "fairness.log")
	in := writeDecisions(t, dir, "fair.csv", fairGroups)
	out := filepath.Join(dir, "reports")

	_, _, err := run(newRootCommand(), "--log-file", logPath, "--debug", "analyze", in, "--output", out)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"report written"`)
	assert.Contains(t, string(data), `"level":"DEBUG"`)
}

func TestRootCommand_LogFileClosedAfterBiasGate(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	logPath := filepath.Join(dir, "fairness.log")
	in := writeDecisions(t, dir, "biased.csv", biasedGroups)

	root, closeLog := buildRootCommand()
	stdout, _, err := run(root, "--log-file", logPath, "analyze", in)
	var biasErr *BiasDetectedError
	require.ErrorAs(t, err, &biasErr)
	assert.NotContains(t, stdout, "Usage:")

	require.NoError(t, closeLog())
	require.NoError(t, closeLog(), "second close is a no-op")

	// The file handler now writes to a closed file, so nothing lands on disk.
	slog.Info("after close")
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "after close")
}

func TestThresholdsCommand(t *testing.T) {
	stdout, _, err := run(newThresholdsCommand())
	require.NoError(t, err)
	assert.Contains(t, stdout, "disparate_impact")
	assert.Contains(t, stdout, "lower")
	assert.Contains(t, stdout, "theil_index")
	assert.Contains(t, stdout, "Values exactly on a threshold pass.")

	cfg := writeConfig(t, t.TempDir(), "pass_at_boundary: false\n")
	stdout, _, err = run(newThresholdsCommand(), "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Values exactly on a threshold fail.")
}
