package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// writeDecisions writes a CSV where each group has n rows and the first
// selected rows are favorable.
func writeDecisions(t *testing.T, dir, name string, groups map[string][2]int) string {
	t.Helper()
	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("group_label,decision\n")
	for _, g := range names {
		n, selected := groups[g][0], groups[g][1]
		for i := 0; i < n; i++ {
			d := 0
			if i < selected {
				d = 1
			}
			fmt.Fprintf(&b, "%s,%d\n", g, d)
		}
	}
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(b.String()), 0o644))
	return p
}

var (
	biasedGroups = map[string][2]int{"a": {10, 8}, "b": {10, 2}}
	fairGroups   = map[string][2]int{"a": {10, 5}, "b": {10, 5}}
	// Rates 0.5 and 0.4: disparate impact 0.8 and parity difference 0.1,
	// both exactly on their thresholds.
	boundaryGroups = map[string][2]int{"a": {20, 10}, "b": {20, 8}}
)

// run executes cmd with args and returns stdout and stderr.
func run(cmd *cobra.Command, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, ".fairness.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}
