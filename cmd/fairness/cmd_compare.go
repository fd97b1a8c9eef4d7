package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/baseline"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/reporting"
)

type compareOptions struct {
	format           string
	configPath       string
	failOnRegression bool
}

func newCompareCommand() *cobra.Command {
	var opts compareOptions

	cmd := &cobra.Command{
		Use:   "compare <baseline.json> <current.json>",
		Short: "Compare two fairness reports",
		Long: `Compare a baseline fairness report with a current one.

Both files are JSON reports written by "fairness analyze --format json"
(optionally .gz or .zst compressed). The comparison shows the score delta,
the normalized gain, how each metric moved, and which violations are new,
resolved or persisting.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareCommandE(cmd, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: table or json")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to a .fairness.yaml file supplying metric directions")
	cmd.Flags().BoolVar(&opts.failOnRegression, "fail-on-regression", false, "Exit 1 when the current report is less fair than the baseline")

	return cmd
}

func compareCommandE(cmd *cobra.Command, args []string, opts *compareOptions) error {
	if opts.format != "table" && opts.format != "json" {
		return fmt.Errorf("unsupported format %q: must be table or json", opts.format)
	}

	cfg, err := loadProjectConfig(opts.configPath)
	if err != nil {
		return err
	}
	th, err := cfg.BuildThresholds()
	if err != nil {
		return err
	}

	reports := make([]*models.FairnessReport, 0, 2)
	for _, path := range args {
		r, err := reporting.ReadReport(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		reports = append(reports, r)
	}

	c := baseline.Compare(reports[0], reports[1], th)
	baseline.SortByChange(c.Metrics)

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal comparison: %w", err)
		}
		if _, err := fmt.Fprintln(out, string(data)); err != nil {
			return err
		}
	} else {
		printComparisonTable(out, args, c)
	}

	if opts.failOnRegression && c.Regressed() {
		cmd.SilenceUsage = true
		return &BiasDetectedError{
			Message: fmt.Sprintf("fairness regressed: score %+.2f, %d new violation(s)", c.ScoreDelta, len(c.NewViolations)),
		}
	}
	return nil
}

func printComparisonTable(w io.Writer, files []string, c *baseline.Comparison) {
	p := func(format string, a ...any) { fmt.Fprintf(w, format, a...) } //nolint:errcheck

	p("%s\n COMPARISON REPORT\n%s\n\n", strings.Repeat("=", 70), strings.Repeat("=", 70))
	p("  [1] %s\n  [2] %s\n\n", files[0], files[1])

	p("  %-22s  %-10s  %-10s  %s\n", "", "[1]", "[2]", "Delta")
	p("  %-22s  %-10.2f  %-10.2f  %+.2f\n", "Fairness score", c.ScoreBefore, c.ScoreAfter, c.ScoreDelta)
	p("  %-22s  %-10s  %-10s\n", "Badge", c.BadgeBefore, c.BadgeAfter)
	p("  %-22s  %+.4f\n\n", "Normalized gain", c.NormalizedGain)

	p("%s\n METRICS\n%s\n", strings.Repeat("-", 70), strings.Repeat("-", 70))
	for _, d := range c.Metrics {
		p("  %-32s  %-8s  %-8s  %-9s  %s\n", d.Metric, fmtValue(d.Before), fmtValue(d.After), fmtDelta(d), changeIcon(d.Change))
	}
	p("\n")

	printViolationSection(w, "NEW VIOLATIONS", c.NewViolations)
	printViolationSection(w, "RESOLVED VIOLATIONS", c.ResolvedViolations)
	printViolationSection(w, "PERSISTING VIOLATIONS", c.PersistingViolations)
}

func printViolationSection(w io.Writer, title string, vs []models.Violation) {
	fmt.Fprintf(w, "%s\n %s (%d)\n%s\n", strings.Repeat("-", 70), title, len(vs), strings.Repeat("-", 70)) //nolint:errcheck
	if len(vs) == 0 {
		fmt.Fprint(w, "  none\n\n") //nolint:errcheck
		return
	}
	width := 0
	for _, v := range vs {
		width = max(width, runewidth.StringWidth(violationLabel(v)))
	}
	for _, v := range vs {
		label := violationLabel(v)
		pad := strings.Repeat(" ", width-runewidth.StringWidth(label))
		fmt.Fprintf(w, "  %-8s  %s%s  %.4f\n", v.Severity, label, pad, v.Value) //nolint:errcheck
	}
	fmt.Fprintln(w) //nolint:errcheck
}

func violationLabel(v models.Violation) string {
	if v.Comparison == "" {
		return v.Metric
	}
	return v.Metric + " [" + v.Comparison + "]"
}

func fmtValue(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}

func fmtDelta(d baseline.MetricDelta) string {
	if d.Before == nil || d.After == nil {
		return ""
	}
	return fmt.Sprintf("%+.4f", d.Delta)
}

func changeIcon(c baseline.Change) string {
	switch c {
	case baseline.ChangeImproved:
		return "↑ improved"
	case baseline.ChangeRegressed:
		return "↓ regressed"
	default:
		return string(c)
	}
}
