package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/audit"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/projectconfig"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/reporting"
)

type analyzeOptions struct {
	format         string
	output         string
	compress       string
	configPath     string
	groupCol       string
	decisionCol    string
	groundTruthCol string
	favorableLabel string
	declaredGroups []string
	failOn         string
	strictBoundary bool
	significance   bool
	confidence     float64
	seed           int64
	workers        int
}

func newAnalyzeCommand() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze <decisions.csv|decisions.json> [more...]",
		Short: "Compute fairness metrics for one or more decision tables",
		Long: `Analyze hiring decisions for group fairness.

Each input is a CSV file with a header row or a JSON array of objects. Every
row needs a group label and a binary decision; an optional ground-truth column
enables the error-rate metrics.

Settings come from .fairness.yaml (searched upward from the working
directory) and are overridden by flags. The command exits with status 1 when
a violation reaches the --fail-on severity.

With several inputs, --output names a directory that receives one report per
input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeCommandE(cmd, args, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "", "Output format: json, text, markdown, html, junit (default: text on a terminal, json otherwise)")
	f.StringVarP(&opts.output, "output", "o", "", "Write the report to this file (or directory for several inputs) instead of stdout")
	f.StringVar(&opts.compress, "compress", "", "Compress reports written to a directory: gz or zst")
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to a .fairness.yaml file (default: search upward from the working directory)")
	f.StringVar(&opts.groupCol, "group-col", "", "Column holding the group label")
	f.StringVar(&opts.decisionCol, "decision-col", "", "Column holding the decision")
	f.StringVar(&opts.groundTruthCol, "ground-truth-col", "", "Column holding the ground-truth label")
	f.StringVar(&opts.favorableLabel, "favorable-label", "", "Decision value that counts as selected")
	f.StringArrayVar(&opts.declaredGroups, "group", nil, "Declare a group even if no row carries it (can be repeated)")
	f.StringVar(&opts.failOn, "fail-on", "", "Exit 1 when a violation reaches this severity: low, medium, high, critical or none")
	f.BoolVar(&opts.strictBoundary, "strict-boundary", false, "Treat values exactly on a threshold as violations")
	f.BoolVar(&opts.significance, "significance", false, "Bootstrap a confidence interval for the selection-rate gap")
	f.Float64Var(&opts.confidence, "confidence", 0, "Confidence level for --significance (default from config, 0.95)")
	f.Int64Var(&opts.seed, "seed", 0, "Random seed for --significance (default from config, 42; negative for nondeterministic)")
	f.IntVar(&opts.workers, "workers", 4, "Number of inputs analysed concurrently")

	return cmd
}

func analyzeCommandE(cmd *cobra.Command, args []string, opts *analyzeOptions) error {
	cfg, err := loadProjectConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cmd, cfg, opts)

	th, err := cfg.BuildThresholds()
	if err != nil {
		return err
	}
	failOn, err := cfg.FailOnSeverity()
	if err != nil {
		return err
	}
	format, err := resolveFormat(cmd, cfg, opts)
	if err != nil {
		return err
	}

	var significance *audit.Significance
	if cfg.SignificanceEnabled() {
		significance = &audit.Significance{Confidence: cfg.Significance.Confidence, Seed: cfg.SignificanceSeed()}
	}

	recommender := cfg.RecommendEngine()
	jobs := make([]audit.Job, 0, len(args))
	for _, path := range args {
		jobs = append(jobs, audit.Job{
			Source: audit.FileSource{Path: path},
			Options: reporting.Options{
				Columns:        cfg.Columns,
				FavorableLabel: cfg.FavorableLabel,
				DeclaredGroups: cfg.DeclaredGroups,
				Thresholds:     th,
				Recommender:    recommender,
			},
			Significance: significance,
		})
	}

	runner := &audit.Runner{Concurrency: opts.workers}
	toDir := opts.output != "" && (len(args) > 1 || isDirTarget(opts.output))
	if toDir {
		suffix, err := compressSuffix(opts.compress)
		if err != nil {
			return err
		}
		runner.Sink = &audit.FileSink{Dir: opts.output, Format: format, Suffix: suffix}
	} else if opts.compress != "" {
		return fmt.Errorf("--compress applies to directory output; name the file with a .gz or .zst extension instead")
	}

	outcomes, err := runner.Run(cmd.Context(), jobs)
	if err != nil {
		return err
	}
	if err := audit.Failed(outcomes); err != nil {
		return err
	}

	if !toDir {
		if err := emitReports(cmd, outcomes, format, opts.output); err != nil {
			return err
		}
	}

	if err := gateOnSeverity(outcomes, failOn); err != nil {
		cmd.SilenceUsage = true
		return err
	}
	return nil
}

// applyAnalyzeFlags overlays explicitly set flags onto the loaded config.
func applyAnalyzeFlags(cmd *cobra.Command, cfg *projectconfig.ProjectConfig, opts *analyzeOptions) {
	f := cmd.Flags()
	if f.Changed("group-col") {
		cfg.Columns.Group = opts.groupCol
	}
	if f.Changed("decision-col") {
		cfg.Columns.Decision = opts.decisionCol
	}
	if f.Changed("ground-truth-col") {
		cfg.Columns.GroundTruth = opts.groundTruthCol
	}
	if f.Changed("favorable-label") {
		cfg.FavorableLabel = opts.favorableLabel
	}
	if f.Changed("group") {
		cfg.DeclaredGroups = opts.declaredGroups
	}
	if f.Changed("fail-on") {
		cfg.Output.FailOn = opts.failOn
	}
	if f.Changed("strict-boundary") {
		pass := !opts.strictBoundary
		cfg.PassAtBoundary = &pass
	}
	if f.Changed("significance") {
		cfg.Significance.Enabled = &opts.significance
	}
	if f.Changed("confidence") {
		cfg.Significance.Confidence = opts.confidence
	}
	if f.Changed("seed") {
		cfg.Significance.Seed = &opts.seed
	}
}

// resolveFormat picks the flag, then a format set in a config file, then the
// --output extension, then text for terminals and JSON for pipes.
func resolveFormat(cmd *cobra.Command, cfg *projectconfig.ProjectConfig, opts *analyzeOptions) (reporting.Format, error) {
	switch {
	case cmd.Flags().Changed("format"):
		return reporting.ParseFormat(opts.format)
	case cfg.Output.Format != "":
		return reporting.ParseFormat(cfg.Output.Format)
	case opts.output == "" && isTerminal(cmd.OutOrStdout()):
		return reporting.ParseFormat(cfg.OutputFormat())
	case opts.output != "":
		if f, err := reporting.ParseFormat(strings.TrimPrefix(filepath.Ext(trimCompression(opts.output)), ".")); err == nil {
			return f, nil
		}
		return reporting.FormatJSON, nil
	default:
		return reporting.FormatJSON, nil
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// isDirTarget reports whether a single-input --output names a directory:
// an existing directory, a trailing slash, or a path without extension.
func isDirTarget(path string) bool {
	if st, err := os.Stat(path); err == nil {
		return st.IsDir()
	}
	return strings.HasSuffix(path, "/") || filepath.Ext(path) == ""
}

func trimCompression(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".zst":
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path
}

func compressSuffix(s string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "":
		return "", nil
	case "gz", "gzip":
		return ".gz", nil
	case "zst", "zstd":
		return ".zst", nil
	default:
		return "", fmt.Errorf("invalid --compress %q: must be gz or zst", s)
	}
}

// emitReports writes the reports to stdout or, for a single input, to path.
func emitReports(cmd *cobra.Command, outcomes []*audit.Outcome, format reporting.Format, path string) error {
	if len(outcomes) == 1 {
		o := outcomes[0]
		data, err := reporting.Render(o.Report, format, reporting.RenderOptions{Name: o.Name, Gap: o.Gap})
		if err != nil {
			return err
		}
		if path == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := reporting.WriteFile(path, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", path) //nolint:errcheck
		return nil
	}

	out := cmd.OutOrStdout()
	switch format {
	case reporting.FormatJSON:
		byName := make(map[string]*models.FairnessReport, len(outcomes))
		for _, o := range outcomes {
			byName[o.Name] = o.Report
		}
		data, err := json.MarshalIndent(byName, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling reports: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case reporting.FormatText, reporting.FormatMarkdown:
		for i, o := range outcomes {
			data, err := reporting.Render(o.Report, format, reporting.RenderOptions{Name: o.Name, Gap: o.Gap})
			if err != nil {
				return err
			}
			if i > 0 {
				fmt.Fprintln(out) //nolint:errcheck
			}
			fmt.Fprintf(out, "==> %s <==\n", o.Name) //nolint:errcheck
			if _, err := out.Write(data); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("format %s needs --output <dir> when analysing several inputs", format)
	}
}

// gateOnSeverity returns a BiasDetectedError naming every dataset whose worst
// violation is at or above failOn. An empty failOn disables the gate.
func gateOnSeverity(outcomes []*audit.Outcome, failOn models.Severity) error {
	if failOn == "" {
		return nil
	}
	var flagged []string
	for _, o := range outcomes {
		worst := o.Report.MaxSeverity()
		if worst != "" && worst.AtLeast(failOn) {
			flagged = append(flagged, fmt.Sprintf("%s (%s)", o.Name, worst))
		}
	}
	if len(flagged) == 0 {
		return nil
	}
	return &BiasDetectedError{
		Message: fmt.Sprintf("bias at or above %s severity detected in %s", failOn, strings.Join(flagged, ", ")),
	}
}
