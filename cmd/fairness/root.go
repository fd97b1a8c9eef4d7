package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/logging"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/projectconfig"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd, _ := buildRootCommand()
	return cmd
}

// buildRootCommand also returns a function that closes the --log-file
// handle. Cobra skips PersistentPostRunE when RunE fails, so callers must
// run it after Execute; it is safe to call more than once.
func buildRootCommand() (*cobra.Command, func() error) {
	cmd := &cobra.Command{
		Use:   "fairness",
		Short: "Fairness - group-fairness metrics for hiring decisions",
		Long: `Fairness measures how hiring decisions are distributed across groups.

It computes demographic parity, disparate impact, the Theil index and, when
ground-truth labels are present, error-rate metrics such as equal opportunity
and average odds. Violations are graded by severity, summarised as a fairness
score, and reported as JSON, text, Markdown, HTML or JUnit XML.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	logFile := cmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")

	var closeLog func() error
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cleanup, err := logging.Install(cmd.ErrOrStderr(), logging.Options{Debug: *debugLogging, File: *logFile})
		if err != nil {
			return err
		}
		closeLog = cleanup
		return nil
	}
	finish := func() error {
		if closeLog == nil {
			return nil
		}
		c := closeLog
		closeLog = nil
		return c()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return finish()
	}

	// Add subcommands
	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newCompareCommand())
	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newThresholdsCommand())

	return cmd, finish
}

func execute() error {
	rootCmd, closeLog := buildRootCommand()
	err := rootCmd.Execute()
	if cerr := closeLog(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

// loadProjectConfig reads an explicit config file, or discovers
// .fairness.yaml from the working directory when path is empty.
func loadProjectConfig(path string) (*projectconfig.ProjectConfig, error) {
	if path != "" {
		return projectconfig.LoadFile(path)
	}
	return projectconfig.Load(".")
}
