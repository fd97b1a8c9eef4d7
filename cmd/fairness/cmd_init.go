package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/projectconfig"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/validation"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var (
		defaults bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a .fairness.yaml project configuration",
		Long: `Create a .fairness.yaml project configuration.

Runs a short guided form for the column names, favorable label, declared
groups, CI fail-on severity, default report format and significance testing.
Use --defaults to skip the form and write the built-in defaults.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, defaults, force)
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "Write the default configuration without prompting")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing .fairness.yaml")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, defaults, force bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	// Create the root directory if it doesn't exist
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, projectconfig.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	cfg := projectconfig.New()
	if !defaults {
		var err error
		cfg, err = wizard.Run(cmd.InOrStdin(), cmd.OutOrStdout(), wizard.DefaultAnswers(cfg))
		if err != nil {
			return err
		}
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if problems := validation.ValidateConfigBytes(data); len(problems) > 0 {
		return fmt.Errorf("generated configuration is invalid: %s", strings.Join(problems, "; "))
	}

	header := "# Fairness project configuration. See `fairness analyze --help`.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path) //nolint:errcheck
	return nil
}
