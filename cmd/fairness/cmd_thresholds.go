package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newThresholdsCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Show the effective threshold rules",
		Long: `Show the threshold rule for every rated metric after applying
.fairness.yaml overrides. Lower-direction metrics fail below the threshold;
upper-direction metrics fail above it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadProjectConfig(configPath)
			if err != nil {
				return err
			}
			th, err := cfg.BuildThresholds()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "  %-32s  %-9s  %-9s  %-9s  %-9s  %-9s  %s\n", //nolint:errcheck
				"Metric", "Direction", "Threshold", "Medium", "High", "Critical", "Worst")
			for _, m := range th.Metrics() {
				r, _ := th.Rule(m)
				fmt.Fprintf(out, "  %-32s  %-9s  %-9g  %-9g  %-9g  %-9g  %g\n", //nolint:errcheck
					m, r.Direction, r.Threshold, r.Medium, r.High, r.Critical, r.Worst)
			}
			boundary := "pass"
			if !th.PassAtBoundary() {
				boundary = "fail"
			}
			fmt.Fprintf(out, "\n  Values exactly on a threshold %s.\n", boundary) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a .fairness.yaml file")
	return cmd
}
