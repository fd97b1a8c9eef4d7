// Package wizard collects a project configuration interactively.
package wizard

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/projectconfig"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/reporting"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/validation"
)

// Answers holds all fields collected during the interactive wizard.
type Answers struct {
	GroupColumn       string
	DecisionColumn    string
	GroundTruthColumn string
	FavorableLabel    string
	// DeclaredGroups is a comma-separated list.
	DeclaredGroups string
	FailOn         string
	Format         string
	Significance   bool
}

// DefaultAnswers pre-populates the form from cfg.
func DefaultAnswers(cfg *projectconfig.ProjectConfig) Answers {
	return Answers{
		GroupColumn:       cfg.Columns.Group,
		DecisionColumn:    cfg.Columns.Decision,
		GroundTruthColumn: cfg.Columns.GroundTruth,
		FavorableLabel:    cfg.FavorableLabel,
		DeclaredGroups:    strings.Join(cfg.DeclaredGroups, ", "),
		FailOn:            cfg.Output.FailOn,
		Format:            cfg.Output.Format,
		Significance:      cfg.SignificanceEnabled(),
	}
}

// Run shows the configuration form and returns the resulting config.
func Run(in io.Reader, out io.Writer, initial Answers) (*projectconfig.ProjectConfig, error) {
	a := initial

	failOnOptions := []huh.Option[string]{huh.NewOption("never fail", projectconfig.FailOnNone)}
	for _, s := range models.Severities {
		failOnOptions = append(failOnOptions, huh.NewOption(string(s)+" or worse", string(s)))
	}
	formatOptions := []huh.Option[string]{huh.NewOption("auto (by output path or terminal)", "")}
	for _, f := range reporting.Formats {
		formatOptions = append(formatOptions, huh.NewOption(string(f), string(f)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Group column").
				Description("Column holding the protected-group label").
				Value(&a.GroupColumn).
				Validate(validateColumn),
			huh.NewInput().
				Title("Decision column").
				Description("Column holding the hiring decision").
				Value(&a.DecisionColumn).
				Validate(validateColumn),
			huh.NewInput().
				Title("Ground-truth column").
				Description("Column holding the qualification label, if any").
				Value(&a.GroundTruthColumn).
				Validate(validateColumn),
			huh.NewInput().
				Title("Favorable label").
				Description("Decision value that means the candidate was selected").
				Value(&a.FavorableLabel).
				Validate(validateFavorableLabel),
			huh.NewInput().
				Title("Declared groups").
				Description("Comma-separated groups to track even when absent (optional)").
				Placeholder("female, male, nonbinary").
				Value(&a.DeclaredGroups),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Fail CI at").
				Options(failOnOptions...).
				Value(&a.FailOn),
			huh.NewSelect[string]().
				Title("Default report format").
				Options(formatOptions...).
				Value(&a.Format),
			huh.NewConfirm().
				Title("Estimate significance of the selection gap?").
				Value(&a.Significance),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}
	return a.Config()
}

// Config converts the answers into a validated project configuration.
func (a Answers) Config() (*projectconfig.ProjectConfig, error) {
	cfg := projectconfig.New()

	for _, col := range []string{a.GroupColumn, a.DecisionColumn, a.GroundTruthColumn} {
		if err := validateColumn(col); err != nil {
			return nil, err
		}
	}
	cfg.Columns = validation.ColumnSpec{
		Group:       strings.TrimSpace(a.GroupColumn),
		Decision:    strings.TrimSpace(a.DecisionColumn),
		GroundTruth: strings.TrimSpace(a.GroundTruthColumn),
	}

	if err := validateFavorableLabel(a.FavorableLabel); err != nil {
		return nil, err
	}
	cfg.FavorableLabel = strings.TrimSpace(a.FavorableLabel)

	groups := splitAndTrim(a.DeclaredGroups)
	slices.Sort(groups)
	cfg.DeclaredGroups = slices.Compact(groups)

	if a.FailOn != "" {
		cfg.Output.FailOn = strings.ToLower(strings.TrimSpace(a.FailOn))
		if _, err := cfg.FailOnSeverity(); err != nil {
			return nil, err
		}
	}
	if a.Format != "" {
		f, err := reporting.ParseFormat(a.Format)
		if err != nil {
			return nil, err
		}
		cfg.Output.Format = string(f)
	}
	cfg.Significance.Enabled = &a.Significance
	return cfg, nil
}

func validateColumn(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("column name is required")
	}
	return nil
}

func validateFavorableLabel(s string) error {
	if _, ok := validation.ParseBinary(s); !ok {
		return fmt.Errorf("favorable label %q is not a binary value", s)
	}
	return nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
