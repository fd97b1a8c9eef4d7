// Package projectconfig provides the ProjectConfig struct and loader for
// .fairness.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/recommend"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/scoring"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/validation"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".fairness.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultFormat     = "text"
	DefaultFailOn     = "high"
	DefaultConfidence = 0.95
	DefaultSeed       = 42

	// FailOnNone disables the severity gate.
	FailOnNone = "none"
)

// RuleConfig overrides parts of a threshold rule. Unset fields keep the
// built-in rule's values.
type RuleConfig struct {
	Direction string   `mapstructure:"direction" yaml:"direction,omitempty"`
	Threshold *float64 `mapstructure:"threshold" yaml:"threshold,omitempty"`
	Medium    *float64 `mapstructure:"medium" yaml:"medium,omitempty"`
	High      *float64 `mapstructure:"high" yaml:"high,omitempty"`
	Critical  *float64 `mapstructure:"critical" yaml:"critical,omitempty"`
	Worst     *float64 `mapstructure:"worst" yaml:"worst,omitempty"`
}

// GuidanceConfig overrides the title or remediation text of one metric's
// recommendation.
type GuidanceConfig struct {
	Title       string `mapstructure:"title" yaml:"title,omitempty"`
	Remediation string `mapstructure:"remediation" yaml:"remediation,omitempty"`
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	// Format is empty unless the file sets it; callers then pick a format
	// from the output path or terminal and fall back to DefaultFormat.
	Format string `mapstructure:"format" yaml:"format,omitempty"`
	FailOn string `mapstructure:"fail_on" yaml:"fail_on,omitempty"`
}

// SignificanceConfig holds bootstrap settings for the selection gap.
type SignificanceConfig struct {
	Enabled    *bool   `mapstructure:"enabled" yaml:"enabled,omitempty"`
	Confidence float64 `mapstructure:"confidence" yaml:"confidence,omitempty"`
	Seed       *int64  `mapstructure:"seed" yaml:"seed,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .fairness.yaml.
type ProjectConfig struct {
	Columns        validation.ColumnSpec `mapstructure:"columns" yaml:"columns,omitempty"`
	FavorableLabel string                `mapstructure:"favorable_label" yaml:"favorable_label,omitempty"`
	DeclaredGroups []string              `mapstructure:"declared_groups" yaml:"declared_groups,omitempty"`
	Thresholds     map[string]RuleConfig `mapstructure:"thresholds" yaml:"thresholds,omitempty"`
	PassAtBoundary *bool                 `mapstructure:"pass_at_boundary" yaml:"pass_at_boundary,omitempty"`
	Output         OutputConfig          `mapstructure:"output" yaml:"output,omitempty"`
	Significance   SignificanceConfig    `mapstructure:"significance" yaml:"significance,omitempty"`

	Recommendations map[string]GuidanceConfig `mapstructure:"recommendations" yaml:"recommendations,omitempty"`

	// Path is the file the configuration was read from; empty for defaults.
	Path string `mapstructure:"-" yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Columns:        validation.ColumnSpec{}.WithDefaults(),
		FavorableLabel: validation.DefaultFavorableLabel,
		PassAtBoundary: boolPtr(true),
		Output: OutputConfig{
			FailOn: DefaultFailOn,
		},
		Significance: SignificanceConfig{
			Enabled:    boolPtr(false),
			Confidence: DefaultConfidence,
			Seed:       int64Ptr(DefaultSeed),
		},
	}
}

// Load finds .fairness.yaml by walking up from startDir (max 10 levels),
// validates and decodes it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// LoadFile reads an explicit configuration file.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// SchemaError lists every schema violation found in a configuration document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Parse validates YAML configuration against the schema, decodes it and
// merges it onto the defaults.
func Parse(data []byte) (*ProjectConfig, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if problems := validation.ValidateConfigDocument(doc); len(problems) > 0 {
		return nil, &SchemaError{Problems: problems}
	}

	cfg := New()
	if doc == nil {
		return cfg, nil
	}

	var fileCfg ProjectConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &fileCfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", FileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	if _, err := cfg.BuildThresholds(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile walks up from dir looking for .fairness.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) (string, []byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Columns
	if src.Columns.Group != "" {
		dst.Columns.Group = src.Columns.Group
	}
	if src.Columns.Decision != "" {
		dst.Columns.Decision = src.Columns.Decision
	}
	if src.Columns.GroundTruth != "" {
		dst.Columns.GroundTruth = src.Columns.GroundTruth
	}

	if src.FavorableLabel != "" {
		dst.FavorableLabel = src.FavorableLabel
	}
	if len(src.DeclaredGroups) > 0 {
		dst.DeclaredGroups = slices.Clone(src.DeclaredGroups)
	}
	if len(src.Thresholds) > 0 {
		dst.Thresholds = maps.Clone(src.Thresholds)
	}
	if src.PassAtBoundary != nil {
		dst.PassAtBoundary = src.PassAtBoundary
	}
	if len(src.Recommendations) > 0 {
		dst.Recommendations = maps.Clone(src.Recommendations)
	}

	// Output
	if src.Output.Format != "" {
		dst.Output.Format = src.Output.Format
	}
	if src.Output.FailOn != "" {
		dst.Output.FailOn = src.Output.FailOn
	}

	// Significance
	if src.Significance.Enabled != nil {
		dst.Significance.Enabled = src.Significance.Enabled
	}
	if src.Significance.Confidence != 0 {
		dst.Significance.Confidence = src.Significance.Confidence
	}
	if src.Significance.Seed != nil {
		dst.Significance.Seed = src.Significance.Seed
	}
}

// BuildThresholds applies the configured overrides to the default rules.
func (c *ProjectConfig) BuildThresholds() (scoring.Thresholds, error) {
	th := scoring.DefaultThresholds().WithPassAtBoundary(c.PassAtBoundary == nil || *c.PassAtBoundary)

	for _, metric := range slices.Sorted(maps.Keys(c.Thresholds)) {
		rc := c.Thresholds[metric]
		rule, _ := th.Rule(metric)
		if rc.Direction != "" {
			d, err := scoring.ParseDirection(rc.Direction)
			if err != nil {
				return scoring.Thresholds{}, fmt.Errorf("threshold for %s: %w", metric, err)
			}
			rule.Direction = d
		}
		overlay(&rule.Threshold, rc.Threshold)
		overlay(&rule.Medium, rc.Medium)
		overlay(&rule.High, rc.High)
		overlay(&rule.Critical, rc.Critical)
		overlay(&rule.Worst, rc.Worst)

		// A lone threshold override moves the pass boundary; keep the
		// medium band from sitting inside it.
		if rc.Threshold != nil && rc.Medium == nil {
			if (rule.Direction == scoring.Upper && rule.Medium < rule.Threshold) ||
				(rule.Direction == scoring.Lower && rule.Medium > rule.Threshold) {
				rule.Medium = rule.Threshold
			}
		}

		var err error
		if th, err = th.WithRule(metric, rule); err != nil {
			return scoring.Thresholds{}, err
		}
	}
	return th, nil
}

// FailOnSeverity returns the configured severity gate, or "" when disabled.
func (c *ProjectConfig) FailOnSeverity() (models.Severity, error) {
	if strings.EqualFold(strings.TrimSpace(c.Output.FailOn), FailOnNone) {
		return "", nil
	}
	return models.ParseSeverity(c.Output.FailOn)
}

// RecommendEngine returns the recommendation engine with any configured
// overrides applied. Fields left empty keep the built-in text.
func (c *ProjectConfig) RecommendEngine() *recommend.Engine {
	e := recommend.NewEngine()
	for _, metric := range slices.Sorted(maps.Keys(c.Recommendations)) {
		o := c.Recommendations[metric]
		g, _ := e.Guidance(metric)
		if o.Title != "" {
			g.Title = o.Title
		}
		if o.Remediation != "" {
			g.Remediation = o.Remediation
		}
		if g.Title == "" {
			g.Title = strings.ReplaceAll(metric, "_", " ")
		}
		e = e.WithGuidance(metric, g)
	}
	return e
}

// OutputFormat returns the configured report format, DefaultFormat when unset.
func (c *ProjectConfig) OutputFormat() string {
	if c.Output.Format == "" {
		return DefaultFormat
	}
	return c.Output.Format
}

// SignificanceEnabled reports whether the bootstrap gap estimate is requested.
func (c *ProjectConfig) SignificanceEnabled() bool {
	return c.Significance.Enabled != nil && *c.Significance.Enabled
}

// SignificanceSeed returns the bootstrap seed, DefaultSeed when unset.
func (c *ProjectConfig) SignificanceSeed() int64 {
	if c.Significance.Seed == nil {
		return DefaultSeed
	}
	return *c.Significance.Seed
}

// Marshal renders the configuration as YAML.
func (c *ProjectConfig) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", FileName, err)
	}
	return data, nil
}

func overlay(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func int64Ptr(i int64) *int64 {
	return &i
}
