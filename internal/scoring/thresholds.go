// Package scoring classifies fairness metrics against thresholds and rolls
// them up into a single fairness score and badge.
package scoring

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
)

// tolerance absorbs float noise when a value sits exactly on a boundary.
const tolerance = 1e-9

// Direction says which side of a threshold is a violation.
type Direction string

const (
	// Lower means values below the threshold violate (ratios such as disparate impact).
	Lower Direction = "lower"
	// Upper means values above the threshold violate (differences and indices).
	Upper Direction = "upper"
)

// ParseDirection converts a config value to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lower":
		return Lower, nil
	case "upper":
		return Upper, nil
	default:
		return "", fmt.Errorf("invalid direction %q: must be lower or upper", s)
	}
}

// Rule is the threshold and severity bands for one metric. Threshold is the
// pass boundary; Medium, High and Critical are the boundaries past which a
// violation reaches that severity. Worst is the value that earns the full
// score penalty.
type Rule struct {
	Direction Direction `mapstructure:"direction" yaml:"direction"`
	Threshold float64   `mapstructure:"threshold" yaml:"threshold"`
	Medium    float64   `mapstructure:"medium" yaml:"medium"`
	High      float64   `mapstructure:"high" yaml:"high"`
	Critical  float64   `mapstructure:"critical" yaml:"critical"`
	Worst     float64   `mapstructure:"worst" yaml:"worst"`
}

// Validate checks that the bands are ordered away from the threshold.
func (r Rule) Validate() error {
	bands := []float64{r.Threshold, r.Medium, r.High, r.Critical}
	switch r.Direction {
	case Upper:
		if !slices.IsSorted(bands) {
			return fmt.Errorf("upper rule bands must satisfy threshold <= medium <= high <= critical, got %v", bands)
		}
		if r.Worst <= r.Threshold {
			return fmt.Errorf("upper rule worst (%g) must exceed threshold (%g)", r.Worst, r.Threshold)
		}
	case Lower:
		slices.Reverse(bands)
		if !slices.IsSorted(bands) {
			slices.Reverse(bands)
			return fmt.Errorf("lower rule bands must satisfy threshold >= medium >= high >= critical, got %v", bands)
		}
		if r.Worst >= r.Threshold {
			return fmt.Errorf("lower rule worst (%g) must be below threshold (%g)", r.Worst, r.Threshold)
		}
	default:
		return fmt.Errorf("invalid direction %q: must be lower or upper", r.Direction)
	}
	for _, v := range []float64{r.Threshold, r.Medium, r.High, r.Critical, r.Worst} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("rule bounds must be finite")
		}
	}
	return nil
}

// Violates reports whether v fails the rule. passAtBoundary makes a value
// equal to the threshold pass.
func (r Rule) Violates(v float64, passAtBoundary bool) bool {
	d := v - r.Threshold
	if r.Direction == Lower {
		d = -d
	}
	if passAtBoundary {
		return d > tolerance
	}
	return d > -tolerance
}

// Severity buckets a violating value. Values that violate but have not
// crossed the medium boundary are low.
func (r Rule) Severity(v float64) models.Severity {
	past := func(bound float64) bool {
		if r.Direction == Lower {
			return v < bound-tolerance
		}
		return v > bound+tolerance
	}
	switch {
	case past(r.Critical):
		return models.SeverityCritical
	case past(r.High):
		return models.SeverityHigh
	case past(r.Medium):
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// Penalty maps v onto [0, 1]: 0 at or inside the threshold, 1 at or past Worst.
func (r Rule) Penalty(v float64) float64 {
	p := (v - r.Threshold) / (r.Worst - r.Threshold)
	return math.Min(1, math.Max(0, p))
}

func upperRule(threshold, medium, high, critical float64) Rule {
	return Rule{Direction: Upper, Threshold: threshold, Medium: medium, High: high, Critical: critical, Worst: 1}
}

var defaultRules = map[string]Rule{
	models.MetricDisparateImpact: {Direction: Lower, Threshold: 0.8, Medium: 0.8, High: 0.7, Critical: 0.5, Worst: 0},

	models.MetricDemographicParityDifference: upperRule(0.1, 0.1, 0.2, 0.3),
	models.MetricEqualOpportunityDifference:  upperRule(0.1, 0.1, 0.2, 0.3),
	models.MetricAverageOddsDifference:       upperRule(0.1, 0.1, 0.2, 0.3),
	models.MetricPredictiveParityDifference:  upperRule(0.1, 0.1, 0.2, 0.3),
	models.MetricFalsePositiveRateDifference: upperRule(0.1, 0.1, 0.2, 0.3),
	models.MetricFalseNegativeRateDifference: upperRule(0.1, 0.1, 0.2, 0.3),

	models.MetricTheilIndex: upperRule(0.05, 0.1, 0.2, 0.3),
}

// Thresholds is an immutable set of per-metric rules. The zero value is
// equivalent to DefaultThresholds. Modifiers return a new value and never
// touch the receiver.
type Thresholds struct {
	rules          map[string]Rule
	strictBoundary bool
}

// DefaultThresholds returns the four-fifths rule for disparate impact, 0.1
// for the difference metrics and 0.05 for the Theil index, with boundary
// values passing.
func DefaultThresholds() Thresholds {
	return Thresholds{rules: maps.Clone(defaultRules)}
}

// NewThresholds overlays rules onto the defaults.
func NewThresholds(rules map[string]Rule, passAtBoundary bool) (Thresholds, error) {
	t := DefaultThresholds().WithPassAtBoundary(passAtBoundary)
	for _, name := range slices.Sorted(maps.Keys(rules)) {
		var err error
		if t, err = t.WithRule(name, rules[name]); err != nil {
			return Thresholds{}, err
		}
	}
	return t, nil
}

func (t Thresholds) table() map[string]Rule {
	if t.rules == nil {
		return defaultRules
	}
	return t.rules
}

// WithRule returns a copy with the rule for metric replaced.
func (t Thresholds) WithRule(metric string, r Rule) (Thresholds, error) {
	if strings.TrimSpace(metric) == "" {
		return Thresholds{}, fmt.Errorf("threshold rule needs a metric name")
	}
	if err := r.Validate(); err != nil {
		return Thresholds{}, fmt.Errorf("threshold for %s: %w", metric, err)
	}
	out := Thresholds{rules: maps.Clone(t.table()), strictBoundary: t.strictBoundary}
	out.rules[metric] = r
	return out, nil
}

// WithPassAtBoundary returns a copy with the boundary convention set.
func (t Thresholds) WithPassAtBoundary(pass bool) Thresholds {
	return Thresholds{rules: t.rules, strictBoundary: !pass}
}

// Rule returns the rule for metric. Metrics without a rule are informational.
func (t Thresholds) Rule(metric string) (Rule, bool) {
	r, ok := t.table()[metric]
	return r, ok
}

// PassAtBoundary reports whether a value exactly on the threshold passes.
func (t Thresholds) PassAtBoundary() bool {
	return !t.strictBoundary
}

// Metrics lists the metrics that have a rule, sorted.
func (t Thresholds) Metrics() []string {
	return slices.Sorted(maps.Keys(t.table()))
}

// Classify returns the severity of v for metric and whether it violates.
func (t Thresholds) Classify(metric string, v float64) (models.Severity, bool) {
	r, ok := t.Rule(metric)
	if !ok || !r.Violates(v, t.PassAtBoundary()) {
		return "", false
	}
	return r.Severity(v), true
}
