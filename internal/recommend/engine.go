// Package recommend turns fairness violations into remediation advice.
package recommend

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/scoring"
)

// Guidance is the human-facing description of one metric.
type Guidance struct {
	// Title is the display name of the metric.
	Title string
	// Remediation is the suggested next step when the metric fails.
	Remediation string
}

var defaultGuidance = map[string]Guidance{
	models.MetricDemographicParityDifference: {
		Title:       "Demographic parity difference",
		Remediation: "Audit the screening criteria that drive selection and check whether any of them act as a proxy for group membership.",
	},
	models.MetricDisparateImpact: {
		Title:       "Disparate impact",
		Remediation: "The selection ratio falls below the four-fifths rule; review the job-related validity of each stage that filters this group out.",
	},
	models.MetricEqualOpportunityDifference: {
		Title:       "Equal opportunity difference",
		Remediation: "Qualified candidates are selected at different rates; check whether the assessment under-scores qualified candidates in the disadvantaged group.",
	},
	models.MetricAverageOddsDifference: {
		Title:       "Average odds difference",
		Remediation: "Both true and false positive rates diverge; recalibrate decision thresholds per stage and validate them against outcome data.",
	},
	models.MetricPredictiveParityDifference: {
		Title:       "Predictive parity difference",
		Remediation: "A selection means something different per group; validate that selected candidates succeed at comparable rates across groups.",
	},
	models.MetricFalsePositiveRateDifference: {
		Title:       "False positive rate difference",
		Remediation: "Unqualified candidates advance more often in some groups; tighten the criteria that let them through.",
	},
	models.MetricFalseNegativeRateDifference: {
		Title:       "False negative rate difference",
		Remediation: "Qualified candidates are rejected more often in some groups; review rejection reasons for this group.",
	},
	models.MetricTheilIndex: {
		Title:       "Theil index",
		Remediation: "Selection outcomes are unevenly spread across groups; compare the pipeline stage by stage to locate where the gap opens.",
	},
}

// Engine renders one recommendation per violation.
type Engine struct {
	guidance map[string]Guidance
}

// NewEngine creates a recommendation engine with the built-in guidance.
func NewEngine() *Engine {
	return &Engine{guidance: maps.Clone(defaultGuidance)}
}

// Guidance returns the guidance registered for metric.
func (e *Engine) Guidance(metric string) (Guidance, bool) {
	g, ok := e.guidance[metric]
	return g, ok
}

// WithGuidance returns a copy of the engine with the guidance for metric replaced.
func (e *Engine) WithGuidance(metric string, g Guidance) *Engine {
	next := &Engine{guidance: maps.Clone(e.guidance)}
	next.guidance[metric] = g
	return next
}

// Recommend returns one sentence per violation ordered by severity (worst
// first), then metric, then comparison. The result is empty, never nil,
// when there are no violations.
func (e *Engine) Recommend(violations []models.Violation) []string {
	ordered := slices.Clone(violations)
	scoring.SortViolations(ordered)

	out := make([]string, 0, len(ordered))
	for _, v := range ordered {
		out = append(out, e.sentence(v))
	}
	return out
}

func (e *Engine) sentence(v models.Violation) string {
	g, ok := e.guidance[v.Metric]
	if !ok {
		g = Guidance{
			Title:       strings.ReplaceAll(v.Metric, "_", " "),
			Remediation: "Investigate the decision stages that affect the listed groups.",
		}
	}

	scope := "across groups"
	switch {
	case v.Comparison != "" && v.Comparison != models.ComparisonAggregate:
		scope = "for " + v.Comparison
	case len(v.AffectedGroups) > 0:
		scope = "between " + strings.Join(v.AffectedGroups, " and ")
	}

	return fmt.Sprintf("[%s] %s %s is %.3f (threshold %.3f). %s",
		strings.ToUpper(v.Severity.String()), g.Title, scope, v.Value, v.Threshold, g.Remediation)
}
