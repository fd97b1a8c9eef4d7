// Package baseline compares a fairness report against an earlier one for the
// same decision process.
package baseline

import (
	"cmp"
	"maps"
	"math"
	"slices"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/scoring"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/statistics"
)

// Change describes how a metric moved between two reports.
type Change string

const (
	ChangeImproved  Change = "improved"
	ChangeRegressed Change = "regressed"
	ChangeUnchanged Change = "unchanged"
	ChangeAdded     Change = "added"
	ChangeRemoved   Change = "removed"
	// ChangeUnrated marks a metric without a threshold rule, so no direction is defined.
	ChangeUnrated Change = "unrated"
)

// MetricDelta is the movement of one scalar fairness metric.
type MetricDelta struct {
	Metric string   `json:"metric"`
	Before *float64 `json:"before,omitempty"`
	After  *float64 `json:"after,omitempty"`
	Delta  float64  `json:"delta"`
	Change Change   `json:"change"`
}

// Comparison is the difference between a baseline report and a current one.
// Positive ScoreDelta and NormalizedGain mean the current report is fairer.
type Comparison struct {
	ScoreBefore    float64 `json:"score_before"`
	ScoreAfter     float64 `json:"score_after"`
	ScoreDelta     float64 `json:"score_delta"`
	BadgeBefore    string  `json:"badge_before"`
	BadgeAfter     string  `json:"badge_after"`
	NormalizedGain float64 `json:"normalized_gain"`

	Metrics []MetricDelta `json:"metrics"`

	NewViolations        []models.Violation `json:"new_violations"`
	ResolvedViolations   []models.Violation `json:"resolved_violations"`
	PersistingViolations []models.Violation `json:"persisting_violations"`
}

// Regressed reports whether the current report is less fair than the baseline.
func (c *Comparison) Regressed() bool {
	return c.ScoreDelta < 0 || len(c.NewViolations) > 0
}

// Compare diffs before against after. th supplies the direction of each
// metric so deltas can be labelled as improvements or regressions.
func Compare(before, after *models.FairnessReport, th scoring.Thresholds) *Comparison {
	c := &Comparison{
		ScoreBefore:    before.Summary.FairnessScore,
		ScoreAfter:     after.Summary.FairnessScore,
		ScoreDelta:     round4(after.Summary.FairnessScore - before.Summary.FairnessScore),
		BadgeBefore:    before.Summary.Badge,
		BadgeAfter:     after.Summary.Badge,
		NormalizedGain: round4(statistics.NormalizedGain(before.Summary.FairnessScore/100, after.Summary.FairnessScore/100)),
	}

	c.Metrics = compareMetrics(before, after, th)
	c.NewViolations, c.ResolvedViolations, c.PersistingViolations = diffViolations(
		before.BiasAnalysis.Violations, after.BiasAnalysis.Violations)
	return c
}

func compareMetrics(before, after *models.FairnessReport, th scoring.Thresholds) []MetricDelta {
	names := map[string]bool{}
	for _, r := range []*models.FairnessReport{before, after} {
		for name := range r.FairnessMetrics {
			if _, ok := r.MetricValue(name); ok {
				names[name] = true
			}
		}
	}

	out := make([]MetricDelta, 0, len(names))
	for _, name := range slices.Sorted(maps.Keys(names)) {
		d := MetricDelta{Metric: name}
		b, okB := before.MetricValue(name)
		a, okA := after.MetricValue(name)
		if okB {
			d.Before = &b
		}
		if okA {
			d.After = &a
		}

		switch {
		case !okB:
			d.Change = ChangeAdded
		case !okA:
			d.Change = ChangeRemoved
		default:
			d.Delta = round4(a - b)
			d.Change = direction(th, name, b, a)
		}
		out = append(out, d)
	}
	return out
}

func direction(th scoring.Thresholds, metric string, before, after float64) Change {
	rule, ok := th.Rule(metric)
	if !ok {
		return ChangeUnrated
	}
	if math.Abs(after-before) < 1e-9 {
		return ChangeUnchanged
	}
	better := after < before
	if rule.Direction == scoring.Lower {
		better = after > before
	}
	if better {
		return ChangeImproved
	}
	return ChangeRegressed
}

type violationKey struct {
	metric, comparison string
}

func diffViolations(before, after []models.Violation) (added, resolved, persisting []models.Violation) {
	prev := make(map[violationKey]bool, len(before))
	for _, v := range before {
		prev[violationKey{v.Metric, v.Comparison}] = true
	}
	curr := make(map[violationKey]bool, len(after))
	for _, v := range after {
		curr[violationKey{v.Metric, v.Comparison}] = true
	}

	added, resolved, persisting = []models.Violation{}, []models.Violation{}, []models.Violation{}
	for _, v := range after {
		if prev[violationKey{v.Metric, v.Comparison}] {
			persisting = append(persisting, v)
		} else {
			added = append(added, v)
		}
	}
	for _, v := range before {
		if !curr[violationKey{v.Metric, v.Comparison}] {
			resolved = append(resolved, v)
		}
	}

	scoring.SortViolations(added)
	scoring.SortViolations(resolved)
	scoring.SortViolations(persisting)
	return added, resolved, persisting
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// SortByChange orders deltas with regressions first, then by metric name.
func SortByChange(ds []MetricDelta) {
	rank := map[Change]int{ChangeRegressed: 0, ChangeRemoved: 1, ChangeAdded: 2, ChangeImproved: 3, ChangeUnchanged: 4, ChangeUnrated: 5}
	slices.SortStableFunc(ds, func(a, b MetricDelta) int {
		if c := cmp.Compare(rank[a.Change], rank[b.Change]); c != 0 {
			return c
		}
		return cmp.Compare(a.Metric, b.Metric)
	})
}
