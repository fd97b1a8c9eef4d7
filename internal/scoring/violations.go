package scoring

import (
	"cmp"
	"slices"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/metrics"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
)

// Detect flags every metric in res that fails its rule. Disparate impact
// yields one violation per offending group pair; every other metric yields
// at most one aggregate violation. The result is never nil and is ordered by
// severity (worst first), then metric, then comparison.
func Detect(res *metrics.Result, th Thresholds) []models.Violation {
	out := make([]models.Violation, 0)
	if res == nil {
		return out
	}

	for _, m := range res.Metrics {
		rule, ok := th.Rule(m.Name)
		if !ok {
			continue
		}

		if m.Name == models.MetricDisparateImpact {
			for _, p := range res.DisparateImpactPairs {
				sev, bad := th.Classify(m.Name, p.Ratio)
				if !bad {
					continue
				}
				out = append(out, models.Violation{
					Metric:         m.Name,
					Comparison:     p.Label(),
					Value:          p.Ratio,
					Threshold:      rule.Threshold,
					Severity:       sev,
					AffectedGroups: []string{p.Low, p.High},
				})
			}
			continue
		}

		sev, bad := th.Classify(m.Name, m.Value)
		if !bad {
			continue
		}
		affected := slices.Clone(m.AffectedGroups)
		if affected == nil {
			affected = []string{}
		}
		out = append(out, models.Violation{
			Metric:         m.Name,
			Comparison:     models.ComparisonAggregate,
			Value:          m.Value,
			Threshold:      rule.Threshold,
			Severity:       sev,
			AffectedGroups: affected,
		})
	}

	SortViolations(out)
	return out
}

// SortViolations orders violations by severity (worst first), then metric,
// then comparison.
func SortViolations(vs []models.Violation) {
	slices.SortStableFunc(vs, func(a, b models.Violation) int {
		if c := cmp.Compare(b.Severity.Rank(), a.Severity.Rank()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Metric, b.Metric); c != 0 {
			return c
		}
		return cmp.Compare(a.Comparison, b.Comparison)
	})
}

// CountBySeverity returns a count for every severity, including zeros.
func CountBySeverity(vs []models.Violation) map[models.Severity]int {
	counts := make(map[models.Severity]int, len(models.Severities))
	for _, s := range models.Severities {
		counts[s] = 0
	}
	for _, v := range vs {
		counts[v.Severity]++
	}
	return counts
}
