package scoring

import (
	"math"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/metrics"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
)

// Category groups related metrics for weighting.
type Category string

const (
	CategoryDemographicParity Category = "demographic_parity"
	CategoryDisparateImpact   Category = "disparate_impact"
	CategoryEqualOpportunity  Category = "equal_opportunity"
	CategoryAverageOdds       Category = "average_odds"
	CategoryOther             Category = "other"
)

// Categories lists every category in weighting order.
var Categories = []Category{
	CategoryDemographicParity,
	CategoryDisparateImpact,
	CategoryEqualOpportunity,
	CategoryAverageOdds,
	CategoryOther,
}

var categoryWeights = map[Category]float64{
	CategoryDemographicParity: 0.25,
	CategoryDisparateImpact:   0.30,
	CategoryEqualOpportunity:  0.20,
	CategoryAverageOdds:       0.15,
	CategoryOther:             0.10,
}

var metricCategory = map[string]Category{
	models.MetricDemographicParityDifference: CategoryDemographicParity,
	models.MetricDisparateImpact:             CategoryDisparateImpact,
	models.MetricEqualOpportunityDifference:  CategoryEqualOpportunity,
	models.MetricAverageOddsDifference:       CategoryAverageOdds,
	models.MetricPredictiveParityDifference:  CategoryOther,
	models.MetricFalsePositiveRateDifference: CategoryOther,
	models.MetricFalseNegativeRateDifference: CategoryOther,
	models.MetricTheilIndex:                  CategoryOther,
}

// Weight returns the fixed weight of c.
func (c Category) Weight() float64 {
	return categoryWeights[c]
}

// CategoryOf returns the category a metric is weighted under.
func CategoryOf(metric string) (Category, bool) {
	c, ok := metricCategory[metric]
	return c, ok
}

// Badge is the letter grade derived from the fairness score.
type Badge string

const (
	BadgeAPlus Badge = "A+"
	BadgeA     Badge = "A"
	BadgeB     Badge = "B"
	BadgeC     Badge = "C"
	BadgeD     Badge = "D"
	BadgeF     Badge = "F"
)

func (b Badge) String() string {
	return string(b)
}

// BadgeFor maps a 0-100 score to its letter grade.
func BadgeFor(score float64) Badge {
	switch {
	case score >= 90:
		return BadgeAPlus
	case score >= 80:
		return BadgeA
	case score >= 70:
		return BadgeB
	case score >= 60:
		return BadgeC
	case score >= 50:
		return BadgeD
	default:
		return BadgeF
	}
}

// ScoreResult is the aggregated score with the penalty of each category
// that contributed to it.
type ScoreResult struct {
	Score     float64
	Badge     Badge
	Penalties map[Category]float64
}

// Aggregate combines the metrics in res into a 0-100 fairness score. A
// category takes the largest penalty among its metrics, and the weights are
// normalised over the categories actually computed.
func Aggregate(res *metrics.Result, th Thresholds) ScoreResult {
	out := ScoreResult{Penalties: make(map[Category]float64)}
	if res != nil {
		for _, m := range res.Metrics {
			cat, ok := CategoryOf(m.Name)
			if !ok {
				continue
			}
			rule, ok := th.Rule(m.Name)
			if !ok {
				continue
			}
			p := rule.Penalty(m.Value)
			if cur, seen := out.Penalties[cat]; !seen || p > cur {
				out.Penalties[cat] = p
			}
		}
	}

	var weighted, total float64
	for _, cat := range Categories {
		p, ok := out.Penalties[cat]
		if !ok {
			continue
		}
		weighted += cat.Weight() * p
		total += cat.Weight()
	}

	penalty := 0.0
	if total > 0 {
		penalty = weighted / total
	}
	out.Score = round2(100 * (1 - penalty))
	out.Badge = BadgeFor(out.Score)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
