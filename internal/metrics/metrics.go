package metrics

import (
	"log/slog"
	"math"
	"sort"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
)

// Result holds everything the calculator derives from one partition.
type Result struct {
	TotalCount int
	// Groups holds statistics for the non-empty groups, sorted by label.
	Groups []models.GroupStatistics
	// Metrics lists the computed metrics in canonical order. Ground-truth
	// metrics are absent (not zero) when GroundTruthMetrics is false.
	Metrics []models.MetricResult
	// DisparateImpactPairs covers every unordered group pair, lowest ratio first.
	DisparateImpactPairs []models.PairRatio
	GroundTruthMetrics   bool
}

// Calculate computes per-group statistics and the full metric battery for p.
// Empty groups are excluded; fewer than two remaining groups is an error.
func Calculate(p Partition) (*Result, error) {
	stats := ComputeGroupStatistics(p)
	if len(stats) < 2 {
		return nil, &models.InsufficientGroupsError{Groups: p.NonEmpty()}
	}

	res := &Result{
		TotalCount: p.Size(),
		Groups:     stats,
	}

	res.DisparateImpactPairs = DisparateImpactPairs(stats)
	res.Metrics = append(res.Metrics,
		DemographicParityDifference(stats),
		DemographicParityRatio(stats),
		DisparateImpact(stats),
		TheilIndex(stats),
	)

	res.GroundTruthMetrics = groundTruthReady(stats)
	if res.GroundTruthMetrics {
		res.Metrics = append(res.Metrics,
			EqualOpportunityDifference(stats),
			AverageOddsDifference(stats),
			PredictiveParityDifference(stats),
			FalsePositiveRateDifference(stats),
			FalseNegativeRateDifference(stats),
		)
	} else {
		slog.Debug("ground-truth metrics omitted", "groups", len(stats))
	}

	return res, nil
}

// Metric looks up a computed metric by name.
func (r *Result) Metric(name string) (models.MetricResult, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return models.MetricResult{}, false
}

// FairnessMetrics renders the metrics as the report's fairness_metrics map:
// every metric by name, plus the binding disparate impact pair and all pair
// ratios as a nested map.
func (r *Result) FairnessMetrics() map[string]any {
	out := make(map[string]any, len(r.Metrics)+2)
	for _, m := range r.Metrics {
		out[m.Name] = m.Value
	}
	if di, ok := r.Metric(models.MetricDisparateImpact); ok && di.GroupPair != "" {
		out[models.KeyDisparateImpactPair] = di.GroupPair
	}
	pairs := make(map[string]float64, len(r.DisparateImpactPairs))
	for _, p := range r.DisparateImpactPairs {
		pairs[p.Label()] = p.Ratio
	}
	out[models.KeyDisparateImpactPairs] = pairs
	return out
}

// GroupStatisticsMap keys the group statistics by label.
func (r *Result) GroupStatisticsMap() map[string]models.GroupStatistics {
	out := make(map[string]models.GroupStatistics, len(r.Groups))
	for _, gs := range r.Groups {
		out[gs.Group] = gs
	}
	return out
}

// sortedStats returns a copy of stats ordered by group label.
func sortedStats(stats []models.GroupStatistics) []models.GroupStatistics {
	out := make([]models.GroupStatistics, len(stats))
	copy(out, stats)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

func difference(name string, values []labelled) models.MetricResult {
	lo, hi := extremes(values)
	m := models.MetricResult{Name: name, Value: hi.value - lo.value}
	if len(values) >= 2 {
		m.AffectedGroups = []string{lo.group, hi.group}
	}
	return m
}

// DemographicParityDifference is max(selection_rate) - min(selection_rate).
func DemographicParityDifference(stats []models.GroupStatistics) models.MetricResult {
	return difference(models.MetricDemographicParityDifference, selectionRates(sortedStats(stats)))
}

// DemographicParityRatio is min(selection_rate) / max(selection_rate), 0 when
// no group is selected at all.
func DemographicParityRatio(stats []models.GroupStatistics) models.MetricResult {
	lo, hi := extremes(selectionRates(sortedStats(stats)))
	m := models.MetricResult{Name: models.MetricDemographicParityRatio, Value: ratio(lo.value, hi.value)}
	if len(stats) >= 2 {
		m.AffectedGroups = []string{lo.group, hi.group}
	}
	return m
}

// DisparateImpactPairs enumerates every unordered group pair as
// rate(low)/rate(high), where low is the group with the lower selection rate
// (the lexically first group when rates are equal). A pair whose higher rate
// is 0 has ratio 0. The result is ordered by ratio, then by pair label.
func DisparateImpactPairs(stats []models.GroupStatistics) []models.PairRatio {
	s := sortedStats(stats)
	pairs := make([]models.PairRatio, 0, len(s)*(len(s)-1)/2)
	for i := 0; i < len(s); i++ {
		for j := i + 1; j < len(s); j++ {
			low, high := s[i], s[j]
			if high.SelectionRate < low.SelectionRate {
				low, high = high, low
			}
			pairs = append(pairs, models.PairRatio{
				Low:   low.Group,
				High:  high.Group,
				Ratio: ratio(low.SelectionRate, high.SelectionRate),
			})
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		if pairs[a].Ratio != pairs[b].Ratio {
			return pairs[a].Ratio < pairs[b].Ratio
		}
		return pairs[a].Label() < pairs[b].Label()
	})
	return pairs
}

// DisparateImpact reports the binding pair: the one with the lowest ratio.
func DisparateImpact(stats []models.GroupStatistics) models.MetricResult {
	pairs := DisparateImpactPairs(stats)
	if len(pairs) == 0 {
		return models.MetricResult{Name: models.MetricDisparateImpact}
	}
	p := pairs[0]
	return models.MetricResult{
		Name:           models.MetricDisparateImpact,
		Value:          p.Ratio,
		GroupPair:      p.Label(),
		AffectedGroups: []string{p.Low, p.High},
	}
}

// TheilIndex is the between-group component of the Theil (GE(1)) index of
// individual selection indicators: each individual is credited with their
// group's selection rate and compared to the overall rate. 0 means every
// group is selected at the overall rate; 0 is also returned when nobody is
// selected.
func TheilIndex(stats []models.GroupStatistics) models.MetricResult {
	s := sortedStats(stats)
	m := models.MetricResult{Name: models.MetricTheilIndex}

	var n, selected int
	for _, gs := range s {
		n += gs.Count
		selected += gs.SelectedCount
	}
	mu := ratio(float64(selected), float64(n))
	if mu == 0 {
		return m
	}

	t := 0.0
	for _, gs := range s {
		if gs.Count == 0 || gs.SelectionRate == 0 {
			continue
		}
		rel := gs.SelectionRate / mu
		t += float64(gs.Count) / float64(n) * rel * math.Log(rel)
	}
	m.Value = math.Max(0, t)

	if len(s) >= 2 {
		lo, hi := extremes(selectionRates(s))
		m.AffectedGroups = []string{lo.group, hi.group}
	}
	return m
}

// EqualOpportunityDifference is max(TPR) - min(TPR).
func EqualOpportunityDifference(stats []models.GroupStatistics) models.MetricResult {
	return difference(models.MetricEqualOpportunityDifference, rateOf(sortedStats(stats), tprOf))
}

// AverageOddsDifference is ½(|ΔTPR| + |ΔFPR|) for the pair of groups where
// it is largest. For two groups this is the usual privileged/unprivileged form.
func AverageOddsDifference(stats []models.GroupStatistics) models.MetricResult {
	s := sortedStats(stats)
	m := models.MetricResult{Name: models.MetricAverageOddsDifference}
	found := false
	for i := 0; i < len(s); i++ {
		if !s[i].HasGroundTruthRates() {
			continue
		}
		for j := i + 1; j < len(s); j++ {
			if !s[j].HasGroundTruthRates() {
				continue
			}
			v := 0.5 * (math.Abs(*s[i].TruePositiveRate-*s[j].TruePositiveRate) +
				math.Abs(*s[i].FalsePositiveRate-*s[j].FalsePositiveRate))
			if !found || v > m.Value {
				found = true
				m.Value = v
				m.AffectedGroups = []string{s[i].Group, s[j].Group}
			}
		}
	}
	return m
}

// PredictiveParityDifference is max(precision) - min(precision).
func PredictiveParityDifference(stats []models.GroupStatistics) models.MetricResult {
	return difference(models.MetricPredictiveParityDifference, rateOf(sortedStats(stats), precisionOf))
}

// FalsePositiveRateDifference is max(FPR) - min(FPR).
func FalsePositiveRateDifference(stats []models.GroupStatistics) models.MetricResult {
	return difference(models.MetricFalsePositiveRateDifference, rateOf(sortedStats(stats), fprOf))
}

// FalseNegativeRateDifference is max(FNR) - min(FNR).
func FalseNegativeRateDifference(stats []models.GroupStatistics) models.MetricResult {
	return difference(models.MetricFalseNegativeRateDifference, rateOf(sortedStats(stats), fnrOf))
}
