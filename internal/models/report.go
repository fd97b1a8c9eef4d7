package models

// Metric names used as keys in fairness_metrics, threshold tables and violations.
const (
	MetricDemographicParityDifference = "demographic_parity_difference"
	MetricDemographicParityRatio      = "demographic_parity_ratio"
	MetricDisparateImpact             = "disparate_impact"
	MetricTheilIndex                  = "theil_index"
	MetricEqualOpportunityDifference  = "equal_opportunity_difference"
	MetricAverageOddsDifference       = "average_odds_difference"
	MetricPredictiveParityDifference  = "predictive_parity_difference"
	MetricFalsePositiveRateDifference = "false_positive_rate_difference"
	MetricFalseNegativeRateDifference = "false_negative_rate_difference"
)

// Auxiliary fairness_metrics keys carrying pairwise disparate impact detail.
const (
	KeyDisparateImpactPair  = "disparate_impact_pair"
	KeyDisparateImpactPairs = "disparate_impact_pairs"
)

// ComparisonAggregate marks a violation on a dataset-level scalar metric.
const ComparisonAggregate = "aggregate"

// DecisionRecord is one candidate row. Decision is already resolved against
// the favorable label; GroundTruth is nil when the row is unlabelled.
type DecisionRecord struct {
	Group       string `json:"group_label"`
	Decision    bool   `json:"decision"`
	GroundTruth *bool  `json:"ground_truth,omitempty"`
}

// GroupStatistics holds the derived rates for one protected group.
// Ground-truth rates are nil unless the group has at least one qualified
// and one unqualified labelled record.
type GroupStatistics struct {
	Group             string   `json:"-"`
	Count             int      `json:"count"`
	SelectedCount     int      `json:"selected_count"`
	SelectionRate     float64  `json:"selection_rate"`
	TruePositiveRate  *float64 `json:"true_positive_rate,omitempty"`
	FalsePositiveRate *float64 `json:"false_positive_rate,omitempty"`
	FalseNegativeRate *float64 `json:"false_negative_rate,omitempty"`
	Precision         *float64 `json:"precision,omitempty"`
}

// HasGroundTruthRates reports whether the confusion-matrix rates are populated.
func (g GroupStatistics) HasGroundTruthRates() bool {
	return g.TruePositiveRate != nil && g.FalsePositiveRate != nil &&
		g.FalseNegativeRate != nil && g.Precision != nil
}

// MetricResult is a single computed fairness metric. GroupPair names the
// binding pair ("low vs high") for pairwise metrics and is empty otherwise.
// AffectedGroups lists the groups that determine the value (the extremes).
type MetricResult struct {
	Name           string   `json:"name"`
	Value          float64  `json:"value"`
	GroupPair      string   `json:"group_pair,omitempty"`
	AffectedGroups []string `json:"affected_groups,omitempty"`
}

// PairRatio is the selection-rate ratio for one unordered group pair, with
// Low the group whose rate is the numerator.
type PairRatio struct {
	Low   string  `json:"low"`
	High  string  `json:"high"`
	Ratio float64 `json:"ratio"`
}

// Label renders the pair the way it appears in reports.
func (p PairRatio) Label() string {
	return p.Low + " vs " + p.High
}

// Violation is a metric that failed its threshold.
type Violation struct {
	Metric         string   `json:"metric"`
	Comparison     string   `json:"comparison"`
	Value          float64  `json:"value"`
	Threshold      float64  `json:"threshold"`
	Severity       Severity `json:"severity"`
	AffectedGroups []string `json:"affected_groups"`
}

// ReportSummary is the headline block of a FairnessReport.
type ReportSummary struct {
	TotalCount         int      `json:"total_count"`
	BiasDetected       bool     `json:"bias_detected"`
	FairnessScore      float64  `json:"fairness_score"`
	Badge              string   `json:"badge"`
	Groups             []string `json:"groups"`
	GroundTruthMetrics bool     `json:"ground_truth_metrics"`
}

// BiasAnalysis lists every violation and the count per severity.
type BiasAnalysis struct {
	Violations      []Violation      `json:"violations"`
	SeverityCounts  map[Severity]int `json:"severity_counts"`
	TotalViolations int              `json:"total_violations"`
}

// FairnessReport is the assembled output of one analysis. It has no identity
// or persistence of its own; callers store it if they need to.
type FairnessReport struct {
	Summary         ReportSummary              `json:"summary"`
	GroupStatistics map[string]GroupStatistics `json:"group_statistics"`
	FairnessMetrics map[string]any             `json:"fairness_metrics"`
	BiasAnalysis    BiasAnalysis               `json:"bias_analysis"`
	Recommendations []string                   `json:"recommendations"`
}

// MaxSeverity returns the worst severity among the report's violations, or
// "" when there are none.
func (r *FairnessReport) MaxSeverity() Severity {
	var worst Severity
	for _, v := range r.BiasAnalysis.Violations {
		if v.Severity.Rank() > worst.Rank() {
			worst = v.Severity
		}
	}
	return worst
}

// MetricValue returns a numeric fairness metric and whether it was computed.
func (r *FairnessReport) MetricValue(name string) (float64, bool) {
	v, ok := r.FairnessMetrics[name]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}
