package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/metrics"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
)

// groups builds a result from group → (size, selected) pairs.
func groups(t *testing.T, counts map[string][2]int) *metrics.Result {
	t.Helper()
	var records []models.DecisionRecord
	for g, s := range counts {
		for i := 0; i < s[0]; i++ {
			records = append(records, models.DecisionRecord{Group: g, Decision: i < s[1]})
		}
	}
	res, err := metrics.Calculate(metrics.PartitionRecords(records))
	require.NoError(t, err)
	return res
}

func TestDetect_PerfectFairness(t *testing.T) {
	res := groups(t, map[string][2]int{"female": {50, 25}, "male": {50, 25}})
	vs := Detect(res, DefaultThresholds())
	require.NotNil(t, vs)
	assert.Empty(t, vs)
}

func TestDetect_MaximalBias(t *testing.T) {
	res := groups(t, map[string][2]int{"a": {40, 40}, "b": {40, 0}})
	vs := Detect(res, DefaultThresholds())

	require.Len(t, vs, 3)
	for _, v := range vs {
		assert.Equal(t, models.SeverityCritical, v.Severity, v.Metric)
	}
	assert.Equal(t, models.MetricDemographicParityDifference, vs[0].Metric)
	assert.Equal(t, models.ComparisonAggregate, vs[0].Comparison)
	assert.Equal(t, models.MetricDisparateImpact, vs[1].Metric)
	assert.Equal(t, "b vs a", vs[1].Comparison)
	assert.Equal(t, []string{"b", "a"}, vs[1].AffectedGroups)
	assert.Equal(t, 0.8, vs[1].Threshold)
	assert.Equal(t, models.MetricTheilIndex, vs[2].Metric)
}

func TestDetect_FourFifthsRule(t *testing.T) {
	res := groups(t, map[string][2]int{"a": {100, 100}, "b": {100, 79}})
	vs := Detect(res, DefaultThresholds())

	require.Len(t, vs, 2)
	assert.Equal(t, models.MetricDemographicParityDifference, vs[0].Metric)
	assert.Equal(t, models.SeverityHigh, vs[0].Severity)
	assert.Equal(t, models.MetricDisparateImpact, vs[1].Metric)
	assert.Equal(t, models.SeverityMedium, vs[1].Severity)
	assert.InDelta(t, 0.79, vs[1].Value, 1e-9)

	res = groups(t, map[string][2]int{"a": {100, 100}, "b": {100, 80}})
	vs = Detect(res, DefaultThresholds())
	for _, v := range vs {
		assert.NotEqual(t, models.MetricDisparateImpact, v.Metric, "0.80 passes the four-fifths rule")
	}
}

func TestDetect_MultiGroupPairs(t *testing.T) {
	res := groups(t, map[string][2]int{"x": {10, 9}, "y": {10, 6}, "z": {10, 3}})
	vs := Detect(res, DefaultThresholds())

	type key struct {
		metric, comparison string
		severity           models.Severity
	}
	var got []key
	for _, v := range vs {
		got = append(got, key{v.Metric, v.Comparison, v.Severity})
	}
	assert.Equal(t, []key{
		{models.MetricDemographicParityDifference, models.ComparisonAggregate, models.SeverityCritical},
		{models.MetricDisparateImpact, "z vs x", models.SeverityCritical},
		{models.MetricDisparateImpact, "y vs x", models.SeverityHigh},
		{models.MetricDisparateImpact, "z vs y", models.SeverityHigh},
		{models.MetricTheilIndex, models.ComparisonAggregate, models.SeverityLow},
	}, got)
}

func TestDetect_Nil(t *testing.T) {
	vs := Detect(nil, DefaultThresholds())
	require.NotNil(t, vs)
	assert.Empty(t, vs)
}

func TestCountBySeverity(t *testing.T) {
	counts := CountBySeverity([]models.Violation{
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityLow},
	})
	assert.Equal(t, map[models.Severity]int{
		models.SeverityCritical: 0,
		models.SeverityHigh:     2,
		models.SeverityMedium:   0,
		models.SeverityLow:      1,
	}, counts)
}
