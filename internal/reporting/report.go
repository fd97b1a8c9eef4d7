// Package reporting assembles fairness reports and renders them for people
// and CI systems.
package reporting

import (
	"log/slog"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/dataset"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/metrics"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/recommend"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/scoring"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/validation"
)

// Options controls one analysis. The zero value analyses the default columns
// with "1" as the favorable label under the default thresholds.
type Options struct {
	Columns        validation.ColumnSpec
	FavorableLabel string
	// DeclaredGroups are tracked even when no row carries them. Groups that
	// stay empty are reported in no statistic.
	DeclaredGroups []string
	Thresholds     scoring.Thresholds
	// Recommender renders the recommendations; nil uses the built-in guidance.
	Recommender    *recommend.Engine
}

// Analysis is a report together with the intermediate values it was built from.
type Analysis struct {
	Report    *models.FairnessReport
	Partition metrics.Partition
	Result    *metrics.Result
}

// Generate validates t and produces its fairness report.
func Generate(t dataset.Table, opts Options) (*models.FairnessReport, error) {
	a, err := Analyze(t, opts)
	if err != nil {
		return nil, err
	}
	return a.Report, nil
}

// GenerateFromRecords produces a report for already typed records.
func GenerateFromRecords(records []models.DecisionRecord, opts Options) (*models.FairnessReport, error) {
	a, err := AnalyzeRecords(records, opts)
	if err != nil {
		return nil, err
	}
	return a.Report, nil
}

// Analyze is Generate, keeping the partition and metric result for callers
// that need more than the report.
func Analyze(t dataset.Table, opts Options) (*Analysis, error) {
	vt, err := validation.ValidateTable(t, validation.TableOptions{
		Columns:        opts.Columns,
		FavorableLabel: opts.FavorableLabel,
	})
	if err != nil {
		return nil, err
	}
	return assemble(vt, opts)
}

// AnalyzeRecords is GenerateFromRecords, keeping the intermediate values.
func AnalyzeRecords(records []models.DecisionRecord, opts Options) (*Analysis, error) {
	vt, err := validation.ValidateRecords(records)
	if err != nil {
		return nil, err
	}
	return assemble(vt, opts)
}

func assemble(vt *validation.ValidatedTable, opts Options) (*Analysis, error) {
	p := metrics.PartitionRecords(vt.Records, opts.DeclaredGroups...)
	res, err := metrics.Calculate(p)
	if err != nil {
		return nil, err
	}

	violations := scoring.Detect(res, opts.Thresholds)
	score := scoring.Aggregate(res, opts.Thresholds)
	rec := opts.Recommender
	if rec == nil {
		rec = recommend.NewEngine()
	}
	recs := rec.Recommend(violations)

	groups := make([]string, 0, len(res.Groups))
	for _, gs := range res.Groups {
		groups = append(groups, gs.Group)
	}

	report := &models.FairnessReport{
		Summary: models.ReportSummary{
			TotalCount:         res.TotalCount,
			BiasDetected:       len(violations) > 0,
			FairnessScore:      score.Score,
			Badge:              score.Badge.String(),
			Groups:             groups,
			GroundTruthMetrics: res.GroundTruthMetrics,
		},
		GroupStatistics: res.GroupStatisticsMap(),
		FairnessMetrics: res.FairnessMetrics(),
		BiasAnalysis: models.BiasAnalysis{
			Violations:      violations,
			SeverityCounts:  scoring.CountBySeverity(violations),
			TotalViolations: len(violations),
		},
		Recommendations: recs,
	}

	slog.Debug("fairness report assembled",
		"records", res.TotalCount,
		"groups", len(groups),
		"ground_truth", res.GroundTruthMetrics,
		"violations", len(violations),
		"score", score.Score,
	)

	return &Analysis{Report: report, Partition: p, Result: res}, nil
}
