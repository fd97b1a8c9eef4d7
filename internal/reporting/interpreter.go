package reporting

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/statistics"
)

// fourFifths is the EEOC adverse-impact ratio.
const fourFifths = 0.8

// numberPrinter formats counts with thousands separators.
var numberPrinter = message.NewPrinter(language.English)

// metricOrder is the display order of scalar metrics.
var metricOrder = []string{
	models.MetricDemographicParityDifference,
	models.MetricDemographicParityRatio,
	models.MetricDisparateImpact,
	models.MetricTheilIndex,
	models.MetricEqualOpportunityDifference,
	models.MetricAverageOddsDifference,
	models.MetricPredictiveParityDifference,
	models.MetricFalsePositiveRateDifference,
	models.MetricFalseNegativeRateDifference,
}

// InterpretScore returns a plain-language label for a fairness score (0–100).
func InterpretScore(score float64) string {
	switch {
	case score >= 90:
		return "Excellent (no material disparity)"
	case score >= 70:
		return "Acceptable (minor disparities)"
	case score >= 50:
		return "Needs Attention (clear disparities)"
	default:
		return "Severe (large disparities)"
	}
}

// InterpretDisparateImpact explains a disparate impact ratio against the
// four-fifths rule.
func InterpretDisparateImpact(di, threshold float64) string {
	pct := di * 100
	if di >= threshold {
		return fmt.Sprintf("Passes the four-fifths rule (%.0f%% of the most favoured group's rate)", pct)
	}
	return fmt.Sprintf("Fails the four-fifths rule (%.0f%% of the most favoured group's rate)", pct)
}

// InterpretGap explains a bootstrap estimate of the selection-rate gap.
func InterpretGap(gap statistics.GapEstimate) string {
	verdict := "not statistically significant"
	if gap.Significant {
		verdict = "statistically significant"
	}
	return fmt.Sprintf("%s selected %.1f pts more often than %s (%.0f%% CI %.1f to %.1f pts, %s)",
		gap.HighGroup, gap.Gap*100, gap.LowGroup, gap.ConfidenceLevel*100, gap.Lower*100, gap.Upper*100, verdict)
}

// RenderText produces a plain-language report. gap may be nil.
func RenderText(r *models.FairnessReport, gap *statistics.GapEstimate) string {
	var b strings.Builder

	b.WriteString("=== Fairness Report ===\n\n")

	b.WriteString(numberPrinter.Sprintf("Candidates:     %d across %d groups\n", r.Summary.TotalCount, len(r.Summary.Groups)))
	fmt.Fprintf(&b, "Fairness Score: %.2f (%s) — %s\n", r.Summary.FairnessScore, r.Summary.Badge, InterpretScore(r.Summary.FairnessScore))
	if r.Summary.BiasDetected {
		fmt.Fprintf(&b, "Bias Detected:  yes (%s)\n", severityBreakdown(r.BiasAnalysis))
	} else {
		b.WriteString("Bias Detected:  no\n")
	}
	if di, ok := r.MetricValue(models.MetricDisparateImpact); ok {
		fmt.Fprintf(&b, "Four-Fifths:    %s\n", InterpretDisparateImpact(di, fourFifths))
	}
	if !r.Summary.GroundTruthMetrics {
		b.WriteString("Ground Truth:   not available; outcome-based metrics omitted\n")
	}

	b.WriteString("\nGroup Statistics:\n")
	writeGroupTable(&b, r)

	b.WriteString("\nMetrics:\n")
	for _, name := range metricOrder {
		v, ok := r.MetricValue(name)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %s %.4f\n", padRight(name+":", 32), v)
	}
	if pair, ok := r.FairnessMetrics[models.KeyDisparateImpactPair].(string); ok {
		fmt.Fprintf(&b, "  %s %s\n", padRight("binding pair:", 32), pair)
	}

	if gap != nil {
		b.WriteString("\nSelection Gap:\n")
		fmt.Fprintf(&b, "  %s\n", InterpretGap(*gap))
	}

	if len(r.BiasAnalysis.Violations) > 0 {
		b.WriteString("\nViolations:\n")
		for _, v := range r.BiasAnalysis.Violations {
			fmt.Fprintf(&b, "  ✗ [%s] %s (%s): %.3f vs threshold %.3f\n",
				v.Severity, v.Metric, v.Comparison, v.Value, v.Threshold)
		}
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for i, rec := range r.Recommendations {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, rec)
		}
	}

	return b.String()
}

func severityBreakdown(ba models.BiasAnalysis) string {
	parts := make([]string, 0, len(models.Severities))
	for _, s := range models.Severities {
		parts = append(parts, fmt.Sprintf("%d %s", ba.SeverityCounts[s], s))
	}
	noun := "violations"
	if ba.TotalViolations == 1 {
		noun = "violation"
	}
	return fmt.Sprintf("%d %s: %s", ba.TotalViolations, noun, strings.Join(parts, ", "))
}

func writeGroupTable(b *strings.Builder, r *models.FairnessReport) {
	width := runewidth.StringWidth("Group")
	for _, g := range r.Summary.Groups {
		if w := runewidth.StringWidth(g); w > width {
			width = w
		}
	}

	fmt.Fprintf(b, "  %s  %8s  %8s  %6s", padRight("Group", width), "Count", "Selected", "Rate")
	if r.Summary.GroundTruthMetrics {
		fmt.Fprintf(b, "  %6s  %6s  %6s  %9s", "TPR", "FPR", "FNR", "Precision")
	}
	b.WriteString("\n")

	for _, g := range r.Summary.Groups {
		gs := r.GroupStatistics[g]
		b.WriteString(numberPrinter.Sprintf("  %s  %8d  %8d  %6.3f",
			padRight(g, width), gs.Count, gs.SelectedCount, gs.SelectionRate))
		if r.Summary.GroundTruthMetrics && gs.HasGroundTruthRates() {
			fmt.Fprintf(b, "  %6.3f  %6.3f  %6.3f  %9.3f",
				*gs.TruePositiveRate, *gs.FalsePositiveRate, *gs.FalseNegativeRate, *gs.Precision)
		}
		b.WriteString("\n")
	}
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
