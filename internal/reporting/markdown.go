package reporting

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/statistics"
)

// RenderMarkdown renders the report as a Markdown document. gap may be nil.
func RenderMarkdown(r *models.FairnessReport, gap *statistics.GapEstimate) string {
	var b strings.Builder

	b.WriteString("# Fairness Report\n\n")
	fmt.Fprintf(&b, "**Fairness score:** %.2f (%s) — %s\n\n", r.Summary.FairnessScore, r.Summary.Badge, InterpretScore(r.Summary.FairnessScore))
	b.WriteString(numberPrinter.Sprintf("**Candidates:** %d across %d groups\n\n", r.Summary.TotalCount, len(r.Summary.Groups)))
	if r.Summary.BiasDetected {
		fmt.Fprintf(&b, "**Bias detected:** yes (%s)\n\n", severityBreakdown(r.BiasAnalysis))
	} else {
		b.WriteString("**Bias detected:** no\n\n")
	}

	b.WriteString("## Group statistics\n\n")
	if r.Summary.GroundTruthMetrics {
		b.WriteString("| Group | Count | Selected | Selection rate | TPR | FPR | FNR | Precision |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|\n")
	} else {
		b.WriteString("| Group | Count | Selected | Selection rate |\n")
		b.WriteString("|---|---:|---:|---:|\n")
	}
	for _, g := range r.Summary.Groups {
		gs := r.GroupStatistics[g]
		fmt.Fprintf(&b, "| %s | %d | %d | %.3f |", escapeCell(g), gs.Count, gs.SelectedCount, gs.SelectionRate)
		if r.Summary.GroundTruthMetrics && gs.HasGroundTruthRates() {
			fmt.Fprintf(&b, " %.3f | %.3f | %.3f | %.3f |",
				*gs.TruePositiveRate, *gs.FalsePositiveRate, *gs.FalseNegativeRate, *gs.Precision)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Metrics\n\n| Metric | Value |\n|---|---:|\n")
	for _, name := range metricOrder {
		if v, ok := r.MetricValue(name); ok {
			fmt.Fprintf(&b, "| `%s` | %.4f |\n", name, v)
		}
	}
	if pair, ok := r.FairnessMetrics[models.KeyDisparateImpactPair].(string); ok {
		fmt.Fprintf(&b, "\nBinding disparate impact pair: **%s**\n", escapeCell(pair))
	}

	if gap != nil {
		fmt.Fprintf(&b, "\n## Selection gap\n\n%s\n", InterpretGap(*gap))
	}

	if len(r.BiasAnalysis.Violations) > 0 {
		b.WriteString("\n## Violations\n\n| Severity | Metric | Comparison | Value | Threshold |\n|---|---|---|---:|---:|\n")
		for _, v := range r.BiasAnalysis.Violations {
			fmt.Fprintf(&b, "| %s | `%s` | %s | %.3f | %.3f |\n",
				v.Severity, v.Metric, escapeCell(v.Comparison), v.Value, v.Threshold)
		}
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\n## Recommendations\n\n")
		for i, rec := range r.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
	}

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// RenderHTML converts the Markdown report into a standalone HTML page.
func RenderHTML(r *models.FairnessReport, gap *statistics.GapEstimate, title string) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(RenderMarkdown(r, gap)), &body); err != nil {
		return nil, fmt.Errorf("rendering HTML: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n", html.EscapeString(title))
	out.WriteString("<style>body{font-family:sans-serif;max-width:60em;margin:2em auto}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.25em .6em}</style>\n")
	out.WriteString("</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}
