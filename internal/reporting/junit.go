package reporting

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one analysed dataset.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one fairness metric.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a threshold violation.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks a metric that could not be computed.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// groundTruthMetrics are reported as skipped test cases when absent.
var groundTruthMetrics = map[string]bool{
	models.MetricEqualOpportunityDifference:  true,
	models.MetricAverageOddsDifference:       true,
	models.MetricPredictiveParityDifference:  true,
	models.MetricFalsePositiveRateDifference: true,
	models.MetricFalseNegativeRateDifference: true,
}

// ConvertToJUnit converts a report to JUnit XML: one test case per metric,
// failing when the metric has at least one violation.
func ConvertToJUnit(r *models.FairnessReport, name string) *JUnitTestSuites {
	byMetric := make(map[string][]models.Violation)
	for _, v := range r.BiasAnalysis.Violations {
		byMetric[v.Metric] = append(byMetric[v.Metric], v)
	}

	suite := JUnitTestSuite{
		Name: name,
		Properties: []JUnitProperty{
			{Name: "fairness_score", Value: fmt.Sprintf("%.2f", r.Summary.FairnessScore)},
			{Name: "badge", Value: r.Summary.Badge},
			{Name: "total_count", Value: fmt.Sprintf("%d", r.Summary.TotalCount)},
			{Name: "groups", Value: strings.Join(r.Summary.Groups, ",")},
		},
	}

	for _, metric := range metricOrder {
		tc := JUnitTestCase{Name: metric, Classname: name}
		value, ok := r.MetricValue(metric)
		switch {
		case !ok && groundTruthMetrics[metric]:
			tc.Skipped = &JUnitSkipped{Message: "ground truth not available for every group"}
			suite.Skipped++
		case !ok:
			continue
		case len(byMetric[metric]) > 0:
			tc.Failure = buildFailure(metric, value, byMetric[metric])
			suite.Failures++
		}
		suite.TestCases = append(suite.TestCases, tc)
	}
	suite.Tests = len(suite.TestCases)

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		TestSuites: []JUnitTestSuite{suite},
	}
}

func buildFailure(metric string, value float64, violations []models.Violation) *JUnitFailure {
	worst := violations[0].Severity
	var details strings.Builder
	for _, v := range violations {
		if v.Severity.Rank() > worst.Rank() {
			worst = v.Severity
		}
		fmt.Fprintf(&details, "[%s] %s: %.4f vs threshold %.4f\n", v.Severity, v.Comparison, v.Value, v.Threshold)
	}
	return &JUnitFailure{
		Message: fmt.Sprintf("%s=%.4f", metric, value),
		Type:    string(worst),
		Body:    details.String(),
	}
}

// MarshalJUnit renders the report as an indented JUnit XML document.
func MarshalJUnit(r *models.FairnessReport, name string) ([]byte, error) {
	data, err := xml.MarshalIndent(ConvertToJUnit(r, name), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JUnit XML: %w", err)
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}
