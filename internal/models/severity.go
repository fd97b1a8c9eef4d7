package models

import (
	"fmt"
	"strings"
)

// Severity is the bucket assigned to a metric violation.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

func (s Severity) String() string {
	return string(s)
}

// Rank orders severities; higher is worse. Unknown severities rank 0.
func (s Severity) Rank() int {
	return severityRank[s]
}

// AtLeast returns true if s is at or above the target severity.
func (s Severity) AtLeast(target Severity) bool {
	return s.Rank() >= target.Rank()
}

// ParseSeverity converts a flag or config value to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return "", fmt.Errorf("invalid severity %q: must be low, medium, high, or critical", s)
	}
}
