package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `columns:
  group: gender
  decision: hired
  ground_truth: qualified
favorable_label: 1
declared_groups: [female, male, nonbinary]
pass_at_boundary: true
thresholds:
  disparate_impact:
    threshold: 0.85
  theil_index:
    direction: upper
    threshold: 0.05
    medium: 0.1
    high: 0.2
    critical: 0.3
    worst: 1
output:
  format: markdown
  fail_on: high
significance:
  enabled: true
  confidence: 0.9
  seed: 7
`

func TestValidateConfigBytes_Valid(t *testing.T) {
	errs := ValidateConfigBytes([]byte(validConfigYAML))
	require.Empty(t, errs)
}

func TestValidateConfigBytes_Empty(t *testing.T) {
	require.Empty(t, ValidateConfigBytes(nil))
	require.Empty(t, ValidateConfigBytes([]byte("# nothing here\n")))
}

func TestValidateConfigBytes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		loc  string
	}{
		{"unknown key", "colums:\n  group: x\n", "/"},
		{"bad format", "output:\n  format: pdf\n", "/output/format"},
		{"bad fail_on", "output:\n  fail_on: severe\n", "/output/fail_on"},
		{"confidence out of range", "significance:\n  confidence: 1.5\n", "/significance/confidence"},
		{"bad direction", "thresholds:\n  disparate_impact:\n    direction: down\n", "/thresholds/disparate_impact/direction"},
		{"threshold not a number", "thresholds:\n  theil_index:\n    threshold: high\n", "/thresholds/theil_index/threshold"},
		{"empty column name", "columns:\n  group: \"\"\n", "/columns/group"},
		{"declared groups not a list", "declared_groups: female\n", "/declared_groups"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateConfigBytes([]byte(tt.yaml))
			require.NotEmpty(t, errs)
			found := false
			for _, e := range errs {
				if len(e) >= len(tt.loc) && e[:len(tt.loc)] == tt.loc {
					found = true
				}
			}
			assert.True(t, found, "expected an error at %s, got %v", tt.loc, errs)
		})
	}
}

func TestValidateConfigBytes_YAMLError(t *testing.T) {
	errs := ValidateConfigBytes([]byte("columns: [unclosed"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "YAML parse error")
}
