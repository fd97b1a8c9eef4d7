package validation

import (
	"sort"
	"strings"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/dataset"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
)

// Default column names for decision tables.
const (
	DefaultGroupColumn       = "group_label"
	DefaultDecisionColumn    = "decision"
	DefaultGroundTruthColumn = "ground_truth"
	DefaultFavorableLabel    = "1"
)

// ColumnSpec names the columns that carry each field. Empty fields fall back
// to the defaults.
type ColumnSpec struct {
	Group       string `mapstructure:"group" yaml:"group,omitempty"`
	Decision    string `mapstructure:"decision" yaml:"decision,omitempty"`
	GroundTruth string `mapstructure:"ground_truth" yaml:"ground_truth,omitempty"`
}

// WithDefaults returns a copy with blank names replaced by the defaults.
func (c ColumnSpec) WithDefaults() ColumnSpec {
	if c.Group == "" {
		c.Group = DefaultGroupColumn
	}
	if c.Decision == "" {
		c.Decision = DefaultDecisionColumn
	}
	if c.GroundTruth == "" {
		c.GroundTruth = DefaultGroundTruthColumn
	}
	return c
}

// TableOptions controls how a raw table is interpreted.
type TableOptions struct {
	Columns ColumnSpec
	// FavorableLabel is the decision value that counts as selected ("1" when empty).
	FavorableLabel string
}

// ValidatedTable is the typed form of a decision table.
type ValidatedTable struct {
	Records []models.DecisionRecord
	// HasGroundTruth is true when the ground-truth column exists in the input.
	HasGroundTruth bool
	// Groups holds the distinct group labels, sorted.
	Groups []string
}

// ValidateTable checks shape and types of t and converts it to decision records.
// Checks run in order: empty table, missing columns, invalid cells, group count.
func ValidateTable(t dataset.Table, opts TableOptions) (*ValidatedTable, error) {
	if t.Len() == 0 {
		return nil, &models.EmptyDatasetError{}
	}

	cols := opts.Columns.WithDefaults()
	for _, c := range []string{cols.Group, cols.Decision} {
		if !t.HasColumn(c) {
			return nil, &models.MissingColumnError{Column: c}
		}
	}

	favorableRaw := opts.FavorableLabel
	if strings.TrimSpace(favorableRaw) == "" {
		favorableRaw = DefaultFavorableLabel
	}
	favorable, ok := ParseBinary(favorableRaw)
	if !ok {
		return nil, &models.InvalidValueError{Column: "favorable_label", Value: favorableRaw}
	}

	hasGT := t.HasColumn(cols.GroundTruth)
	records := make([]models.DecisionRecord, 0, t.Len())
	for i, row := range t.Rows {
		rowNum := i + 1

		group := strings.TrimSpace(row[cols.Group])
		if group == "" {
			return nil, &models.InvalidValueError{Row: rowNum, Column: cols.Group, Value: row[cols.Group], Reason: "group label must not be blank"}
		}

		decision, ok := ParseBinary(row[cols.Decision])
		if !ok {
			return nil, &models.InvalidValueError{Row: rowNum, Column: cols.Decision, Value: row[cols.Decision]}
		}

		rec := models.DecisionRecord{Group: group, Decision: decision == favorable}
		if hasGT && strings.TrimSpace(row[cols.GroundTruth]) != "" {
			gt, ok := ParseBinary(row[cols.GroundTruth])
			if !ok {
				return nil, &models.InvalidValueError{Row: rowNum, Column: cols.GroundTruth, Value: row[cols.GroundTruth]}
			}
			rec.GroundTruth = &gt
		}
		records = append(records, rec)
	}

	groups, err := requireGroups(records)
	if err != nil {
		return nil, err
	}

	return &ValidatedTable{Records: records, HasGroundTruth: hasGT, Groups: groups}, nil
}

// ValidateRecords applies the row-independent checks to already typed records.
// hasGroundTruth reports whether any record carries a ground-truth label.
func ValidateRecords(records []models.DecisionRecord) (*ValidatedTable, error) {
	if len(records) == 0 {
		return nil, &models.EmptyDatasetError{}
	}
	hasGT := false
	for i, r := range records {
		if strings.TrimSpace(r.Group) == "" {
			return nil, &models.InvalidValueError{Row: i + 1, Column: DefaultGroupColumn, Value: r.Group, Reason: "group label must not be blank"}
		}
		if r.GroundTruth != nil {
			hasGT = true
		}
	}
	groups, err := requireGroups(records)
	if err != nil {
		return nil, err
	}
	return &ValidatedTable{Records: records, HasGroundTruth: hasGT, Groups: groups}, nil
}

func requireGroups(records []models.DecisionRecord) ([]string, error) {
	seen := make(map[string]bool)
	var groups []string
	for _, r := range records {
		if !seen[r.Group] {
			seen[r.Group] = true
			groups = append(groups, r.Group)
		}
	}
	sort.Strings(groups)
	if len(groups) < 2 {
		return nil, &models.InsufficientGroupsError{Groups: groups}
	}
	return groups, nil
}

// ParseBinary coerces a cell to a boolean. Accepted values, case-insensitive:
// 1/0, 1.0/0.0, true/false, yes/no, y/n, t/f.
func ParseBinary(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "1.0", "true", "t", "yes", "y":
		return true, true
	case "0", "0.0", "false", "f", "no", "n":
		return false, true
	default:
		return false, false
	}
}
