// Package metrics partitions decision records by protected group and computes
// per-group rates and group-fairness metrics.
package metrics

import (
	"sort"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
)

// Partition maps each group label to its records. Groups is sorted and
// includes declared groups that have no records.
type Partition struct {
	Groups  []string
	Members map[string][]models.DecisionRecord
}

// PartitionRecords splits records by group label, preserving row order inside
// each group. declared adds group labels that should be tracked even when no
// record carries them.
func PartitionRecords(records []models.DecisionRecord, declared ...string) Partition {
	p := Partition{Members: make(map[string][]models.DecisionRecord)}
	for _, g := range declared {
		if _, ok := p.Members[g]; !ok && g != "" {
			p.Members[g] = nil
		}
	}
	for _, r := range records {
		p.Members[r.Group] = append(p.Members[r.Group], r)
	}

	p.Groups = make([]string, 0, len(p.Members))
	for g := range p.Members {
		p.Groups = append(p.Groups, g)
	}
	sort.Strings(p.Groups)
	return p
}

// NonEmpty returns the sorted groups that have at least one record.
func (p Partition) NonEmpty() []string {
	out := make([]string, 0, len(p.Groups))
	for _, g := range p.Groups {
		if len(p.Members[g]) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// Size returns the total number of records across all groups.
func (p Partition) Size() int {
	n := 0
	for _, m := range p.Members {
		n += len(m)
	}
	return n
}
