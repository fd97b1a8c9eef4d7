package metrics

import (
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
)

// confusion holds the confusion-matrix counts over labelled records.
type confusion struct {
	tp, fp, tn, fn int
}

func (c confusion) qualified() int   { return c.tp + c.fn }
func (c confusion) unqualified() int { return c.fp + c.tn }

// GroupStats computes the statistics for one group's records. A group with no
// records yields zero counts and a zero selection rate.
func GroupStats(group string, records []models.DecisionRecord) models.GroupStatistics {
	gs := models.GroupStatistics{Group: group, Count: len(records)}

	var cm confusion
	for _, r := range records {
		if r.Decision {
			gs.SelectedCount++
		}
		if r.GroundTruth == nil {
			continue
		}
		switch {
		case r.Decision && *r.GroundTruth:
			cm.tp++
		case r.Decision && !*r.GroundTruth:
			cm.fp++
		case !r.Decision && *r.GroundTruth:
			cm.fn++
		default:
			cm.tn++
		}
	}
	gs.SelectionRate = ratio(float64(gs.SelectedCount), float64(gs.Count))

	if cm.qualified() > 0 && cm.unqualified() > 0 {
		tpr := ratio(float64(cm.tp), float64(cm.qualified()))
		fpr := ratio(float64(cm.fp), float64(cm.unqualified()))
		fnr := ratio(float64(cm.fn), float64(cm.qualified()))
		precision := ratio(float64(cm.tp), float64(cm.tp+cm.fp))
		gs.TruePositiveRate = &tpr
		gs.FalsePositiveRate = &fpr
		gs.FalseNegativeRate = &fnr
		gs.Precision = &precision
	}
	return gs
}

// ComputeGroupStatistics returns statistics for every non-empty group of p,
// sorted by group label. Empty (declared) groups are excluded.
func ComputeGroupStatistics(p Partition) []models.GroupStatistics {
	groups := p.NonEmpty()
	out := make([]models.GroupStatistics, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupStats(g, p.Members[g]))
	}
	return out
}

// groundTruthReady reports whether every group carries confusion-matrix rates.
func groundTruthReady(stats []models.GroupStatistics) bool {
	if len(stats) == 0 {
		return false
	}
	for _, gs := range stats {
		if !gs.HasGroundTruthRates() {
			return false
		}
	}
	return true
}

func selectionRates(stats []models.GroupStatistics) []labelled {
	out := make([]labelled, len(stats))
	for i, gs := range stats {
		out[i] = labelled{gs.Group, gs.SelectionRate}
	}
	return out
}

// rateOf extracts an optional rate; groups without it are skipped.
func rateOf(stats []models.GroupStatistics, pick func(models.GroupStatistics) *float64) []labelled {
	out := make([]labelled, 0, len(stats))
	for _, gs := range stats {
		if v := pick(gs); v != nil {
			out = append(out, labelled{gs.Group, *v})
		}
	}
	return out
}

func tprOf(gs models.GroupStatistics) *float64       { return gs.TruePositiveRate }
func fprOf(gs models.GroupStatistics) *float64       { return gs.FalsePositiveRate }
func fnrOf(gs models.GroupStatistics) *float64       { return gs.FalseNegativeRate }
func precisionOf(gs models.GroupStatistics) *float64 { return gs.Precision }
