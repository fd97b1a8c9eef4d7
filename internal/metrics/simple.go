package metrics

import (
	"math"
	"sort"
	"strconv"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
)

// The functions below serve callers that already hold per-group rates. They
// build GroupStatistics from the rates and run the same metric functions as
// the full pipeline, so both paths agree for the same underlying rates.

// DemographicParityFromRates returns max - min over a group → selection rate map.
func DemographicParityFromRates(selectionRates map[string]float64) (float64, error) {
	stats, err := statsFromRates(selectionRates, func(gs *models.GroupStatistics, v float64) {
		gs.SelectionRate = v
	})
	if err != nil {
		return 0, err
	}
	return DemographicParityDifference(stats).Value, nil
}

// DisparateImpactFromRates returns the lowest pairwise selection-rate ratio.
func DisparateImpactFromRates(selectionRates map[string]float64) (float64, error) {
	stats, err := statsFromRates(selectionRates, func(gs *models.GroupStatistics, v float64) {
		gs.SelectionRate = v
	})
	if err != nil {
		return 0, err
	}
	return DisparateImpact(stats).Value, nil
}

// EqualOpportunityFromRates returns max - min over a group → true positive rate map.
func EqualOpportunityFromRates(truePositiveRates map[string]float64) (float64, error) {
	stats, err := statsFromRates(truePositiveRates, func(gs *models.GroupStatistics, v float64) {
		gs.TruePositiveRate = &v
	})
	if err != nil {
		return 0, err
	}
	return EqualOpportunityDifference(stats).Value, nil
}

func statsFromRates(rates map[string]float64, set func(*models.GroupStatistics, float64)) ([]models.GroupStatistics, error) {
	groups := make([]string, 0, len(rates))
	for g := range rates {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	if len(groups) < 2 {
		return nil, &models.InsufficientGroupsError{Groups: groups}
	}

	stats := make([]models.GroupStatistics, 0, len(groups))
	for _, g := range groups {
		v := rates[g]
		if math.IsNaN(v) || v < 0 || v > 1 {
			return nil, &models.InvalidValueError{Column: g, Value: strconv.FormatFloat(v, 'g', -1, 64), Reason: "rate must be within [0, 1]"}
		}
		gs := models.GroupStatistics{Group: g}
		set(&gs, v)
		stats = append(stats, gs)
	}
	return stats, nil
}
