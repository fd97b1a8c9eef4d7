// Package statistics estimates how much sampling noise sits behind an
// observed selection-rate gap.
package statistics

import (
	"math"
	"math/rand"
	"sort"

	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/metrics"
	"github.com/tomandjerry07030304/smart-hiring-sub001/internal/models"
)

// ConfidenceInterval holds the result of a bootstrap confidence interval computation.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Mean            float64 `json:"mean"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

const (
	// DefaultBootstrapIterations is the number of bootstrap resamples.
	DefaultBootstrapIterations = 10000
	// DefaultConfidenceLevel is used when the caller passes a level outside (0, 1).
	DefaultConfidenceLevel = 0.95
)

// GapEstimate is the observed selection-rate gap between the most and least
// favoured groups together with its bootstrap interval.
type GapEstimate struct {
	HighGroup string  `json:"high_group"`
	LowGroup  string  `json:"low_group"`
	Gap       float64 `json:"gap"`
	ConfidenceInterval
	Significant bool `json:"significant"`
}

// SelectionGapCI bootstraps rate(high) - rate(low) for the two extreme
// groups of p, resampling each group's decisions independently. A negative
// seed uses a non-deterministic source.
func SelectionGapCI(p metrics.Partition, confidenceLevel float64, seed int64) (GapEstimate, error) {
	return selectionGapCI(p, confidenceLevel, seed, DefaultBootstrapIterations)
}

func selectionGapCI(p metrics.Partition, confidenceLevel float64, seed int64, iters int) (GapEstimate, error) {
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		confidenceLevel = DefaultConfidenceLevel
	}

	stats := metrics.ComputeGroupStatistics(p)
	if len(stats) < 2 {
		return GapEstimate{}, &models.InsufficientGroupsError{Groups: p.NonEmpty()}
	}

	lo, hi := stats[0], stats[0]
	for _, gs := range stats[1:] {
		if gs.SelectionRate < lo.SelectionRate {
			lo = gs
		}
		if gs.SelectionRate >= hi.SelectionRate {
			hi = gs
		}
	}

	est := GapEstimate{
		HighGroup: hi.Group,
		LowGroup:  lo.Group,
		Gap:       hi.SelectionRate - lo.SelectionRate,
	}

	rng := newRand(seed)
	highDecisions := decisions(p.Members[hi.Group])
	lowDecisions := decisions(p.Members[lo.Group])

	gaps := make([]float64, iters)
	for i := range gaps {
		gaps[i] = resampleRate(rng, highDecisions) - resampleRate(rng, lowDecisions)
	}

	est.ConfidenceInterval = percentileInterval(gaps, confidenceLevel)
	est.Mean = est.Gap
	est.Significant = IsSignificant(est.ConfidenceInterval)
	return est, nil
}

func newRand(seed int64) *rand.Rand {
	if seed >= 0 {
		return rand.New(rand.NewSource(seed))
	}
	return rand.New(rand.NewSource(rand.Int63()))
}

func decisions(records []models.DecisionRecord) []bool {
	out := make([]bool, len(records))
	for i, r := range records {
		out[i] = r.Decision
	}
	return out
}

func resampleRate(rng *rand.Rand, d []bool) float64 {
	n := len(d)
	if n == 0 {
		return 0
	}
	selected := 0
	for j := 0; j < n; j++ {
		if d[rng.Intn(n)] {
			selected++
		}
	}
	return float64(selected) / float64(n)
}

// percentileInterval sorts samples in place and reads the interval bounds.
func percentileInterval(samples []float64, confidenceLevel float64) ConfidenceInterval {
	iters := len(samples)
	sort.Float64s(samples)

	alpha := 1.0 - confidenceLevel
	loIdx := int(math.Floor(alpha / 2.0 * float64(iters)))
	hiIdx := int(math.Floor((1.0 - alpha/2.0) * float64(iters)))
	if hiIdx >= iters {
		hiIdx = iters - 1
	}

	return ConfidenceInterval{
		Lower:           samples[loIdx],
		Upper:           samples[hiIdx],
		ConfidenceLevel: confidenceLevel,
		NumBootstraps:   iters,
	}
}

// IsSignificant returns true if the confidence interval does not contain zero,
// indicating statistical significance at the given confidence level.
func IsSignificant(ci ConfidenceInterval) bool {
	return ci.Lower > 0 || ci.Upper < 0
}

// NormalizedGain computes Hake's normalized gain (1998):
//
//	g = (post - pre) / (1 - pre)
//
// Returns 0 if pre >= 1.0 (already at ceiling) or pre == post (no change).
// Returns 1.0 if post >= 1.0 (reached maximum).
func NormalizedGain(pre, post float64) float64 {
	if pre >= 1.0 {
		return 0.0
	}
	if post >= 1.0 {
		return 1.0
	}
	if math.Abs(post-pre) < 1e-12 {
		return 0.0
	}
	return (post - pre) / (1.0 - pre)
}
