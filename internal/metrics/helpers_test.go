package metrics

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestRatio_ZeroDenominator(t *testing.T) {
	if got := ratio(3, 0); got != 0 {
		t.Errorf("ratio(3, 0) = %f, want 0", got)
	}
	if got := ratio(1, 4); !approxEqual(got, 0.25) {
		t.Errorf("ratio(1, 4) = %f, want 0.25", got)
	}
}

func TestExtremes_TieBreaks(t *testing.T) {
	lo, hi := extremes([]labelled{{"a", 0.5}, {"b", 0.5}, {"c", 0.2}, {"d", 0.5}})
	if lo.group != "c" || hi.group != "d" {
		t.Errorf("extremes = (%s, %s), want (c, d)", lo.group, hi.group)
	}

	lo, hi = extremes([]labelled{{"a", 0.4}, {"b", 0.4}})
	if lo.group != "a" || hi.group != "b" {
		t.Errorf("equal values: extremes = (%s, %s), want (a, b)", lo.group, hi.group)
	}
}
