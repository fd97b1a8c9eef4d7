package metrics

// ratio divides num by den and defines x/0 as 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// labelled is one group's value for a given metric.
type labelled struct {
	group string
	value float64
}

// extremes returns the lowest and highest entries. Input must be sorted by
// group. Ties resolve to the first group for lo and the last group for hi, so
// the pair is distinct whenever there are two or more entries.
func extremes(values []labelled) (lo, hi labelled) {
	if len(values) == 0 {
		return labelled{}, labelled{}
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v.value < lo.value {
			lo = v
		}
		if v.value >= hi.value {
			hi = v
		}
	}
	return lo, hi
}
