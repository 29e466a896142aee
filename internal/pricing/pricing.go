package pricing

import "math"

// Input is a base price with an optional discount. A discount can be
// expressed as a percentage of the price or as an absolute amount.
type Input struct {
	Price           float64
	DiscountPercent *float64
	DiscountAmount  *float64
}

// Result holds the computed price breakdown. All fields are rounded,
// non-negative integer amounts in minor units.
type Result struct {
	Original        int64
	Discounted      int64
	DiscountPercent int64
	DiscountAmount  int64
}

// Compute applies the discount from in to its price.
// When both discount fields are set the absolute amount wins and the
// percentage is derived from it, never the other way around.
// Malformed values (NaN, Inf, negatives) are coerced to zero, Compute
// never fails.
func Compute(in Input) Result {
	original := int64(math.Round(sanitize(in.Price)))

	var amount int64
	var percent int64
	switch {
	case in.DiscountAmount != nil:
		// amount takes precedence over percent
		amount = clamp(int64(math.Round(sanitize(*in.DiscountAmount))), 0, original)
		if original > 0 {
			percent = int64(math.Round(float64(amount) / float64(original) * 100))
		}
	case in.DiscountPercent != nil:
		pct := math.Min(math.Max(sanitize(*in.DiscountPercent), 0), 100)
		amount = int64(math.Round(pct / 100 * float64(original)))
		percent = int64(math.Round(pct))
	}

	discounted := original - amount
	if discounted < 0 {
		discounted = 0
	}

	return Result{
		Original:        original,
		Discounted:      discounted,
		DiscountPercent: percent,
		DiscountAmount:  amount,
	}
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
