package metrics

import "math"

// ProbabilityCeiling is the highest breakthrough probability ever reported.
const ProbabilityCeiling = 95

// Breakdown holds each contribution rounded for display.
type Breakdown struct {
	Consistency   int `json:"consistency"`
	Opportunities int `json:"opportunities"`
	Callbacks     int `json:"callbacks"`
	Bookings      int `json:"bookings"`
}

// Probability is the capped breakthrough estimate.
type Probability struct {
	Total     int       `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
}

// BreakthroughProbability combines four independently capped contributions. The total
// is summed before rounding and never exceeds ProbabilityCeiling. Negative inputs count
// as zero.
func BreakthroughProbability(streak, tier1, callbacks, roles int) Probability {
	consistency := math.Min(float64(nonNegative(streak))*0.8, 20)
	opportunities := math.Min(float64(nonNegative(tier1))*0.6, 30)
	callbackPart := math.Min(float64(nonNegative(callbacks))*4, 30)
	bookings := math.Min(float64(nonNegative(roles))*20, 20)

	total := math.Min(consistency+opportunities+callbackPart+bookings, ProbabilityCeiling)

	return Probability{
		Total: int(math.Round(total)),
		Breakdown: Breakdown{
			Consistency:   int(math.Round(consistency)),
			Opportunities: int(math.Round(opportunities)),
			Callbacks:     int(math.Round(callbackPart)),
			Bookings:      int(math.Round(bookings)),
		},
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
