package reports

import "math"

// ParticipationRate is the share of active profiles that answered today's
// check-in question, rounded to two decimals. An empty company participates
// at zero, not NaN.
func ParticipationRate(answered, headcount int) float64 {
	if headcount <= 0 {
		return 0
	}
	if answered > headcount {
		answered = headcount
	}
	return math.Round(float64(answered)/float64(headcount)*100) / 100
}
