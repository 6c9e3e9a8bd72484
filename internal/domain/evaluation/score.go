package evaluation

import "math"

const (
	ScoreMin = 0
	ScoreMax = 10
)

// Average is the evaluation grade: the mean of the three dimension scores,
// rounded to two decimals. It is derived on read and never stored.
func Average(knowledge, skill, attitude float64) float64 {
	return math.Round((knowledge+skill+attitude)/3*100) / 100
}

func ValidScore(value float64) bool {
	return value >= ScoreMin && value <= ScoreMax
}
