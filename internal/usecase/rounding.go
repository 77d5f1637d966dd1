package usecase

import "math"

// round2 rounds prices to cents.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds percentages to one decimal.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
