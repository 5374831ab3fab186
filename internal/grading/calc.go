package grading

import "math"

const (
	// AtRiskBelow is the score under which a student is at risk.
	AtRiskBelow = 10.5
	// OutstandingFrom is the score from which a student is outstanding.
	OutstandingFrom = 14.5
)

// RiskBand is the informational classification of a score.
type RiskBand string

const (
	BandAtRisk      RiskBand = "at_risk"
	BandRegular     RiskBand = "regular"
	BandOutstanding RiskBand = "outstanding"
)

// Classify places a score into a risk band.
func Classify(score float64) RiskBand {
	switch {
	case score < AtRiskBelow:
		return BandAtRisk
	case score >= OutstandingFrom:
		return BandOutstanding
	default:
		return BandRegular
	}
}

// UnitScore combines the three criterion averages of a unit with its weights.
// averages is indexed by Key.Index.
func UnitScore(u Unit, averages [KeyCount]float64, w Weights) float64 {
	score := 0.0
	for _, c := range Criteria {
		k := Key{Unit: u, Criterion: c}
		score += averages[k.Index()] * w.Of(k) / 100
	}
	return score
}

// FinalScore is the mean of both unit scores.
func FinalScore(unit1, unit2 float64) float64 {
	return (unit1 + unit2) / 2
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
