package grading

import (
	"fmt"
	"math"
	"strings"
)

const (
	// MinWeight is the lowest accepted percentage.
	MinWeight = 0.0
	// MaxWeight is the highest accepted percentage.
	MaxWeight = 100.0

	weightSumTolerance = 0.001
)

// Weights holds one percentage per key, indexed by Key.Index.
type Weights [KeyCount]float64

// DefaultWeights is 40/50/10 for both units.
var DefaultWeights = Weights{40, 50, 10, 40, 50, 10}

// Of returns the weight for k.
func (w Weights) Of(k Key) float64 {
	idx := k.Index()
	if idx < 0 {
		return 0
	}
	return w[idx]
}

// With returns a copy of w with k set to v.
func (w Weights) With(k Key, v float64) Weights {
	if idx := k.Index(); idx >= 0 {
		w[idx] = v
	}
	return w
}

// UnitSum adds the three weights of a unit.
func (w Weights) UnitSum(u Unit) float64 {
	sum := 0.0
	for _, c := range Criteria {
		sum += w.Of(Key{Unit: u, Criterion: c})
	}
	return sum
}

// WeightsError describes why a weight set cannot be saved.
type WeightsError struct {
	OutOfRange []Key
	BadUnits   []Unit
}

func (e *WeightsError) Error() string {
	var parts []string
	if len(e.OutOfRange) > 0 {
		keys := make([]string, len(e.OutOfRange))
		for i, k := range e.OutOfRange {
			keys[i] = k.String()
		}
		parts = append(parts, fmt.Sprintf("weights out of range: %s", strings.Join(keys, ", ")))
	}
	for _, u := range e.BadUnits {
		parts = append(parts, fmt.Sprintf("unit %d weights must sum to 100", int(u)))
	}
	return strings.Join(parts, "; ")
}

// Validate checks the save-time rules: every weight within [0, 100] and each unit summing to 100.
func (w Weights) Validate() error {
	werr := &WeightsError{}
	for _, k := range Keys() {
		v := w.Of(k)
		if math.IsNaN(v) || v < MinWeight || v > MaxWeight {
			werr.OutOfRange = append(werr.OutOfRange, k)
		}
	}
	for _, u := range Units {
		if math.Abs(w.UnitSum(u)-100) > weightSumTolerance {
			werr.BadUnits = append(werr.BadUnits, u)
		}
	}
	if len(werr.OutOfRange) > 0 || len(werr.BadUnits) > 0 {
		return werr
	}
	return nil
}
