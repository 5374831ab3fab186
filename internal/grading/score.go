package grading

import (
	"math"
	"strconv"
	"strings"
)

const (
	// MinScore is the lowest accepted numeric score.
	MinScore = 0.0
	// MaxScore is the highest accepted numeric score.
	MaxScore = 20.0
	// NotPresentedToken marks an evaluation the student did not present.
	NotPresentedToken = "NP"
)

// ScoreState classifies a raw cell value.
type ScoreState int

const (
	// ScoreEmpty is a blank cell. It is ignored by averages and is not an error.
	ScoreEmpty ScoreState = iota
	// ScoreNotPresented counts as a grade valued zero.
	ScoreNotPresented
	// ScoreNumeric is a number within [MinScore, MaxScore].
	ScoreNumeric
	// ScoreInvalid blocks persistence and export.
	ScoreInvalid
)

var scoreStateNames = [...]string{"empty", "not_presented", "numeric", "invalid"}

// String returns the wire name of the state.
func (s ScoreState) String() string {
	if s < 0 || int(s) >= len(scoreStateNames) {
		return "unknown"
	}
	return scoreStateNames[s]
}

// MarshalText encodes the state by name.
func (s ScoreState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Score is one parsed cell.
type Score struct {
	Raw   string
	State ScoreState
	Value float64
}

// Counts reports whether the score takes part in an average.
func (s Score) Counts() bool {
	return s.State == ScoreNumeric || s.State == ScoreNotPresented
}

// ParseScore turns a raw cell value into a Score.
func ParseScore(raw string) Score {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Score{Raw: trimmed, State: ScoreEmpty}
	}
	if strings.EqualFold(trimmed, NotPresentedToken) {
		return Score{Raw: NotPresentedToken, State: ScoreNotPresented}
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < MinScore || v > MaxScore {
		return Score{Raw: trimmed, State: ScoreInvalid}
	}
	return Score{Raw: trimmed, State: ScoreNumeric, Value: v}
}

// ParseScores parses every raw value in order.
func ParseScores(raw []string) []Score {
	scores := make([]Score, len(raw))
	for i, r := range raw {
		scores[i] = ParseScore(r)
	}
	return scores
}

// CriterionAverage is the mean of the numeric and not-presented slots.
// Empty and invalid slots are ignored; the result is 0 when nothing counts.
func CriterionAverage(slots []Score) float64 {
	sum, n := 0.0, 0
	for _, s := range slots {
		if !s.Counts() {
			continue
		}
		sum += s.Value
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// HasGrade reports whether any slot takes part in the average.
func HasGrade(slots []Score) bool {
	for _, s := range slots {
		if s.Counts() {
			return true
		}
	}
	return false
}
