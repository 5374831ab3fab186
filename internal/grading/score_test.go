package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScore(t *testing.T) {
	cases := []struct {
		raw   string
		state ScoreState
		value float64
	}{
		{"", ScoreEmpty, 0},
		{"   ", ScoreEmpty, 0},
		{"NP", ScoreNotPresented, 0},
		{"np", ScoreNotPresented, 0},
		{" Np ", ScoreNotPresented, 0},
		{"0", ScoreNumeric, 0},
		{"20", ScoreNumeric, 20},
		{"13.5", ScoreNumeric, 13.5},
		{"20.01", ScoreInvalid, 0},
		{"25", ScoreInvalid, 0},
		{"-1", ScoreInvalid, 0},
		{"abc", ScoreInvalid, 0},
		{"NaN", ScoreInvalid, 0},
		{"Inf", ScoreInvalid, 0},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			s := ParseScore(tc.raw)
			assert.Equal(t, tc.state, s.State)
			assert.Equal(t, tc.value, s.Value)
		})
	}
}

func TestCriterionAverageIgnoresEmptyAndInvalid(t *testing.T) {
	assert.Equal(t, 0.0, CriterionAverage(ParseScores([]string{"", "", ""})))
	assert.False(t, HasGrade(ParseScores([]string{"", ""})))

	assert.Equal(t, 15.0, CriterionAverage(ParseScores([]string{"12", "", "18"})))
	assert.Equal(t, 12.0, CriterionAverage(ParseScores([]string{"12", "25"})))
}

func TestCriterionAverageCountsNotPresentedAsZero(t *testing.T) {
	slots := ParseScores([]string{"NP", "16"})
	assert.True(t, HasGrade(slots))
	assert.Equal(t, 8.0, CriterionAverage(slots))

	only := ParseScores([]string{"NP"})
	assert.True(t, HasGrade(only))
	assert.Equal(t, 0.0, CriterionAverage(only))
}

func TestCriterionAverageStaysInRange(t *testing.T) {
	sets := [][]string{
		{"20", "20", "20"},
		{"0", "NP", "20"},
		{"19.99", "NP"},
		{"0.5"},
	}
	for _, set := range sets {
		avg := CriterionAverage(ParseScores(set))
		assert.GreaterOrEqual(t, avg, MinScore)
		assert.LessOrEqual(t, avg, MaxScore)
	}
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("u1-cc")
	assert.NoError(t, err)
	assert.Equal(t, Key{Unit: Unit1, Criterion: ContinuousAssessment}, k)

	k, err = ParseKey("U2_CA")
	assert.NoError(t, err)
	assert.Equal(t, 5, k.Index())

	_, err = ParseKey("u3_cc")
	assert.Error(t, err)
}
