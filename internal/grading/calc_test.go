package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func averages(u1, u2 [3]float64) [KeyCount]float64 {
	return [KeyCount]float64{u1[0], u1[1], u1[2], u2[0], u2[1], u2[2]}
}

func TestUnitScoreFullWeightEqualsCriterion(t *testing.T) {
	w := Weights{100, 0, 0, 100, 0, 0}
	avg := averages([3]float64{13.25, 19, 4}, [3]float64{7, 1, 2})
	assert.Equal(t, 13.25, UnitScore(Unit1, avg, w))
	assert.Equal(t, 7.0, UnitScore(Unit2, avg, w))
}

func TestUnitScoreIsLinear(t *testing.T) {
	w := Weights{30, 40, 30, 30, 40, 30}
	a := averages([3]float64{10, 12, 14}, [3]float64{})
	doubled := averages([3]float64{20, 24, 28}, [3]float64{})
	assert.InDelta(t, 2*UnitScore(Unit1, a, w), UnitScore(Unit1, doubled, w), 1e-9)

	halfW := Weights{15, 20, 15, 0, 0, 0}
	assert.InDelta(t, UnitScore(Unit1, a, w)/2, UnitScore(Unit1, a, halfW), 1e-9)
}

func TestFinalScoreIsSymmetric(t *testing.T) {
	assert.Equal(t, FinalScore(16.7, 3.1), FinalScore(3.1, 16.7))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, BandAtRisk, Classify(10.49))
	assert.Equal(t, BandRegular, Classify(10.5))
	assert.Equal(t, BandRegular, Classify(14.49))
	assert.Equal(t, BandOutstanding, Classify(14.5))
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, DefaultWeights.Validate())

	err := Weights{40, 50, 9, 40, 50, 10}.Validate()
	require.Error(t, err)
	var werr *WeightsError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, []Unit{Unit1}, werr.BadUnits)

	err = Weights{120, -20, 0, 40, 50, 10}.Validate()
	require.ErrorAs(t, err, &werr)
	assert.Len(t, werr.OutOfRange, 2)
}
