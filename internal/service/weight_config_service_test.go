package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/grading"
	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

func weightPtr(v float64) *float64 { return &v }

func weightsRequest(u1cc, u1cp, u1ca, u2cc, u2cp, u2ca float64) dto.WeightsRequest {
	return dto.WeightsRequest{Weights: map[string]*float64{
		"u1_cc": weightPtr(u1cc), "u1_cp": weightPtr(u1cp), "u1_ca": weightPtr(u1ca),
		"u2_cc": weightPtr(u2cc), "u2_cp": weightPtr(u2cp), "u2_ca": weightPtr(u2ca),
	}}
}

func newWeightFixture() (*WeightConfigService, *fakeWeightRepo, *fakeInvalidator) {
	repo := &fakeWeightRepo{}
	inv := &fakeInvalidator{}
	courses := newFakeCourseRepo(models.Course{ID: "c1", Code: "MAT101"})
	return NewWeightConfigService(repo, courses, inv, nil, grading.DefaultWeights, nil, nil), repo, inv
}

func TestWeightConfigServiceDefaultsAreInformational(t *testing.T) {
	svc, _, _ := newWeightFixture()

	view, err := svc.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, view.DefaultsApplied)
	assert.Equal(t, msgWeightsDefaults, view.Message)
	assert.Equal(t, 40.0, view.Weights["u1_cc"])
	assert.Equal(t, 50.0, view.Weights["u2_cp"])
	assert.Equal(t, 100.0, view.UnitSums["u1"])
}

func TestWeightConfigServiceSaveRejectsBadUnitSum(t *testing.T) {
	svc, repo, inv := newWeightFixture()

	_, err := svc.Save(context.Background(), "c1", weightsRequest(40, 50, 9, 40, 50, 10))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidWeights.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "unit 1")
	assert.Equal(t, 0, repo.upserts)
	assert.Empty(t, inv.courses)
}

func TestWeightConfigServiceSaveThenGet(t *testing.T) {
	svc, repo, inv := newWeightFixture()

	saved, err := svc.Save(context.Background(), "c1", weightsRequest(30, 40, 30, 40, 50, 10))
	require.NoError(t, err)
	assert.False(t, saved.DefaultsApplied)
	assert.Equal(t, 1, repo.upserts)
	assert.Equal(t, []string{"c1"}, inv.courses)

	view, err := svc.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, view.DefaultsApplied)
	assert.Equal(t, msgWeightsLoaded, view.Message)
	assert.Equal(t, 30.0, view.Weights["u1_cc"])
}

func TestWeightConfigServiceSaveRequiresEveryKey(t *testing.T) {
	svc, _, _ := newWeightFixture()

	req := weightsRequest(30, 40, 30, 40, 50, 10)
	delete(req.Weights, "u2_ca")
	_, err := svc.Save(context.Background(), "c1", req)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = weightsRequest(30, 40, 30, 40, 50, 10)
	req.Weights["u3_cc"] = weightPtr(1)
	_, err = svc.Save(context.Background(), "c1", req)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestWeightConfigServiceUnknownCourse(t *testing.T) {
	svc, _, _ := newWeightFixture()

	_, err := svc.Get(context.Background(), "ghost")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	_, err = svc.Get(context.Background(), "")
	assert.Equal(t, appErrors.ErrMissingSelection.Code, appErrors.FromError(err).Code)
}

func TestWeightConfigServiceSaveRejectsNullWeights(t *testing.T) {
	svc, repo, _ := newWeightFixture()

	req := weightsRequest(30, 40, 30, 40, 50, 10)
	req.Weights["u1_cp"] = nil
	_, err := svc.Save(context.Background(), "c1", req)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Save(context.Background(), "c1", dto.WeightsRequest{})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.upserts)
}
