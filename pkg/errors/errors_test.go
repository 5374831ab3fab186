package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	typed := Clone(ErrNotFound, "course not found")
	wrapped := fmt.Errorf("load: %w", typed)

	got := FromError(wrapped)
	assert.Equal(t, "NOT_FOUND", got.Code)
	assert.Equal(t, "course not found", got.Message)
}

func TestFromErrorFallsBackToInternal(t *testing.T) {
	got := FromError(stderrors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, ErrInternal.Message, got.Message)
}

func TestClonesMatchTemplate(t *testing.T) {
	err := WithDetails(ErrInvalidScores, "2 invalid scores", map[string]int{"invalid_count": 2})
	assert.ErrorIs(t, err, ErrInvalidScores)
	assert.NotErrorIs(t, err, ErrInvalidWeights)
	assert.Equal(t, map[string]int{"invalid_count": 2}, err.Details)
	assert.Nil(t, ErrInvalidScores.Details)
}
