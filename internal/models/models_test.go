package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/gradebook-api/internal/grading"
)

func TestStudentDisplayName(t *testing.T) {
	assert.Equal(t, "Ñáñez, Ana", Student{Surname: "Ñáñez", GivenName: "Ana"}.DisplayName())
	assert.Equal(t, "Ñáñez", Student{Surname: "Ñáñez"}.DisplayName())
}

func TestGradeRecordSlotsAreCopied(t *testing.T) {
	values := []string{"18", "NP"}
	var rec GradeRecord
	rec.SetSlots(grading.Practice, values)
	values[0] = "changed"

	assert.Equal(t, []string{"18", "NP"}, []string(rec.Slots(grading.Practice)))
	assert.Empty(t, rec.Slots(grading.Attitude))
}

func TestWeightConfigKeepsKeyOrder(t *testing.T) {
	w := grading.Weights{30, 40, 30, 40, 50, 10}
	cfg := NewWeightConfig("c1", w, time.Time{})
	assert.Equal(t, 10.0, cfg.U2CA)
	assert.Equal(t, w, cfg.Weights())
}

func TestRefreshTokenUsable(t *testing.T) {
	now := time.Now()
	token := RefreshToken{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, token.Usable(now))
	assert.False(t, token.Usable(now.Add(2*time.Hour)))

	token.Revoked = true
	assert.False(t, token.Usable(now))
}
