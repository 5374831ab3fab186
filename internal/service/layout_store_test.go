package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/grading"
)

func TestLayoutStoreLocalFallbackExpires(t *testing.T) {
	store := NewLayoutStore(nil, time.Minute)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	layout := grading.DefaultLayout()
	require.NoError(t, layout.Set(grading.Key{Unit: grading.Unit2, Criterion: grading.Attitude}, 3))
	store.Save(context.Background(), "u1", "c1", layout)

	assert.Equal(t, layout, store.Load(context.Background(), "u1", "c1"))
	assert.Equal(t, grading.DefaultLayout(), store.Load(context.Background(), "u1", "c2"))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, grading.DefaultLayout(), store.Load(context.Background(), "u1", "c1"))
}
