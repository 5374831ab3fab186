package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// WeightConfigRepository manages per-course weight configurations.
type WeightConfigRepository struct {
	db *sqlx.DB
}

// NewWeightConfigRepository constructs the repository.
func NewWeightConfigRepository(db *sqlx.DB) *WeightConfigRepository {
	return &WeightConfigRepository{db: db}
}

// FindByCourse returns the configuration or sql.ErrNoRows when none was saved.
func (r *WeightConfigRepository) FindByCourse(ctx context.Context, courseID string) (*models.WeightConfig, error) {
	if !isUUID(courseID) {
		return nil, sql.ErrNoRows
	}
	const query = `SELECT course_id, u1_cc, u1_cp, u1_ca, u2_cc, u2_cp, u2_ca, updated_at FROM weight_configs WHERE course_id = $1`
	var cfg models.WeightConfig
	if err := r.db.GetContext(ctx, &cfg, query, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find weight config: %w", err)
	}
	return &cfg, nil
}

// Upsert overwrites the configuration of a course wholesale.
func (r *WeightConfigRepository) Upsert(ctx context.Context, cfg *models.WeightConfig) error {
	const query = `INSERT INTO weight_configs (course_id, u1_cc, u1_cp, u1_ca, u2_cc, u2_cp, u2_ca, updated_at)
VALUES (:course_id, :u1_cc, :u1_cp, :u1_ca, :u2_cc, :u2_cp, :u2_ca, :updated_at)
ON CONFLICT (course_id) DO UPDATE SET u1_cc = EXCLUDED.u1_cc, u1_cp = EXCLUDED.u1_cp, u1_ca = EXCLUDED.u1_ca,
u2_cc = EXCLUDED.u2_cc, u2_cp = EXCLUDED.u2_cp, u2_ca = EXCLUDED.u2_ca, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("upsert weight config: %w", err)
	}
	return nil
}
