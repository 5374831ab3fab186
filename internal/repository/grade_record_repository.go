package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// GradeRecordRepository manages grade_records.
type GradeRecordRepository struct {
	db *sqlx.DB
}

// NewGradeRecordRepository constructs the repository.
func NewGradeRecordRepository(db *sqlx.DB) *GradeRecordRepository {
	return &GradeRecordRepository{db: db}
}

// ListByCourse returns every grade record of a course.
func (r *GradeRecordRepository) ListByCourse(ctx context.Context, courseID string) ([]models.GradeRecord, error) {
	const query = `SELECT id, student_id, course_id, unit, cc, cp, ca, created_at, updated_at FROM grade_records WHERE course_id = $1 ORDER BY student_id, unit`
	var records []models.GradeRecord
	if err := r.db.SelectContext(ctx, &records, query, courseID); err != nil {
		return nil, fmt.Errorf("list grade records: %w", err)
	}
	return records, nil
}

// UpsertBatch writes every record in one transaction. A record replaces the
// stored one with the same (student, course, unit).
func (r *GradeRecordRepository) UpsertBatch(ctx context.Context, records []models.GradeRecord) error {
	if len(records) == 0 {
		return nil
	}
	const query = `INSERT INTO grade_records (id, student_id, course_id, unit, cc, cp, ca, created_at, updated_at)
VALUES (:id, :student_id, :course_id, :unit, :cc, :cp, :ca, :created_at, :updated_at)
ON CONFLICT (student_id, course_id, unit) DO UPDATE SET cc = EXCLUDED.cc, cp = EXCLUDED.cp, ca = EXCLUDED.ca, updated_at = EXCLUDED.updated_at`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin grade save tx: %w", err)
	}
	now := time.Now().UTC()
	for i := range records {
		rec := &records[i]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		rec.UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, rec); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("upsert grade record %s/u%d: %w", rec.StudentID, rec.Unit, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit grade save: %w", err)
	}
	return nil
}
