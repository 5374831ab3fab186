package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema creates every gradebook table. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		last_login TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token TEXT NOT NULL UNIQUE,
		expires_at TIMESTAMPTZ NOT NULL,
		revoked BOOLEAN NOT NULL DEFAULT FALSE,
		revoked_at TIMESTAMPTZ,
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id UUID PRIMARY KEY,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		term TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id UUID PRIMARY KEY,
		course_id UUID NOT NULL REFERENCES courses(id),
		code TEXT NOT NULL,
		surname TEXT NOT NULL,
		given_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_students_course ON students(course_id)`,
	`CREATE TABLE IF NOT EXISTS weight_configs (
		course_id UUID PRIMARY KEY REFERENCES courses(id),
		u1_cc NUMERIC(6,3) NOT NULL,
		u1_cp NUMERIC(6,3) NOT NULL,
		u1_ca NUMERIC(6,3) NOT NULL,
		u2_cc NUMERIC(6,3) NOT NULL,
		u2_cp NUMERIC(6,3) NOT NULL,
		u2_ca NUMERIC(6,3) NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS grade_records (
		id UUID PRIMARY KEY,
		student_id UUID NOT NULL REFERENCES students(id),
		course_id UUID NOT NULL REFERENCES courses(id),
		unit SMALLINT NOT NULL CHECK (unit IN (1, 2)),
		cc TEXT[] NOT NULL DEFAULT '{}',
		cp TEXT[] NOT NULL DEFAULT '{}',
		ca TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (student_id, course_id, unit)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_grade_records_course ON grade_records(course_id)`,
}

// Migrate applies the schema inside a single transaction.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
