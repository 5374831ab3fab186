package repository

import "github.com/google/uuid"

// isUUID reports whether id can be compared against a UUID column. Postgres
// rejects the whole statement otherwise, so callers answer sql.ErrNoRows.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
