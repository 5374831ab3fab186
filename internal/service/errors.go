package service

import (
	"database/sql"
	"errors"

	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

func notFoundOrInternal(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Internal(err, internal)
}
