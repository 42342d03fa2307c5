package db

import (
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"otter/server/internal/bookmark"
)

// invalid_text_representation: raised when a malformed uuid reaches an id
// comparison.
const pgInvalidTextRepresentation = "22P02"

// classify maps driver errors onto domain errors and wraps everything else.
func classify(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return bookmark.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation {
		return bookmark.ErrNotFound
	}
	return errors.Wrap(err, op)
}
