package orchestrators

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrNoClinic = errors.New("account has no clinic")
)

// notFound maps a store miss to ErrNotFound and passes other errors through.
func notFound(what string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
