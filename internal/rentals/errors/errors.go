package errors

import "errors"

var (
	ErrNotFound = errors.New("rental record not found")

	ErrInvalidID = errors.New("invalid rental record ID format")
)
