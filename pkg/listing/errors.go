package listing

import "errors"

var (
	ErrUnknownEntity = errors.New("listing: unknown entity")
	ErrInvalidFilter = errors.New("listing: invalid filter")
	ErrInvalidSort   = errors.New("listing: invalid sort key")
	ErrInvalidConfig = errors.New("listing: invalid configuration")
)
