package directory

import "errors"

var (
	ErrEntityNotFound    = errors.New("entity not found")
	ErrUnknownEntityKind = errors.New("unknown entity kind")
)
