package record

import "errors"

var (
	// ErrAlreadyPersisted is returned by Save for an instance that already has an id
	ErrAlreadyPersisted = errors.New("record already persisted")

	// ErrNotPersisted is returned by Update and Delete for an instance without an id
	ErrNotPersisted = errors.New("record not persisted")

	// ErrUnknownColumn is returned when filtering on a column the table does not persist
	ErrUnknownColumn = errors.New("unknown column")
)
