package storage

import "errors"

// Errors every OrderArchive backend reports. Match them with errors.Is.
var (
	ErrNotFound     = errors.New("order is not archived")
	ErrDuplicateKey = errors.New("order is already archived")
	ErrInvalidInput = errors.New("order without id cannot be archived")
)
