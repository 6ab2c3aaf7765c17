package domain

import "errors"

var (
	ErrSearchUnavailable = errors.New("search provider unavailable")
	ErrEmptyLocation     = errors.New("location is required")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrNotFound          = errors.New("not found")
	ErrNoImage           = errors.New("no image for place")
)
