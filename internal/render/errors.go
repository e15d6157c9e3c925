package render

import "errors"

var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrNoDocument    = errors.New("no document to render")
)
