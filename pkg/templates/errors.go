package templates

import "errors"

var (
	ErrMissingInApp = errors.New("templates: set must define an in_app template")
	ErrEmptyEvent   = errors.New("templates: event name is required")
)
