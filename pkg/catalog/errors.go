package catalog

import "errors"

var (
	ErrInvalidCatalog = errors.New("catalog: invalid catalog")
	ErrInvalidConfig  = errors.New("catalog: invalid config")
	ErrNotFound       = errors.New("catalog: object not found")
	ErrLoadFailed     = errors.New("catalog: failed to load")
)
