package contacts

import "errors"

var (
	ErrInvalidUserID = errors.New("contacts: user id is required")
	ErrInvalidSeed   = errors.New("contacts: invalid seed file")
)
