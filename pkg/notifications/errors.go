package notifications

import "errors"

var (
	ErrInvalidEvent      = errors.New("notifications: unknown event")
	ErrInvalidRequest    = errors.New("notifications: invalid request")
	ErrContactNotFound   = errors.New("notifications: user contact not found")
	ErrTokenNotFound     = errors.New("notifications: push token not found")
	ErrRecordExists      = errors.New("notifications: record already exists")
	ErrRecordNotFound    = errors.New("notifications: record not found")
	ErrInvalidTransition = errors.New("notifications: invalid status transition")
	ErrCreateRecords     = errors.New("notifications: failed to create records")
)
