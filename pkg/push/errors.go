package push

import "errors"

var (
	ErrInvalidConfig = errors.New("push: invalid config")
	ErrEmptyToken    = errors.New("push: empty device token")
	ErrInvalidToken  = errors.New("push: device token is not registered")
	ErrSendFailed    = errors.New("push: failed to send message")
)
