package mongo

import "errors"

var (
	ErrFailedToConnectToMongo = errors.New("mongo: contact directory unreachable")
	ErrHealthcheckFailed      = errors.New("mongo: healthcheck failed")
)
