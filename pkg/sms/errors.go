package sms

import "errors"

var (
	ErrInvalidConfig    = errors.New("sms: invalid config")
	ErrInvalidPhone     = errors.New("sms: invalid phone number")
	ErrGatewayFailure   = errors.New("sms: gateway failure")
	ErrCircuitOpen      = errors.New("sms: circuit breaker is open")
	ErrInvalidSignature = errors.New("sms: invalid signature")
)
