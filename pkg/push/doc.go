// Package push delivers the push channel through Firebase Cloud Messaging.
//
// FCMTransport sends one HTTP v1 message per call. Credentials come from a
// service account JSON document, either inline or read from a file. The
// transport reports failures as errors; a token FCM no longer recognises is
// wrapped with ErrInvalidToken so callers can forget it.
//
// LogTransport only logs messages and is meant for development.
package push
