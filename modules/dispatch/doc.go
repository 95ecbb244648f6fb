// Package dispatch exposes the notification engine over HTTP.
//
// Routes:
//
//	POST /dispatch                    accept an event for a user (202 + receipt)
//	GET  /records/{key}               one record by idempotency key
//	GET  /users/{userID}/records      a user's records, newest first
//	GET  /users/{userID}/stream       Server-Sent Events of new in-app records
//
// POST /dispatch answers 422 for unknown events and 400 for malformed bodies.
// The receipt carries only record keys; delivery outcomes are read back
// through the records endpoints. A missing idempotency_key in the body falls
// back to the Idempotency-Key header.
package dispatch
