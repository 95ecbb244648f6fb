// Package sms delivers the SMS channel through an HTTP gateway.
//
// GatewayTransport makes one JSON POST per message:
//
//	{"to": "+15550100", "from": "notifykit", "body": "Your order shipped"}
//
// A 2xx answer means delivered. A permanent 4xx answer means the gateway
// declined the message, reported as not delivered without an error. Network
// failures, timeouts, 408, 429 and 5xx answers are returned as errors. When a
// signing secret is configured the request carries an HMAC-SHA256 signature
// over "<timestamp>.<body>" in the X-Signature and X-Signature-Timestamp
// headers. A circuit breaker stops calling a gateway that keeps failing.
//
// LogTransport only logs messages and is meant for development.
package sms
