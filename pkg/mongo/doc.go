// Package mongo connects to MongoDB with the official v2 driver and exposes a
// readiness probe. Connection settings come from environment variables, see
// Config.
package mongo
