// Package redis connects to Redis with go-redis v9 and exposes a readiness
// probe. Connection settings come from environment variables, see Config.
package redis
