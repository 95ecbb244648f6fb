// Package contacts provides the user contact and push token lookups consumed
// by the dispatcher: a MongoDB-backed user directory, a Redis-backed push
// token store, and in-memory variants of both for development and tests.
package contacts
