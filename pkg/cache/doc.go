// Package cache provides a generic, concurrency-safe LRU cache with an
// optional per-entry time to live.
//
// The dispatcher uses it to keep recently resolved user contacts in memory so
// bursts of events for the same user hit the directory once:
//
//	c := cache.New[string, notifications.Contact](1024, cache.WithTTL(time.Minute))
//	c.Put("user-1", contact)
//	contact, ok := c.Get("user-1")
//
// Expired entries are dropped lazily on access and counted as misses.
package cache
