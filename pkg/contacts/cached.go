package contacts

import (
	"context"

	"github.com/dmitrymomot/notifykit/pkg/cache"
	"github.com/dmitrymomot/notifykit/pkg/notifications"
)

// CachedDirectory serves repeated lookups from an LRU. Only found contacts
// are cached.
type CachedDirectory struct {
	next  notifications.ContactLookup
	cache *cache.LRU[string, notifications.Contact]
}

func NewCachedDirectory(next notifications.ContactLookup, c *cache.LRU[string, notifications.Contact]) *CachedDirectory {
	return &CachedDirectory{next: next, cache: c}
}

func (d *CachedDirectory) Get(ctx context.Context, userID string) (notifications.Contact, error) {
	if c, ok := d.cache.Get(userID); ok {
		return c, nil
	}
	c, err := d.next.Get(ctx, userID)
	if err != nil {
		return notifications.Contact{}, err
	}
	d.cache.Put(userID, c)
	return c, nil
}

// Invalidate drops userID so the next lookup reaches the directory.
func (d *CachedDirectory) Invalidate(userID string) {
	d.cache.Remove(userID)
}
