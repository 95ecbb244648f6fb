package contacts

import (
	"context"
	"sync"

	"github.com/dmitrymomot/notifykit/pkg/notifications"
)

// MemoryDirectory is an in-memory notifications.ContactLookup.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]notifications.Contact
}

func NewMemoryDirectory(users map[string]notifications.Contact) *MemoryDirectory {
	d := &MemoryDirectory{users: make(map[string]notifications.Contact, len(users))}
	for id, c := range users {
		d.users[id] = c
	}
	return d
}

func (d *MemoryDirectory) Get(_ context.Context, userID string) (notifications.Contact, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.users[userID]
	if !ok {
		return notifications.Contact{}, notifications.ErrContactNotFound
	}
	return c, nil
}

func (d *MemoryDirectory) Put(_ context.Context, userID string, c notifications.Contact) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[userID] = c
	return nil
}

// MemoryTokens is an in-memory notifications.TokenLookup.
type MemoryTokens struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryTokens() *MemoryTokens {
	return &MemoryTokens{tokens: make(map[string]string)}
}

func (t *MemoryTokens) Get(_ context.Context, userID string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tok, ok := t.tokens[userID]
	if !ok || tok == "" {
		return "", notifications.ErrTokenNotFound
	}
	return tok, nil
}

func (t *MemoryTokens) Set(_ context.Context, userID, token string) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tokens[userID] = token
	return nil
}
