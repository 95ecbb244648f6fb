// Package notifications fans a single business event out to every delivery
// channel of one user and tracks the outcome of each channel.
//
// The Dispatcher validates the event against a Registry, looks up the user's
// contact details, renders per-channel content through a templates.Resolver
// and persists one pending Record per channel before any delivery starts.
// Deliveries then run concurrently in the background; each channel writes
// its own terminal status back to the RecordStore, addressed by the record's
// idempotency key. Callers observe outcomes by polling the store.
//
// Basic usage:
//
//	registry := notifications.NewRegistry(map[string]notifications.EventConfig{
//	    "order_shipped": {Type: "order", Priority: notifications.PriorityHigh},
//	})
//	store := notifications.NewMemoryStorage()
//
//	d := notifications.NewDispatcher(registry, contacts, store,
//	    notifications.WithEmailTransport(emailTransport),
//	    notifications.WithPushTransport(pushTransport),
//	    notifications.WithTokenLookup(tokens),
//	)
//	defer d.Shutdown(ctx)
//
//	receipt, err := d.Dispatch(ctx, notifications.Request{
//	    UserID:  "user-1",
//	    Event:   "order_shipped",
//	    Payload: templates.Payload{"order_id": templates.String("A-42")},
//	})
//
// Records move from pending to either sent or failed exactly once. A record
// whose idempotency key already exists is never created or delivered again.
package notifications
