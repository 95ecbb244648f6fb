package notifications

import (
	"context"

	"github.com/dmitrymomot/notifykit/pkg/broadcast"
)

// BroadcastPublisher streams in-app records to live subscribers, one topic per user.
type BroadcastPublisher struct {
	hub *broadcast.Hub[Record]
}

func NewBroadcastPublisher(opts ...broadcast.Option) *BroadcastPublisher {
	return &BroadcastPublisher{hub: broadcast.NewHub[Record](opts...)}
}

// Publish never blocks; subscribers that fall behind miss records.
func (p *BroadcastPublisher) Publish(ctx context.Context, rec Record) error {
	_, err := p.hub.Publish(ctx, rec.UserID, rec)
	return err
}

// Subscribe returns a subscription to userID's in-app records. It ends when ctx is done.
func (p *BroadcastPublisher) Subscribe(ctx context.Context, userID string) *broadcast.Subscription[Record] {
	return p.hub.Subscribe(ctx, userID)
}

func (p *BroadcastPublisher) Close() error {
	return p.hub.Close()
}
