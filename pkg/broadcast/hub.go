package broadcast

import (
	"context"
	"sync"
)

const DefaultBufferSize = 16

// Option configures a Hub.
type Option func(*options)

type options struct {
	bufferSize int
}

// WithBufferSize sets the per-subscription buffer. Values below 1 are raised to 1.
func WithBufferSize(n int) Option {
	return func(o *options) {
		o.bufferSize = max(n, 1)
	}
}

// Hub delivers values of type T to subscribers of a topic.
// All methods are safe for concurrent use.
type Hub[T any] struct {
	mu         sync.RWMutex
	topics     map[string]map[*Subscription[T]]struct{}
	bufferSize int
	closed     bool
	watchers   sync.WaitGroup
}

func NewHub[T any](opts ...Option) *Hub[T] {
	o := options{bufferSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &Hub[T]{
		topics:     make(map[string]map[*Subscription[T]]struct{}),
		bufferSize: o.bufferSize,
	}
}

// Subscribe registers a subscription on topic. It is removed automatically
// when ctx is done. Subscribing to a closed hub returns a closed subscription.
func (h *Hub[T]) Subscribe(ctx context.Context, topic string) *Subscription[T] {
	sub := &Subscription[T]{
		topic: topic,
		ch:    make(chan T, h.bufferSize),
		done:  make(chan struct{}),
		hub:   h,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.closeOnce.Do(func() {
			close(sub.done)
			close(sub.ch)
		})
		return sub
	}
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Subscription[T]]struct{})
	}
	h.topics[topic][sub] = struct{}{}
	h.watchers.Add(1)
	h.mu.Unlock()

	go func() {
		defer h.watchers.Done()
		select {
		case <-ctx.Done():
			_ = sub.Close()
		case <-sub.done:
		}
	}()

	return sub
}

// Publish sends v to every subscriber of topic without blocking and returns
// how many subscribers accepted it.
func (h *Hub[T]) Publish(_ context.Context, topic string, v T) (int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return 0, ErrHubClosed
	}

	delivered := 0
	for sub := range h.topics[topic] {
		select {
		case sub.ch <- v:
			delivered++
		default:
		}
	}
	return delivered, nil
}

// Subscribers returns the number of live subscriptions on topic.
func (h *Hub[T]) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Close ends every subscription. It is safe to call more than once.
func (h *Hub[T]) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	var subs []*Subscription[T]
	for _, set := range h.topics {
		for sub := range set {
			subs = append(subs, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
	h.watchers.Wait()
	return nil
}

func (h *Hub[T]) remove(sub *Subscription[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.topics[sub.topic]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.topics, sub.topic)
		}
	}
	close(sub.ch)
}

// Subscription receives values published to one topic.
type Subscription[T any] struct {
	topic     string
	ch        chan T
	done      chan struct{}
	closeOnce sync.Once
	hub       *Hub[T]
}

// C returns the receive channel. It is closed when the subscription ends.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

func (s *Subscription[T]) Topic() string {
	return s.topic
}

// Close ends the subscription. It is idempotent.
func (s *Subscription[T]) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.hub.remove(s)
	})
	return nil
}
