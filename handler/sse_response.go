package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// EventSender writes Server-Sent Events. It is safe for concurrent use.
type EventSender interface {
	// Send writes one event with data encoded as JSON. Empty event and id
	// are omitted.
	Send(event, id string, data any) error
}

// StreamFunc runs for the lifetime of the connection; ctx ends when the
// client goes away. Returning closes the stream.
type StreamFunc func(ctx context.Context, send EventSender)

type StreamOption func(*sseResponse)

// WithHeartbeat writes a comment line every d so proxies keep the stream open.
func WithHeartbeat(d time.Duration) StreamOption {
	return func(s *sseResponse) { s.heartbeat = d }
}

// WithRetry asks the client to reconnect after d.
func WithRetry(d time.Duration) StreamOption {
	return func(s *sseResponse) { s.retry = d }
}

type sseResponse struct {
	fn        StreamFunc
	heartbeat time.Duration
	retry     time.Duration
}

// Stream returns a text/event-stream Response driven by fn.
func Stream(fn StreamFunc, opts ...StreamOption) Response {
	s := &sseResponse{fn: fn}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sseResponse) Render(w http.ResponseWriter, r *http.Request) error {
	rc := http.NewResponseController(w)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	sender := &sseWriter{w: w, rc: rc}
	if s.retry > 0 {
		if err := sender.write(fmt.Sprintf("retry: %d\n\n", s.retry.Milliseconds())); err != nil {
			return nil
		}
	} else if err := sender.flush(); err != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var wg sync.WaitGroup
	if s.heartbeat > 0 {
		wg.Go(func() {
			t := time.NewTicker(s.heartbeat)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					if sender.write(": ping\n\n") != nil {
						cancel()
						return
					}
				}
			}
		})
	}

	s.fn(ctx, sender)
	cancel()
	wg.Wait()
	return nil
}

type sseWriter struct {
	mu sync.Mutex
	w  http.ResponseWriter
	rc *http.ResponseController
}

func (s *sseWriter) Send(event, id string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}

	var b strings.Builder
	if id != "" {
		b.WriteString("id: " + id + "\n")
	}
	if event != "" {
		b.WriteString("event: " + event + "\n")
	}
	b.WriteString("data: ")
	b.Write(payload)
	b.WriteString("\n\n")
	return s.write(b.String())
}

func (s *sseWriter) write(chunk string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write([]byte(chunk)); err != nil {
		return err
	}
	return s.rc.Flush()
}

func (s *sseWriter) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rc.Flush()
}
