package notifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeContacts struct {
	users map[string]Contact
	err   error
	calls int
	mu    sync.Mutex
}

func (f *fakeContacts) Get(_ context.Context, userID string) (Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Contact{}, f.err
	}
	c, ok := f.users[userID]
	if !ok {
		return Contact{}, ErrContactNotFound
	}
	return c, nil
}

type fakeTokens map[string]string

func (f fakeTokens) Get(_ context.Context, userID string) (string, error) {
	t, ok := f[userID]
	if !ok {
		return "", ErrTokenNotFound
	}
	return t, nil
}

// MockEmail is a testify mock for EmailTransport.
type MockEmail struct {
	mock.Mock
}

func (m *MockEmail) Send(ctx context.Context, address, body, subject string) (bool, error) {
	args := m.Called(ctx, address, body, subject)
	return args.Bool(0), args.Error(1)
}

// MockSMS is a testify mock for SMSTransport.
type MockSMS struct {
	mock.Mock
}

func (m *MockSMS) Send(ctx context.Context, phone, body string) (bool, error) {
	args := m.Called(ctx, phone, body)
	return args.Bool(0), args.Error(1)
}

// MockPush is a testify mock for PushTransport.
type MockPush struct {
	mock.Mock
}

func (m *MockPush) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	args := m.Called(ctx, token, title, body, data)
	return args.Error(0)
}

type panicEmail struct{}

func (panicEmail) Send(context.Context, string, string, string) (bool, error) {
	panic("smtp client exploded")
}

// blockingPush blocks until release is closed.
type blockingPush struct {
	release chan struct{}
}

func (b *blockingPush) Send(ctx context.Context, _, _, _ string, _ map[string]string) error {
	<-b.release
	return ctx.Err()
}

type recordingPublisher struct {
	mu      sync.Mutex
	records []Record
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, rec Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, rec)
	return p.err
}

// faultyStore wraps MemoryStorage and fails selected operations.
type faultyStore struct {
	*MemoryStorage
	failCreate  Channel
	failUpdates bool
}

var errStoreDown = errors.New("store unavailable")

func (f *faultyStore) Create(ctx context.Context, rec Record) error {
	if rec.Channel == f.failCreate {
		return errStoreDown
	}
	return f.MemoryStorage.Create(ctx, rec)
}

func (f *faultyStore) UpdateStatus(ctx context.Context, key string, status Status, reason string) error {
	if f.failUpdates {
		return errStoreDown
	}
	return f.MemoryStorage.UpdateStatus(ctx, key, status, reason)
}

type countingObserver struct {
	mu       sync.Mutex
	outcomes []Outcome
	created  int
	started  int
	finished map[Status]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{finished: make(map[Status]int)}
}

func (o *countingObserver) DispatchHandled(_ string, outcome Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *countingObserver) RecordCreated(Channel) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created++
}

func (o *countingObserver) DeliveryStarted(Channel) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
}

func (o *countingObserver) DeliveryFinished(_ Channel, status Status, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished[status]++
}

func testRegistry() *Registry {
	return NewRegistry(map[string]EventConfig{
		"order_shipped": {Type: "order", Priority: PriorityHigh},
		"welcome":       {Type: "account", Priority: PriorityNormal},
	})
}

func recordFor(t *testing.T, store RecordStore, receipt Receipt, ch Channel) *Record {
	t.Helper()
	key, ok := receipt.Keys[ch]
	require.True(t, ok, "no key for channel %s", ch)
	rec, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	return rec
}
