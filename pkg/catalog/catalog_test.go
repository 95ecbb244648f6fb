package catalog_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/catalog"
	"github.com/dmitrymomot/notifykit/pkg/notifications"
	"github.com/dmitrymomot/notifykit/pkg/templates"
)

const sample = `
events:
  invoice_ready:
    type: billing
    priority: urgent
    templates:
      email:
        subject: "Invoice {{number}}"
        body: "<p>Invoice {{number}} is ready</p>"
      in_app:
        body: "Invoice {{number}} is ready"
  ping:
    type: system
`

func TestDefault(t *testing.T) {
	t.Parallel()

	c, err := catalog.Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"order_delivered", "order_shipped", "password_changed", "payment_failed", "welcome"}, c.Names())

	shipped := c.Events["order_shipped"]
	assert.Equal(t, notifications.EventConfig{Type: "order", Priority: notifications.PriorityHigh}, shipped.Config())
	assert.Equal(t, "Order 42 shipped. Tracking: TRK1",
		templates.Render(shipped.Templates.For("sms").Body, templates.Payload{
			"order_id":        templates.Int(42),
			"tracking_number": templates.String("TRK1"),
		}))
	assert.Nil(t, c.Events["password_changed"].Templates)
}

func TestParse(t *testing.T) {
	t.Parallel()

	c, err := catalog.Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, notifications.PriorityUrgent, c.Events["invoice_ready"].Config().Priority)
	assert.Equal(t, notifications.PriorityNormal, c.Events["ping"].Config().Priority)
	assert.Equal(t, "Invoice {{number}}", c.Events["invoice_ready"].Templates["email"].Subject)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "events: ["},
		{"empty", "events: {}"},
		{"unknown field", "events:\n  a:\n    type: x\n    colour: red\n"},
		{"missing type", "events:\n  a:\n    priority: low\n"},
		{"bad priority", "events:\n  a:\n    type: x\n    priority: meh\n"},
		{"unknown channel", "events:\n  a:\n    type: x\n    templates:\n      fax: {body: hi}\n      in_app: {body: hi}\n"},
		{"no in_app template", "events:\n  a:\n    type: x\n    templates:\n      email: {body: hi}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := catalog.Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	c, err := catalog.Parse([]byte(sample))
	require.NoError(t, err)

	reg := notifications.NewRegistry(nil)
	src := templates.NewMemorySource()
	require.NoError(t, c.Apply(reg, src))

	assert.Equal(t, []string{"invoice_ready", "ping"}, reg.Events())
	cfg, ok := reg.Lookup("invoice_ready")
	require.True(t, ok)
	assert.Equal(t, "billing", cfg.Type)

	set, ok, err := src.Lookup(context.Background(), "invoice_ready")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Invoice {{number}} is ready", set["in_app"].Body)

	_, ok, err = src.Lookup(context.Background(), "ping")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApply_WithoutTemplates(t *testing.T) {
	t.Parallel()

	c, err := catalog.Parse([]byte(sample))
	require.NoError(t, err)

	reg := notifications.NewRegistry(nil)
	require.NoError(t, c.Apply(reg, nil))
	assert.Len(t, reg.Events(), 2)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	c, err := catalog.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, c.Events, 2)

	_, err = catalog.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, catalog.ErrLoadFailed)
}

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func objectInput(bucket, key string) any {
	return mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return *in.Bucket == bucket && *in.Key == key
	})
}

func TestLoadS3(t *testing.T) {
	t.Parallel()

	cfg := catalog.Config{S3Bucket: "configs", S3Key: "notify/catalog.yaml"}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, objectInput("configs", "notify/catalog.yaml"), mock.Anything).
			Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(sample))}, nil)

		c, err := catalog.LoadS3(context.Background(), cfg, catalog.WithS3Client(client))
		require.NoError(t, err)
		assert.Equal(t, []string{"invoice_ready", "ping"}, c.Names())
		client.AssertExpectations(t)
	})

	t.Run("missing object", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist."})

		_, err := catalog.LoadS3(context.Background(), cfg, catalog.WithS3Client(client))
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("other error", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("dial tcp: timeout"))

		_, err := catalog.LoadS3(context.Background(), cfg, catalog.WithS3Client(client))
		assert.ErrorIs(t, err, catalog.ErrLoadFailed)
	})

	t.Run("invalid document", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, mock.Anything, mock.Anything).
			Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("events: {}"))}, nil)

		_, err := catalog.LoadS3(context.Background(), cfg, catalog.WithS3Client(client))
		assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
	})

	t.Run("missing bucket", func(t *testing.T) {
		t.Parallel()
		_, err := catalog.LoadS3(context.Background(), catalog.Config{S3Key: "k"})
		assert.ErrorIs(t, err, catalog.ErrInvalidConfig)
	})
}

func TestLoad_Selection(t *testing.T) {
	t.Parallel()

	c, err := catalog.Load(context.Background(), catalog.Config{})
	require.NoError(t, err)
	assert.Contains(t, c.Names(), "order_shipped")

	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	c, err = catalog.Load(context.Background(), catalog.Config{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"invoice_ready", "ping"}, c.Names())
}
