package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/notifykit/pkg/notifications"
	"github.com/dmitrymomot/notifykit/pkg/templates"
)

// DB is the subset of *pgxpool.Pool used by RecordStorage.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const recordColumns = `id, user_id, event, type, channel, title, message, priority, status,
	reason, is_read, idempotency_key, metadata, created_at, updated_at`

// RecordStorage implements notifications.RecordStore on PostgreSQL.
type RecordStorage struct {
	db  DB
	now func() time.Time
}

func NewRecordStorage(db DB) *RecordStorage {
	return &RecordStorage{db: db, now: time.Now}
}

func (s *RecordStorage) Create(ctx context.Context, rec notifications.Record) error {
	if rec.IdempotencyKey == "" || rec.UserID == "" {
		return fmt.Errorf("%w: user id and idempotency key are required", notifications.ErrInvalidRequest)
	}

	priority, err := rec.Priority.MarshalText()
	if err != nil {
		return err
	}
	metadata, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return err
	}
	if rec.Status == "" {
		rec.Status = notifications.StatusPending
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}

	tag, err := s.db.Exec(ctx, `INSERT INTO notification_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (idempotency_key) DO NOTHING`,
		rec.ID, rec.UserID, rec.Event, rec.Type, string(rec.Channel), rec.Title, rec.Message,
		string(priority), string(rec.Status), rec.Reason, rec.IsRead, rec.IdempotencyKey,
		metadata, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if IsDuplicateKeyError(err) {
			return notifications.ErrRecordExists
		}
		return fmt.Errorf("failed to insert notification record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notifications.ErrRecordExists
	}
	return nil
}

func (s *RecordStorage) UpdateStatus(ctx context.Context, key string, status notifications.Status, reason string) error {
	if err := notifications.ValidateTransition(notifications.StatusPending, status); err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `UPDATE notification_records
		SET status = $2, reason = $3, updated_at = $4
		WHERE idempotency_key = $1 AND status = 'pending'`,
		key, string(status), reason, s.now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update notification status: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current string
	err = s.db.QueryRow(ctx, `SELECT status FROM notification_records WHERE idempotency_key = $1`, key).Scan(&current)
	switch {
	case IsNotFoundError(err):
		return notifications.ErrRecordNotFound
	case err != nil:
		return fmt.Errorf("failed to read notification status: %w", err)
	}
	return fmt.Errorf("%w: %s -> %s", notifications.ErrInvalidTransition, current, status)
}

func (s *RecordStorage) Get(ctx context.Context, key string) (*notifications.Record, error) {
	rows, err := s.db.Query(ctx, `SELECT `+recordColumns+` FROM notification_records WHERE idempotency_key = $1`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification record: %w", err)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, scanRecord)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, notifications.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to read notification record: %w", err)
	}
	return &rec, nil
}

func (s *RecordStorage) List(ctx context.Context, userID string, opts notifications.ListOptions) ([]notifications.Record, error) {
	query, args := buildListQuery(userID, opts)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification records: %w", err)
	}
	recs, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("failed to read notification records: %w", err)
	}
	return recs, nil
}

func buildListQuery(userID string, opts notifications.ListOptions) (string, []any) {
	var b strings.Builder
	args := []any{userID}
	b.WriteString(`SELECT ` + recordColumns + ` FROM notification_records WHERE user_id = $1`)

	add := func(cond string, v any) {
		args = append(args, v)
		fmt.Fprintf(&b, " AND %s $%d", cond, len(args))
	}
	if opts.Channel != "" {
		add("channel =", string(opts.Channel))
	}
	if opts.Status != "" {
		add("status =", string(opts.Status))
	}
	if opts.Event != "" {
		add("event =", opts.Event)
	}
	if opts.Since != nil {
		add("created_at >=", *opts.Since)
	}

	b.WriteString(" ORDER BY created_at DESC, id")
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

func scanRecord(row pgx.CollectableRow) (notifications.Record, error) {
	var (
		rec      notifications.Record
		channel  string
		priority string
		status   string
		metadata []byte
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Event, &rec.Type, &channel, &rec.Title, &rec.Message,
		&priority, &status, &rec.Reason, &rec.IsRead, &rec.IdempotencyKey,
		&metadata, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return rec, err
	}

	rec.Channel = notifications.Channel(channel)
	rec.Status = notifications.Status(status)
	if err := rec.Priority.UnmarshalText([]byte(priority)); err != nil {
		return rec, err
	}
	if rec.Metadata, err = decodeMetadata(metadata); err != nil {
		return rec, err
	}
	return rec, nil
}

func encodeMetadata(p templates.Payload) ([]byte, error) {
	if len(p) == 0 {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Join(notifications.ErrInvalidRequest, err)
	}
	return b, nil
}

func decodeMetadata(b []byte) (templates.Payload, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var p templates.Payload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if len(p) == 0 {
		return nil, nil
	}
	return p, nil
}
