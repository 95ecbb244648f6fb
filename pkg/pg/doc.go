// Package pg provides the PostgreSQL layer: a pgx connection pool with retry,
// embedded goose migrations, a health check and RecordStorage, the
// notification record store backed by the notification_records table.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    return err
//	}
//
//	store := pg.NewRecordStorage(pool)
//
// RecordStorage treats the idempotency key as the natural key: inserting an
// existing key is a no-op reported as notifications.ErrRecordExists, and
// status updates only apply to pending rows.
package pg
