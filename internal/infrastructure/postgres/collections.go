package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ops-hub/internal/domain"
)

// snapshotLimit bounds the snapshot delivered on each push; the backend
// owns the collections and keeps them small.
const snapshotLimit = 10000

// CollectionRepository reads the backend-owned document collections from
// the records table and exposes push subscriptions over LISTEN/NOTIFY.
// The backend fires NOTIFY on channel "records_<collection>" whenever a
// collection changes.
// Implements domain.CollectionStore.
type CollectionRepository struct {
	db     DB
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewCollectionRepository creates a collection repository. pool may be
// nil when subscriptions are not needed (one-shot fetches only).
func NewCollectionRepository(db DB, pool *pgxpool.Pool, logger *slog.Logger) *CollectionRepository {
	return &CollectionRepository{db: db, pool: pool, logger: logger}
}

// FetchCollection returns a one-shot snapshot capped at limit records.
func (r *CollectionRepository) FetchCollection(ctx context.Context, name string, limit int) ([]domain.Record, error) {
	query := `
		SELECT id, data
		FROM records
		WHERE collection = $1
		ORDER BY id
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, name, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCollectionFetch, name, err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var (
			rec domain.Record
			raw []byte
		)
		if err := rows.Scan(&rec.ID, &raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrCollectionFetch, name, err)
		}
		if err := json.Unmarshal(raw, &rec.Data); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrCollectionFetch, name, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCollectionFetch, name, err)
	}

	return records, nil
}

// SubscribeCollection LISTENs on the collection's notify channel,
// delivers an initial snapshot synchronously, then a fresh snapshot per
// NOTIFY. The returned func releases the dedicated connection.
func (r *CollectionRepository) SubscribeCollection(ctx context.Context, name string, onSnapshot func([]domain.Record)) (func(), error) {
	if r.pool == nil {
		return nil, fmt.Errorf("%w: no pool for subscriptions", domain.ErrCollectionFetch)
	}

	subCtx, cancel := context.WithCancel(ctx)

	conn, err := r.pool.Acquire(subCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCollectionFetch, name, err)
	}

	channel := pgx.Identifier{"records_" + name}.Sanitize()
	if _, err := conn.Exec(subCtx, "LISTEN "+channel); err != nil {
		conn.Release()
		cancel()
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCollectionFetch, name, err)
	}

	initial, err := r.FetchCollection(subCtx, name, snapshotLimit)
	if err != nil {
		conn.Release()
		cancel()
		return nil, err
	}
	onSnapshot(initial)

	go r.listen(subCtx, conn, name, onSnapshot)

	return cancel, nil
}

// listen waits for notifications and pushes fresh snapshots until the
// subscription context is cancelled.
func (r *CollectionRepository) listen(ctx context.Context, conn *pgxpool.Conn, name string, onSnapshot func([]domain.Record)) {
	defer conn.Release()

	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			if ctx.Err() == nil {
				r.logger.Warn("collection subscription lost", "collection", name, "error", err)
			}
			return
		}

		snapshot, err := r.FetchCollection(ctx, name, snapshotLimit)
		if err != nil {
			// Keep the subscription; the next notify retries the read.
			r.logger.Warn("snapshot refresh failed", "collection", name, "error", err)
			continue
		}
		onSnapshot(snapshot)
	}
}
