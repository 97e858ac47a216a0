package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pontosync/internal/domain/sync"
)

// Enqueue appends one PENDING action. Called on a Tx it joins the
// caller's transaction, making write+enqueue atomic.
func (q *queries) Enqueue(ctx context.Context, actionType sync.ActionType, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("falha ao serializar payload: %w", err)
	}

	id := uuid.NewString()
	_, err = q.q.ExecContext(ctx, `
		INSERT INTO outbox (id, action_type, payload, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, string(actionType), string(raw), string(OutboxPending), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("falha ao enfileirar ação: %w", err)
	}
	return id, nil
}

// ListPending returns PENDING and FAILED entries in creation order.
// FAILED entries are retried on every cycle.
func (q *queries) ListPending(ctx context.Context) ([]OutboxEntry, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT id, action_type, payload, status, retry_count, last_error, created_at, last_try_at
		FROM outbox
		WHERE status IN (?, ?)
		ORDER BY created_at
	`, string(OutboxPending), string(OutboxFailed))
	if err != nil {
		return nil, fmt.Errorf("falha ao listar outbox: %w", err)
	}
	defer rows.Close()

	var entries []OutboxEntry
	for rows.Next() {
		var e OutboxEntry
		var actionType, payload, status string
		var lastTry sql.NullTime
		if err := rows.Scan(&e.ID, &actionType, &payload, &status, &e.RetryCount, &e.LastError, &e.CreatedAt, &lastTry); err != nil {
			return nil, err
		}
		e.Type = sync.ActionType(actionType)
		e.Payload = json.RawMessage(payload)
		e.Status = OutboxStatus(status)
		if lastTry.Valid {
			t := lastTry.Time
			e.LastTryAt = &t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MarkSent is an idempotent no-op on unknown ids.
func (q *queries) MarkSent(ctx context.Context, id string) error {
	_, err := q.q.ExecContext(ctx, `
		UPDATE outbox SET status = ?, last_error = '', last_try_at = ? WHERE id = ?
	`, string(OutboxSent), time.Now().UTC(), id)
	return err
}

// MarkFailed records the failure reason and bumps retry_count. No-op on
// unknown ids.
func (q *queries) MarkFailed(ctx context.Context, id, reason string) error {
	_, err := q.q.ExecContext(ctx, `
		UPDATE outbox
		SET status = ?, last_error = ?, retry_count = retry_count + 1, last_try_at = ?
		WHERE id = ?
	`, string(OutboxFailed), reason, time.Now().UTC(), id)
	return err
}

// PurgeSent removes acknowledged entries older than the cutoff.
func (q *queries) PurgeSent(ctx context.Context, before time.Time) error {
	_, err := q.q.ExecContext(ctx, `
		DELETE FROM outbox WHERE status = ? AND last_try_at < ?
	`, string(OutboxSent), before)
	return err
}

// CountPending returns how many entries still await a successful push.
func (q *queries) CountPending(ctx context.Context) (int, error) {
	var count int
	err := q.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM outbox WHERE status IN (?, ?)
	`, string(OutboxPending), string(OutboxFailed)).Scan(&count)
	return count, err
}
