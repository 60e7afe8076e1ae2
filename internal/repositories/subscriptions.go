package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clipstream/backend/internal/db"
	"github.com/clipstream/backend/internal/models"
)

// PostgresSubscriptionRepository provides PostgreSQL-backed persistence for subscriptions.
type PostgresSubscriptionRepository struct {
	pool db.Pool
}

// NewPostgresSubscriptionRepository constructs a subscription repository backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// Toggle flips the subscribed state for (subscriber, channel). It returns
// true when the call subscribed and false when it unsubscribed. Same
// documented race as like toggles: no isolation around check-then-act.
func (r *PostgresSubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var existingID string
	err = conn.QueryRow(ctx, `
        SELECT id FROM subscriptions
        WHERE subscriber_id = $1 AND channel_id = $2
    `, subscriberID, channelID).Scan(&existingID)

	switch {
	case err == nil:
		if _, err := conn.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, existingID); err != nil {
			return false, fmt.Errorf("delete subscription: %w", err)
		}
		return false, nil
	case errors.Is(err, pgx.ErrNoRows):
		_, err = conn.Exec(ctx, `
            INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
            VALUES ($1, $2, $3, $4)
        `, uuid.NewString(), subscriberID, channelID, time.Now().UTC())
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case "23505":
					return false, ErrConflict
				case "23503":
					return false, ErrNotFound
				}
			}
			return false, fmt.Errorf("insert subscription: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("select subscription: %w", err)
	}
}

// ListSubscribers returns the accounts subscribed to a channel.
func (r *PostgresSubscriptionRepository) ListSubscribers(ctx context.Context, channelID string) ([]models.OwnerSummary, error) {
	return r.listAccounts(ctx, `
        SELECT a.id, a.username, a.full_name, a.avatar
        FROM subscriptions s
        JOIN accounts a ON a.id = s.subscriber_id
        WHERE s.channel_id = $1
        ORDER BY s.created_at DESC
    `, channelID)
}

// ListSubscribedChannels returns the channels an account is subscribed to.
func (r *PostgresSubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.OwnerSummary, error) {
	return r.listAccounts(ctx, `
        SELECT a.id, a.username, a.full_name, a.avatar
        FROM subscriptions s
        JOIN accounts a ON a.id = s.channel_id
        WHERE s.subscriber_id = $1
        ORDER BY s.created_at DESC
    `, subscriberID)
}

func (r *PostgresSubscriptionRepository) listAccounts(ctx context.Context, query string, arg any) ([]models.OwnerSummary, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	var accounts []models.OwnerSummary
	for rows.Next() {
		var account models.OwnerSummary
		if err := rows.Scan(&account.ID, &account.Username, &account.FullName, &account.Avatar); err != nil {
			return nil, fmt.Errorf("scan subscription account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription accounts: %w", err)
	}

	return accounts, nil
}
