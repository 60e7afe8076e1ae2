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

func likeTargetColumn(kind models.LikeTargetKind) (string, error) {
	switch kind {
	case models.LikeTargetVideo:
		return "video_id", nil
	case models.LikeTargetComment:
		return "comment_id", nil
	case models.LikeTargetTweet:
		return "tweet_id", nil
	}
	return "", fmt.Errorf("unknown like target kind %q", kind)
}

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Toggle flips the liked state for (liker, target). It returns true when the
// call created the like and false when it removed an existing one. The
// check-then-act sequence is not isolated: concurrent toggles by the same
// liker on the same target race, bounded by the unique index on the pair.
func (r *PostgresLikeRepository) Toggle(ctx context.Context, likerID string, target models.LikeTarget) (bool, error) {
	column, err := likeTargetColumn(target.Kind())
	if err != nil {
		return false, err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var existingID string
	err = conn.QueryRow(ctx, `
        SELECT id FROM likes
        WHERE liker_id = $1 AND `+column+` = $2
    `, likerID, target.ID()).Scan(&existingID)

	switch {
	case err == nil:
		if _, err := conn.Exec(ctx, `DELETE FROM likes WHERE id = $1`, existingID); err != nil {
			return false, fmt.Errorf("delete like: %w", err)
		}
		return false, nil
	case errors.Is(err, pgx.ErrNoRows):
		_, err = conn.Exec(ctx, `
            INSERT INTO likes (id, liker_id, `+column+`, created_at)
            VALUES ($1, $2, $3, $4)
        `, uuid.NewString(), likerID, target.ID(), time.Now().UTC())
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
			return false, fmt.Errorf("insert like: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("select like: %w", err)
	}
}

// ListLikedVideos returns the videos liked by an account, newest like first,
// each decorated with its owner projection. Likes whose video has since been
// deleted are omitted.
func (r *PostgresLikeRepository) ListLikedVideos(ctx context.Context, likerID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+videoColumns+`, `+ownerColumns+`
        FROM likes l
        JOIN videos v ON v.id = l.video_id
        LEFT JOIN accounts a ON a.id = v.owner_id
        WHERE l.liker_id = $1 AND l.video_id IS NOT NULL
        ORDER BY l.created_at DESC
    `, likerID)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan liked video: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked videos: %w", err)
	}

	return videos, nil
}
