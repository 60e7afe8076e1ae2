package repositories

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/clipstream/backend/internal/db"
)

// ChannelStats aggregates independent counts over a channel's videos.
type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalViews       int64 `json:"totalViews"`
	TotalLikes       int64 `json:"totalLikes"`
}

// TweetStats aggregates independent counts over a channel's tweets.
type TweetStats struct {
	TotalTweets     int64 `json:"totalTweets"`
	TotalTweetLikes int64 `json:"totalTweetLikes"`
	TotalRetweets   int64 `json:"totalRetweets"`
}

// PostgresStatsRepository computes dashboard statistics. Each statistic is an
// independent query; they run concurrently and the whole result fails if any
// sub-query fails. Empty channels produce all-zero stats, never an error.
type PostgresStatsRepository struct {
	pool db.Pool
}

// NewPostgresStatsRepository constructs a stats repository backed by PostgreSQL.
func NewPostgresStatsRepository(pool db.Pool) *PostgresStatsRepository {
	return &PostgresStatsRepository{pool: pool}
}

func (r *PostgresStatsRepository) countInto(ctx context.Context, dest *int64, query string, args ...any) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if err := conn.QueryRow(ctx, query, args...).Scan(dest); err != nil {
		return fmt.Errorf("scan stat: %w", err)
	}
	return nil
}

// ChannelStats returns video, subscriber, view and like totals for a channel.
func (r *PostgresStatsRepository) ChannelStats(ctx context.Context, channelID string) (ChannelStats, error) {
	var stats ChannelStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.countInto(gctx, &stats.TotalVideos,
			`SELECT COUNT(*) FROM videos WHERE owner_id = $1`, channelID)
	})
	g.Go(func() error {
		return r.countInto(gctx, &stats.TotalSubscribers,
			`SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID)
	})
	g.Go(func() error {
		return r.countInto(gctx, &stats.TotalViews,
			`SELECT COALESCE(SUM(views), 0) FROM videos WHERE owner_id = $1`, channelID)
	})
	g.Go(func() error {
		return r.countInto(gctx, &stats.TotalLikes, `
            SELECT COUNT(*)
            FROM likes l
            JOIN videos v ON v.id = l.video_id
            WHERE v.owner_id = $1
        `, channelID)
	})

	if err := g.Wait(); err != nil {
		return ChannelStats{}, fmt.Errorf("channel stats: %w", err)
	}

	return stats, nil
}

// TweetStats returns tweet, tweet-like and retweet totals for a channel.
func (r *PostgresStatsRepository) TweetStats(ctx context.Context, channelID string) (TweetStats, error) {
	var stats TweetStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.countInto(gctx, &stats.TotalTweets,
			`SELECT COUNT(*) FROM tweets WHERE owner_id = $1`, channelID)
	})
	g.Go(func() error {
		return r.countInto(gctx, &stats.TotalTweetLikes, `
            SELECT COUNT(*)
            FROM likes l
            JOIN tweets t ON t.id = l.tweet_id
            WHERE t.owner_id = $1
        `, channelID)
	})
	g.Go(func() error {
		return r.countInto(gctx, &stats.TotalRetweets,
			`SELECT COUNT(*) FROM tweets WHERE owner_id = $1 AND is_retweet`, channelID)
	})

	if err := g.Wait(); err != nil {
		return TweetStats{}, fmt.Errorf("tweet stats: %w", err)
	}

	return stats, nil
}
