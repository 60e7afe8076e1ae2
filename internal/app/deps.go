package app

import (
	"context"
	"fmt"
	"time"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/config"
	"github.com/clipstream/backend/internal/db"
	"github.com/clipstream/backend/internal/handlers"
	"github.com/clipstream/backend/internal/media"
	"github.com/clipstream/backend/internal/middleware"
	"github.com/clipstream/backend/internal/repositories"
	"github.com/clipstream/backend/internal/storage"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// buildDependencies wires together the concrete implementations used by the
// HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	mediaStore, err := storage.NewS3MediaStore(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, fmt.Errorf("initialise media store: %w", err)
	}

	sessionStore := repositories.NewPostgresSessionStore(pool)
	sessions := auth.NewManager(cfg.AccessTTL, cfg.RefreshTTL, sessionStore)

	accounts := repositories.NewPostgresAccountRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	comments := repositories.NewPostgresCommentRepository(pool)
	tweets := repositories.NewPostgresTweetRepository(pool)
	likes := repositories.NewPostgresLikeRepository(pool)
	subscriptions := repositories.NewPostgresSubscriptionRepository(pool)
	playlists := repositories.NewPostgresPlaylistRepository(pool)
	stats := repositories.NewPostgresStatsRepository(pool)

	prober := media.NewFFProbe(cfg.FFProbePath, cfg.FFProbeTimeout)
	authLimiter := middleware.NewIPRateLimiter(10, time.Minute, 5, 10*time.Minute)

	return handlers.Dependencies{
		Auth: &handlers.AuthHandler{
			Accounts: accounts,
			Sessions: sessions,
			Media:    mediaStore,
			Limiter:  authLimiter,
		},
		Videos: &handlers.VideoHandler{
			Videos: videos,
			Media:  mediaStore,
			Prober: prober,
		},
		Comments: &handlers.CommentHandler{
			Comments: comments,
			Videos:   videos,
		},
		Tweets: &handlers.TweetHandler{
			Tweets:   tweets,
			Accounts: accounts,
		},
		Likes: &handlers.LikeHandler{
			Likes:    likes,
			Videos:   videos,
			Comments: comments,
			Tweets:   tweets,
		},
		Subscriptions: &handlers.SubscriptionHandler{
			Subscriptions: subscriptions,
			Accounts:      accounts,
		},
		Playlists: &handlers.PlaylistHandler{
			Playlists:    playlists,
			Videos:       videos,
			ShareBaseURL: cfg.ShareBaseURL,
		},
		Dashboard: &handlers.DashboardHandler{
			Stats:  stats,
			Videos: videos,
			Tweets: tweets,
		},
		Health: &handlers.HealthHandler{
			Ping:    func(ctx context.Context) error { return db.Ping(ctx, pool) },
			Version: Version,
			Started: time.Now(),
		},
		Sessions: sessions,
	}, nil
}
