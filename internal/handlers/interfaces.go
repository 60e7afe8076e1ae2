package handlers

import (
	"context"

	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
	"github.com/clipstream/backend/internal/storage"
)

// AccountStore persists user accounts.
type AccountStore interface {
	Create(ctx context.Context, account models.Account) error
	FindByID(ctx context.Context, id string) (models.Account, error)
	FindByLogin(ctx context.Context, email, username string) (models.Account, error)
	Update(ctx context.Context, account models.Account) error
}

// SessionManager issues, validates, and revokes bearer tokens.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Authenticate(ctx context.Context, accessToken string) (string, error)
	Revoke(ctx context.Context, token string)
}

// VideoStore persists video documents.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	List(ctx context.Context, filter repositories.VideoFilter, limit, offset int) ([]models.Video, int64, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
}

// CommentStore persists comments attached to videos.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]models.Comment, int64, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

// TweetStore persists short text posts.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	ListByOwner(ctx context.Context, ownerID, sortBy string, sortAsc bool, limit, offset int) ([]models.Tweet, int64, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

// LikeStore toggles likes against videos, comments, and tweets.
type LikeStore interface {
	Toggle(ctx context.Context, likerID string, target models.LikeTarget) (bool, error)
	ListLikedVideos(ctx context.Context, likerID string) ([]models.Video, error)
}

// SubscriptionStore toggles and lists channel subscriptions.
type SubscriptionStore interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListSubscribers(ctx context.Context, channelID string) ([]models.OwnerSummary, error)
	ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.OwnerSummary, error)
}

// PlaylistStore persists playlists and their memberships.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Playlist, error)
	ListByVisibility(ctx context.Context, visibility models.Visibility) ([]models.Playlist, error)
	Update(ctx context.Context, id, name, description string) error
	UpdateVisibility(ctx context.Context, id string, visibility models.Visibility) error
	Delete(ctx context.Context, id string) error
	AddVideo(ctx context.Context, playlistID, videoID string) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	ToggleLike(ctx context.Context, playlistID, accountID string) (bool, error)
}

// StatsProvider aggregates channel dashboard figures.
type StatsProvider interface {
	ChannelStats(ctx context.Context, channelID string) (repositories.ChannelStats, error)
	TweetStats(ctx context.Context, channelID string) (repositories.TweetStats, error)
}

// MediaStore uploads and deletes media assets in object storage.
type MediaStore interface {
	Upload(ctx context.Context, localPath, keyPrefix string) (storage.Asset, error)
	Delete(ctx context.Context, key string) error
}

// DurationProber reports the playable duration of a local media file.
type DurationProber interface {
	Duration(ctx context.Context, localPath string) (float64, error)
}
