package models

import "time"

// Account represents a registered user of the Clipstream platform. An account
// acting as a publisher of videos and tweets is referred to as a channel.
type Account struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	FullName   string    `json:"fullname"`
	Email      string    `json:"email"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	Password   string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Summary returns the owner projection for the account.
func (a Account) Summary() OwnerSummary {
	return OwnerSummary{
		ID:       a.ID,
		Username: a.Username,
		FullName: a.FullName,
		Avatar:   a.Avatar,
	}
}

// OwnerSummary is the denormalized creator projection attached to listed
// entities. A dangling owner reference yields a nil summary on the parent
// record, never a dropped row.
type OwnerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
	Avatar   string `json:"avatar"`
}

// Video stores an uploaded video along with its references into the media
// store. The owner is immutable after creation.
type Video struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	VideoURL     string        `json:"videoFile"`
	VideoKey     string        `json:"-"`
	ThumbnailURL string        `json:"thumbnail"`
	ThumbnailKey string        `json:"-"`
	Duration     float64       `json:"duration"`
	Views        int64         `json:"views"`
	Published    bool          `json:"isPublished"`
	OwnerID      string        `json:"owner"`
	CreatedBy    *OwnerSummary `json:"createdBy,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Comment is a reply attached to a video. Only the owner may edit or delete it.
type Comment struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	VideoID   string        `json:"video"`
	OwnerID   string        `json:"owner"`
	CreatedBy *OwnerSummary `json:"createdBy,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Tweet is a short text post published by a channel.
type Tweet struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	OwnerID   string        `json:"owner"`
	IsRetweet bool          `json:"isRetweet"`
	CreatedBy *OwnerSummary `json:"createdBy,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Subscription records that an account follows a channel. Existence of the
// (subscriber, channel) pair is the subscribed state.
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriber"`
	ChannelID    string    `json:"channel"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Visibility is the access tier of a playlist.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
)

// Valid reports whether v is one of the known access tiers.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityUnlisted, VisibilityPrivate:
		return true
	}
	return false
}

// Playlist is an ordered, duplicate-free collection of videos. Private
// playlists are visible only to their owner.
type Playlist struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	OwnerID     string        `json:"owner"`
	Visibility  Visibility    `json:"visibility"`
	CreatedBy   *OwnerSummary `json:"createdBy,omitempty"`
	Videos      []Video       `json:"videos"`
	LikeCount   int64         `json:"likeCount"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
