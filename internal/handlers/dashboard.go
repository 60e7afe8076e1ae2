package handlers

import (
	"net/http"
	"strings"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// DashboardHandler serves channel owner analytics. A channel with no
// activity reports zeroes, never an error.
type DashboardHandler struct {
	Stats  StatsProvider
	Videos VideoStore
	Tweets TweetStore
}

// channelID resolves the channel being inspected, defaulting to the actor.
func (h *DashboardHandler) channelID(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()
	raw := r.URL.Query().Get("channelId")
	if raw == "" {
		return ActorFromContext(ctx), true
	}
	id, ok := parseID(raw)
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid channel ID")
		return "", false
	}
	return id, true
}

// ChannelStats returns aggregate video, view, subscriber, and like counts.
func (h *DashboardHandler) ChannelStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID, ok := h.channelID(w, r)
	if !ok {
		return
	}

	stats, err := h.Stats.ChannelStats(ctx, channelID)
	if err != nil {
		logging.FromContext(ctx).Error("aggregate channel stats", "channel_id", channelID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch channel stats")
		return
	}

	respondData(ctx, w, http.StatusOK, stats, "Channel stats fetched successfully")
}

// ChannelVideos returns a page of the channel's uploads, including
// unpublished ones.
func (h *DashboardHandler) ChannelVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID, ok := h.channelID(w, r)
	if !ok {
		return
	}

	page, err := ParsePagination(r.URL.Query())
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	videos, total, err := h.Videos.List(ctx, repositories.VideoFilter{OwnerID: channelID}, page.Limit, page.Skip())
	if err != nil {
		logging.FromContext(ctx).Error("list channel videos", "channel_id", channelID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch channel videos")
		return
	}

	message := "Channel videos fetched successfully"
	if len(videos) == 0 {
		videos = []models.Video{}
		message = "No videos found for this channel"
	}
	respondData(ctx, w, http.StatusOK, map[string]any{
		"videos":      videos,
		"totalVideos": total,
		"page":        page.Page,
		"limit":       page.Limit,
	}, message)
}

// TweetStats returns aggregate tweet, tweet-like, and retweet counts.
func (h *DashboardHandler) TweetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID, ok := h.channelID(w, r)
	if !ok {
		return
	}

	stats, err := h.Stats.TweetStats(ctx, channelID)
	if err != nil {
		logging.FromContext(ctx).Error("aggregate tweet stats", "channel_id", channelID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch channel tweet stats")
		return
	}

	respondData(ctx, w, http.StatusOK, stats, "Channel tweet stats fetched successfully")
}

// ChannelTweets returns a page of the channel's tweets.
func (h *DashboardHandler) ChannelTweets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID, ok := h.channelID(w, r)
	if !ok {
		return
	}

	page, err := ParsePagination(r.URL.Query())
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	sortAsc := strings.EqualFold(r.URL.Query().Get("sortType"), "asc")
	tweets, total, err := h.Tweets.ListByOwner(ctx, channelID, r.URL.Query().Get("sortBy"), sortAsc, page.Limit, page.Skip())
	if err != nil {
		logging.FromContext(ctx).Error("list channel tweets", "channel_id", channelID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch channel tweets")
		return
	}

	message := "Channel tweets fetched successfully"
	if len(tweets) == 0 {
		tweets = []models.Tweet{}
		message = "No tweets found for this channel"
	}
	respondData(ctx, w, http.StatusOK, map[string]any{
		"tweets":      tweets,
		"totalTweets": total,
		"page":        page.Page,
		"limit":       page.Limit,
	}, message)
}
