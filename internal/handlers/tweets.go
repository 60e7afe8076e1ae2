package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
	"github.com/google/uuid"
)

// TweetHandler serves the short-post endpoints.
type TweetHandler struct {
	Tweets   TweetStore
	Accounts AccountStore
	NowFunc  func() time.Time
}

func (h *TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now()
}

type tweetRequest struct {
	Content string `json:"content"`
}

// Create publishes a tweet for the authenticated channel.
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, http.StatusBadRequest, "Tweet content is required")
		return
	}

	tweet := models.Tweet{
		ID:        uuid.NewString(),
		Content:   content,
		OwnerID:   ActorFromContext(ctx),
		CreatedAt: h.now().UTC(),
	}
	if err := h.Tweets.Create(ctx, tweet); err != nil {
		logging.FromContext(ctx).Error("create tweet", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to create tweet")
		return
	}

	respondData(ctx, w, http.StatusCreated, tweet, "Tweet created successfully")
}

// ListByUser returns a page of a channel's tweets.
func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	userID, ok := parseID(r.PathValue("userId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	page, err := ParsePagination(r.URL.Query())
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.Accounts.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "User not found")
			return
		}
		logger.Error("verify user before listing tweets", "user_id", userID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch tweets")
		return
	}

	sortAsc := strings.EqualFold(r.URL.Query().Get("sortType"), "asc")
	tweets, total, err := h.Tweets.ListByOwner(ctx, userID, r.URL.Query().Get("sortBy"), sortAsc, page.Limit, page.Skip())
	if err != nil {
		logger.Error("list tweets", "user_id", userID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch tweets")
		return
	}
	if len(tweets) == 0 {
		respondError(ctx, w, http.StatusNotFound, "No tweets found for this user")
		return
	}

	respondData(ctx, w, http.StatusOK, map[string]any{
		"tweets":      tweets,
		"totalTweets": total,
		"page":        page.Page,
		"limit":       page.Limit,
	}, "Tweets fetched successfully")
}

// Update rewrites a tweet's content. Only the owner may edit it.
func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	id, ok := parseID(r.PathValue("tweetId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid tweet ID")
		return
	}

	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, http.StatusBadRequest, "Tweet content is required")
		return
	}

	tweet, err := h.Tweets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Tweet not found")
			return
		}
		logger.Error("fetch tweet for update", "tweet_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to update tweet")
		return
	}
	if tweet.OwnerID != ActorFromContext(ctx) {
		respondError(ctx, w, http.StatusForbidden, "You are not authorized to update this tweet")
		return
	}

	if err := h.Tweets.UpdateContent(ctx, id, content); err != nil {
		logger.Error("update tweet", "tweet_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to update tweet")
		return
	}

	tweet.Content = content
	tweet.UpdatedAt = h.now().UTC()
	respondData(ctx, w, http.StatusOK, tweet, "Tweet updated successfully")
}

// Delete removes a tweet. Only the owner may delete it.
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	id, ok := parseID(r.PathValue("tweetId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid tweet ID")
		return
	}

	tweet, err := h.Tweets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Tweet not found")
			return
		}
		logger.Error("fetch tweet for delete", "tweet_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to delete tweet")
		return
	}
	if tweet.OwnerID != ActorFromContext(ctx) {
		respondError(ctx, w, http.StatusForbidden, "You are not authorized to delete this tweet")
		return
	}

	if err := h.Tweets.Delete(ctx, id); err != nil {
		logger.Error("delete tweet", "tweet_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to delete tweet")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "Tweet deleted successfully")
}
