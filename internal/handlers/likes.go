package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// LikeHandler serves like toggles for videos, comments, and tweets.
type LikeHandler struct {
	Likes    LikeStore
	Videos   VideoStore
	Comments CommentStore
	Tweets   TweetStore
}

// ToggleVideo likes or unlikes a video for the authenticated user.
func (h *LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "videoId", models.LikeTargetVideo, "Video not found", "Video liked successfully", "Video unliked successfully",
		func(ctx context.Context, id string) error {
			_, err := h.Videos.FindByID(ctx, id)
			return err
		})
}

// ToggleComment likes or unlikes a comment for the authenticated user.
func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "commentId", models.LikeTargetComment, "Comment not found", "Comment liked successfully", "Comment unliked successfully",
		func(ctx context.Context, id string) error {
			_, err := h.Comments.FindByID(ctx, id)
			return err
		})
}

// ToggleTweet likes or unlikes a tweet for the authenticated user.
func (h *LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "tweetId", models.LikeTargetTweet, "Tweet not found", "Tweet liked successfully", "Tweet unliked successfully",
		func(ctx context.Context, id string) error {
			_, err := h.Tweets.FindByID(ctx, id)
			return err
		})
}

func (h *LikeHandler) toggle(
	w http.ResponseWriter,
	r *http.Request,
	param string,
	kind models.LikeTargetKind,
	notFoundMessage, likedMessage, unlikedMessage string,
	exists func(ctx context.Context, id string) error,
) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	id, ok := parseID(r.PathValue(param))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid ID")
		return
	}

	if err := exists(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, notFoundMessage)
			return
		}
		logger.Error("verify like target", "target_id", id, "target_kind", string(kind), "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to toggle like")
		return
	}

	target, err := models.NewLikeTarget(kind, id)
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid ID")
		return
	}

	liked, err := h.Likes.Toggle(ctx, ActorFromContext(ctx), target)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, notFoundMessage)
			return
		}
		logger.Error("toggle like", "target_id", id, "target_kind", string(kind), "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to toggle like")
		return
	}

	message := unlikedMessage
	if liked {
		message = likedMessage
	}
	respondData(ctx, w, http.StatusOK, map[string]any{"liked": liked}, message)
}

// ListLikedVideos returns every video the authenticated user has liked,
// most recently liked first.
func (h *LikeHandler) ListLikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videos, err := h.Likes.ListLikedVideos(ctx, ActorFromContext(ctx))
	if err != nil {
		logging.FromContext(ctx).Error("list liked videos", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch liked videos")
		return
	}

	message := "Liked videos fetched successfully"
	if len(videos) == 0 {
		videos = []models.Video{}
		message = "No liked videos found"
	}
	respondData(ctx, w, http.StatusOK, map[string]any{"likedVideos": videos}, message)
}
