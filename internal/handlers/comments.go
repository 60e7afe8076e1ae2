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

// CommentHandler serves comment threads attached to videos.
type CommentHandler struct {
	Comments CommentStore
	Videos   VideoStore
	NowFunc  func() time.Time
}

func (h *CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now()
}

// ListByVideo returns a page of comments for a video, newest first.
func (h *CommentHandler) ListByVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID, ok := parseID(r.PathValue("videoId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	page, err := ParsePagination(r.URL.Query())
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	comments, total, err := h.Comments.ListByVideo(ctx, videoID, page.Limit, page.Skip())
	if err != nil {
		logging.FromContext(ctx).Error("list comments", "video_id", videoID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch comments")
		return
	}
	if len(comments) == 0 {
		respondError(ctx, w, http.StatusNotFound, "No comments found for this video")
		return
	}

	respondData(ctx, w, http.StatusOK, map[string]any{
		"comments":      comments,
		"totalComments": total,
		"page":          page.Page,
		"limit":         page.Limit,
	}, "Comments fetched successfully")
}

type commentRequest struct {
	Content string `json:"content"`
}

// Create attaches a comment to a video.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	videoID, ok := parseID(r.PathValue("videoId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, http.StatusBadRequest, "Missing content! Comment content is required")
		return
	}

	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video not found")
			return
		}
		logger.Error("verify video before comment", "video_id", videoID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to add comment")
		return
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		Content:   content,
		VideoID:   videoID,
		OwnerID:   ActorFromContext(ctx),
		CreatedAt: h.now().UTC(),
	}
	if err := h.Comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video not found")
			return
		}
		logger.Error("create comment", "video_id", videoID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to add comment")
		return
	}

	respondData(ctx, w, http.StatusCreated, comment, "Successfully added comment")
}

// Update rewrites a comment's content. Only the owner may edit it.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	id, ok := parseID(r.PathValue("commentId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, http.StatusBadRequest, "Missing content! Comment content is required")
		return
	}

	comment, err := h.Comments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Comment not found")
			return
		}
		logger.Error("fetch comment for update", "comment_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to update comment")
		return
	}
	if comment.OwnerID != ActorFromContext(ctx) {
		respondError(ctx, w, http.StatusForbidden, "You are not authorized to update this comment")
		return
	}

	if err := h.Comments.UpdateContent(ctx, id, content); err != nil {
		logger.Error("update comment", "comment_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to update comment")
		return
	}

	comment.Content = content
	comment.UpdatedAt = h.now().UTC()
	respondData(ctx, w, http.StatusOK, comment, "Successfully updated comment")
}

// Delete removes a comment. Only the owner may delete it.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	id, ok := parseID(r.PathValue("commentId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	comment, err := h.Comments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Comment not found")
			return
		}
		logger.Error("fetch comment for delete", "comment_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to delete comment")
		return
	}
	if comment.OwnerID != ActorFromContext(ctx) {
		respondError(ctx, w, http.StatusForbidden, "You are not authorized to delete this comment")
		return
	}

	if err := h.Comments.Delete(ctx, id); err != nil {
		logger.Error("delete comment", "comment_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to delete comment")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "Successfully deleted comment")
}
