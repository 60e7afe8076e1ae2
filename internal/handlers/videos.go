package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
	"github.com/google/uuid"
)

// VideoHandler serves the video catalog endpoints.
type VideoHandler struct {
	Videos  VideoStore
	Media   MediaStore
	Prober  DurationProber
	NowFunc func() time.Time
}

func (h *VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now()
}

// List returns a page of videos filtered and sorted per the query string.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := ParsePagination(r.URL.Query())
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	filter := repositories.VideoFilter{
		Query:   strings.TrimSpace(r.URL.Query().Get("query")),
		SortBy:  r.URL.Query().Get("sortBy"),
		SortAsc: strings.EqualFold(r.URL.Query().Get("sortType"), "asc"),
	}
	if rawOwner := r.URL.Query().Get("userId"); rawOwner != "" {
		ownerID, ok := parseID(rawOwner)
		if !ok {
			respondError(ctx, w, http.StatusBadRequest, "Invalid user ID")
			return
		}
		filter.OwnerID = ownerID
	}

	videos, total, err := h.Videos.List(ctx, filter, page.Limit, page.Skip())
	if err != nil {
		logging.FromContext(ctx).Error("list videos", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch videos")
		return
	}
	if len(videos) == 0 {
		respondError(ctx, w, http.StatusNotFound, "No videos found")
		return
	}

	respondData(ctx, w, http.StatusOK, map[string]any{
		"videos":      videos,
		"totalVideos": total,
		"page":        page.Page,
		"limit":       page.Limit,
	}, "Videos fetched successfully")
}

// Create publishes a new video from a multipart upload. The staged files
// are removed and any uploaded asset is discarded when a later step fails.
func (h *VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" || description == "" {
		respondError(ctx, w, http.StatusBadRequest, "Title and description are required")
		return
	}

	videoFile, videoHeader, hasVideo := formFile(r, "videoFile")
	if hasVideo {
		defer videoFile.Close()
	}
	thumbFile, thumbHeader, hasThumb := formFile(r, "thumbnail")
	if hasThumb {
		defer thumbFile.Close()
	}
	if !hasVideo || !hasThumb {
		respondError(ctx, w, http.StatusBadRequest, "Video and thumbnail are required")
		return
	}

	videoPath, err := saveUpload(videoFile, videoHeader)
	if err != nil {
		logger.Error("stage video upload", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to publish video")
		return
	}
	defer os.Remove(videoPath)

	thumbPath, err := saveUpload(thumbFile, thumbHeader)
	if err != nil {
		logger.Error("stage thumbnail upload", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to publish video")
		return
	}
	defer os.Remove(thumbPath)

	ctx, span := logging.StartSpan(ctx, "video.publish")
	defer span.End()

	duration, err := h.Prober.Duration(ctx, videoPath)
	if err != nil {
		logger.Warn("probe video duration", "error", err)
		duration = 0
	}

	videoAsset, err := h.Media.Upload(ctx, videoPath, "videos")
	if err != nil {
		logger.Error("upload video file", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to publish video")
		return
	}

	thumbAsset, err := h.Media.Upload(ctx, thumbPath, "thumbnails")
	if err != nil {
		logger.Error("upload thumbnail", "error", err)
		h.discardAsset(ctx, videoAsset.Key)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to publish video")
		return
	}

	video := models.Video{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  description,
		VideoURL:     videoAsset.URL,
		VideoKey:     videoAsset.Key,
		ThumbnailURL: thumbAsset.URL,
		ThumbnailKey: thumbAsset.Key,
		Duration:     duration,
		Published:    true,
		OwnerID:      ActorFromContext(ctx),
		CreatedAt:    h.now().UTC(),
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		h.discardAsset(ctx, videoAsset.Key)
		h.discardAsset(ctx, thumbAsset.Key)
		logger.Error("store video record", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to publish video")
		return
	}

	respondData(ctx, w, http.StatusCreated, video, "Video uploaded successfully")
}

// Get returns a single video by ID.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseID(r.PathValue("videoId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video not found")
			return
		}
		logging.FromContext(ctx).Error("fetch video", "video_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch video")
		return
	}

	respondData(ctx, w, http.StatusOK, video, "Video fetched successfully")
}

type videoUpdateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Update edits a video's title, description, or thumbnail. Only the owner
// may update it. A replacement thumbnail displaces the stored asset.
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	id, ok := parseID(r.PathValue("videoId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	var (
		title       string
		description string
		thumbPath   string
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			respondError(ctx, w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		title = strings.TrimSpace(r.FormValue("title"))
		description = strings.TrimSpace(r.FormValue("description"))
		if file, header, ok := formFile(r, "thumbnail"); ok {
			defer file.Close()
			staged, err := saveUpload(file, header)
			if err != nil {
				logger.Error("stage thumbnail upload", "error", err)
				respondError(ctx, w, http.StatusInternalServerError, "Unable to update video")
				return
			}
			defer os.Remove(staged)
			thumbPath = staged
		}
	} else {
		var req videoUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
			return
		}
		title = strings.TrimSpace(req.Title)
		description = strings.TrimSpace(req.Description)
	}

	if title == "" && description == "" && thumbPath == "" {
		respondError(ctx, w, http.StatusBadRequest, "At least one of title, description or thumbnail is required")
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video not found")
			return
		}
		logger.Error("fetch video for update", "video_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to update video")
		return
	}
	if video.OwnerID != ActorFromContext(ctx) {
		respondError(ctx, w, http.StatusForbidden, "You are not authorized to update this video")
		return
	}

	if title != "" {
		video.Title = title
	}
	if description != "" {
		video.Description = description
	}

	previousThumbKey := ""
	if thumbPath != "" {
		asset, err := h.Media.Upload(ctx, thumbPath, "thumbnails")
		if err != nil {
			logger.Error("upload replacement thumbnail", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "Unable to update video")
			return
		}
		previousThumbKey = video.ThumbnailKey
		video.ThumbnailURL = asset.URL
		video.ThumbnailKey = asset.Key
	}

	video.UpdatedAt = h.now().UTC()
	if err := h.Videos.Update(ctx, video); err != nil {
		if previousThumbKey != "" {
			h.discardAsset(ctx, video.ThumbnailKey)
		}
		logger.Error("update video record", "video_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to update video")
		return
	}
	if previousThumbKey != "" {
		h.discardAsset(ctx, previousThumbKey)
	}

	respondData(ctx, w, http.StatusOK, video, "Video updated successfully")
}

// Delete removes a video record and its stored media. Only the owner may
// delete it.
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	id, ok := parseID(r.PathValue("videoId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video not found")
			return
		}
		logger.Error("fetch video for delete", "video_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to delete video")
		return
	}
	if video.OwnerID != ActorFromContext(ctx) {
		respondError(ctx, w, http.StatusForbidden, "You are not authorized to delete this video")
		return
	}

	if err := h.Videos.Delete(ctx, id); err != nil {
		logger.Error("delete video record", "video_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to delete video")
		return
	}

	h.discardAsset(ctx, video.VideoKey)
	h.discardAsset(ctx, video.ThumbnailKey)

	respondData(ctx, w, http.StatusOK, nil, "Video deleted successfully")
}

// TogglePublish flips a video's published flag. Only the owner may toggle it.
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	id, ok := parseID(r.PathValue("videoId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video not found")
			return
		}
		logger.Error("fetch video for publish toggle", "video_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to toggle publish status")
		return
	}
	if video.OwnerID != ActorFromContext(ctx) {
		respondError(ctx, w, http.StatusForbidden, "You are not authorized to toggle this video")
		return
	}

	video.Published = !video.Published
	video.UpdatedAt = h.now().UTC()
	if err := h.Videos.Update(ctx, video); err != nil {
		logger.Error("toggle publish status", "video_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to toggle publish status")
		return
	}

	respondData(ctx, w, http.StatusOK, map[string]any{"isPublished": video.Published}, "Publish status toggled successfully")
}

func (h *VideoHandler) discardAsset(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := h.Media.Delete(ctx, key); err != nil {
		logging.FromContext(ctx).Warn("remove orphaned media asset", "key", key, "error", err)
	}
}
