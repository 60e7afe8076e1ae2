package handlers

import (
	"context"
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

// PlaylistHandler serves playlist management, membership, and sharing.
type PlaylistHandler struct {
	Playlists    PlaylistStore
	Videos       VideoStore
	ShareBaseURL string
	NowFunc      func() time.Time
}

func (h *PlaylistHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now()
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

// Create adds a new playlist for the authenticated user. Visibility
// defaults to private when omitted.
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" || description == "" {
		respondError(ctx, w, http.StatusBadRequest, "Name and description are required")
		return
	}

	visibility := models.VisibilityPrivate
	if req.Visibility != "" {
		visibility = models.Visibility(req.Visibility)
		if !visibility.Valid() {
			respondError(ctx, w, http.StatusBadRequest, "Invalid visibility value")
			return
		}
	}

	playlist := models.Playlist{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		OwnerID:     ActorFromContext(ctx),
		Visibility:  visibility,
		CreatedAt:   h.now().UTC(),
	}
	if err := h.Playlists.Create(ctx, playlist); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "Playlist already exists")
			return
		}
		logger.Error("create playlist", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to create playlist")
		return
	}

	respondData(ctx, w, http.StatusCreated, playlist, "Playlist created successfully")
}

// ListByUser returns a user's playlists. Private playlists are hidden from
// everyone except the owner.
func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := parseID(r.PathValue("userId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	playlists, err := h.Playlists.ListByOwner(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("list playlists", "user_id", userID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch playlists")
		return
	}

	actorID := ActorFromContext(ctx)
	visible := make([]models.Playlist, 0, len(playlists))
	for _, playlist := range playlists {
		if playlistVisibleTo(playlist, actorID) {
			visible = append(visible, playlist)
		}
	}

	message := "User playlists fetched successfully"
	if len(visible) == 0 {
		message = "No playlist found"
	}
	respondData(ctx, w, http.StatusOK, visible, message)
}

// ListByVisibility returns playlists in a given access tier. Only public
// and unlisted tiers can be browsed.
func (h *PlaylistHandler) ListByVisibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	visibility := models.Visibility(r.URL.Query().Get("visibility"))
	if !visibility.Valid() || visibility == models.VisibilityPrivate {
		respondError(ctx, w, http.StatusBadRequest, "Invalid or missing visibility parameter")
		return
	}

	playlists, err := h.Playlists.ListByVisibility(ctx, visibility)
	if err != nil {
		logging.FromContext(ctx).Error("list playlists by visibility", "visibility", string(visibility), "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch playlists")
		return
	}
	if len(playlists) == 0 {
		respondError(ctx, w, http.StatusNotFound, "No playlists found")
		return
	}

	respondData(ctx, w, http.StatusOK, playlists, "Playlists fetched successfully")
}

// Get returns a playlist with its ordered videos. Private playlists are
// readable by the owner only.
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.loadPlaylist(ctx, w, r, "Playlist not found")
	if !ok {
		return
	}
	if !playlistVisibleTo(playlist, ActorFromContext(ctx)) {
		respondError(ctx, w, http.StatusForbidden, "Unauthorized Access")
		return
	}

	respondData(ctx, w, http.StatusOK, playlist, "Playlist fetched successfully")
}

// Update edits a playlist's name or description. Only the owner may edit it.
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" && description == "" {
		respondError(ctx, w, http.StatusBadRequest, "Missing name or description")
		return
	}

	playlist, ok := h.loadPlaylist(ctx, w, r, "Playlist not found")
	if !ok {
		return
	}
	if playlist.OwnerID != ActorFromContext(ctx) {
		respondError(ctx, w, http.StatusForbidden, "You are not allowed to update this playlist")
		return
	}

	if name == "" {
		name = playlist.Name
	}
	if description == "" {
		description = playlist.Description
	}

	if err := h.Playlists.Update(ctx, playlist.ID, name, description); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "Playlist already exists")
			return
		}
		logger.Error("update playlist", "playlist_id", playlist.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to update playlist")
		return
	}

	playlist.Name = name
	playlist.Description = description
	playlist.UpdatedAt = h.now().UTC()
	respondData(ctx, w, http.StatusOK, playlist, "Playlist updated successfully")
}

// UpdateVisibility changes a playlist's access tier. Only the owner may
// change it.
func (h *PlaylistHandler) UpdateVisibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	visibility := models.Visibility(req.Visibility)
	if !visibility.Valid() {
		respondError(ctx, w, http.StatusBadRequest, "Invalid visibility value")
		return
	}

	playlist, ok := h.loadPlaylist(ctx, w, r, "Playlist not found")
	if !ok {
		return
	}
	if playlist.OwnerID != ActorFromContext(ctx) {
		respondError(ctx, w, http.StatusForbidden, "You are not allowed to update this playlist")
		return
	}

	if err := h.Playlists.UpdateVisibility(ctx, playlist.ID, visibility); err != nil {
		logger.Error("update playlist visibility", "playlist_id", playlist.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to update playlist visibility")
		return
	}

	playlist.Visibility = visibility
	respondData(ctx, w, http.StatusOK, playlist, "Playlist visibility updated successfully")
}

// Delete removes a playlist. Only the owner may delete it.
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.loadPlaylist(ctx, w, r, "No playlist found with this ID")
	if !ok {
		return
	}
	if playlist.OwnerID != ActorFromContext(ctx) {
		respondError(ctx, w, http.StatusForbidden, "You are not allowed to delete this playlist")
		return
	}

	if err := h.Playlists.Delete(ctx, playlist.ID); err != nil {
		logging.FromContext(ctx).Error("delete playlist", "playlist_id", playlist.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to delete playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "Playlist deleted successfully")
}

// AddVideo appends a video to the end of a playlist. Duplicates are
// rejected.
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	playlist, ok := h.loadPlaylist(ctx, w, r, "Playlist not found")
	if !ok {
		return
	}
	if playlist.OwnerID != ActorFromContext(ctx) {
		respondError(ctx, w, http.StatusForbidden, "You are not allowed to modify this playlist")
		return
	}

	videoID, ok := parseID(r.PathValue("videoId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid video ID")
		return
	}
	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video not found")
			return
		}
		logger.Error("verify video before playlist add", "video_id", videoID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to add video to playlist")
		return
	}

	if err := h.Playlists.AddVideo(ctx, playlist.ID, videoID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrConflict):
			respondError(ctx, w, http.StatusConflict, "Video already exists in playlist")
		case errors.Is(err, repositories.ErrNotFound):
			respondError(ctx, w, http.StatusNotFound, "Video not found")
		default:
			logger.Error("add video to playlist", "playlist_id", playlist.ID, "video_id", videoID, "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "Unable to add video to playlist")
		}
		return
	}

	updated, err := h.Playlists.FindByID(ctx, playlist.ID)
	if err != nil {
		logger.Error("reload playlist after add", "playlist_id", playlist.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to add video to playlist")
		return
	}
	respondData(ctx, w, http.StatusOK, updated, "Video added to playlist successfully")
}

// RemoveVideo removes a video from a playlist.
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	playlist, ok := h.loadPlaylist(ctx, w, r, "No such playlist found")
	if !ok {
		return
	}
	if playlist.OwnerID != ActorFromContext(ctx) {
		respondError(ctx, w, http.StatusForbidden, "You are not allowed to remove video from this playlist")
		return
	}

	videoID, ok := parseID(r.PathValue("videoId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid video ID")
		return
	}

	if err := h.Playlists.RemoveVideo(ctx, playlist.ID, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Video not found in playlist")
			return
		}
		logger.Error("remove video from playlist", "playlist_id", playlist.ID, "video_id", videoID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to remove video from playlist")
		return
	}

	updated, err := h.Playlists.FindByID(ctx, playlist.ID)
	if err != nil {
		logger.Error("reload playlist after remove", "playlist_id", playlist.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to remove video from playlist")
		return
	}
	respondData(ctx, w, http.StatusOK, updated, "Video removed from playlist successfully")
}

// ToggleLike likes or unlikes a playlist for the authenticated user.
func (h *PlaylistHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.loadPlaylist(ctx, w, r, "Playlist not found")
	if !ok {
		return
	}
	if !playlistVisibleTo(playlist, ActorFromContext(ctx)) {
		respondError(ctx, w, http.StatusForbidden, "Unauthorized Access")
		return
	}

	liked, err := h.Playlists.ToggleLike(ctx, playlist.ID, ActorFromContext(ctx))
	if err != nil {
		logging.FromContext(ctx).Error("toggle playlist like", "playlist_id", playlist.ID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to toggle playlist like")
		return
	}

	message := "Playlist disliked successfully"
	if liked {
		message = "Playlist liked successfully"
	}
	respondData(ctx, w, http.StatusOK, map[string]any{"liked": liked}, message)
}

// Share returns a shareable link for a playlist. Private playlists may be
// shared by their owner only.
func (h *PlaylistHandler) Share(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, ok := h.loadPlaylist(ctx, w, r, "Playlist not found")
	if !ok {
		return
	}
	if playlist.Visibility == models.VisibilityPrivate && playlist.OwnerID != ActorFromContext(ctx) {
		respondError(ctx, w, http.StatusForbidden, "You are not allowed to share this playlist")
		return
	}

	link := strings.TrimRight(h.ShareBaseURL, "/") + "/playlists/" + playlist.ID
	respondData(ctx, w, http.StatusOK, map[string]any{"shareLink": link}, "Playlist shared successfully")
}

func (h *PlaylistHandler) loadPlaylist(ctx context.Context, w http.ResponseWriter, r *http.Request, notFoundMessage string) (models.Playlist, bool) {
	id, ok := parseID(r.PathValue("playlistId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid playlist ID")
		return models.Playlist{}, false
	}

	playlist, err := h.Playlists.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, notFoundMessage)
			return models.Playlist{}, false
		}
		logging.FromContext(ctx).Error("fetch playlist", "playlist_id", id, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch playlist")
		return models.Playlist{}, false
	}
	return playlist, true
}
