package handlers

import (
	"github.com/clipstream/backend/internal/models"
	"github.com/google/uuid"
)

// parseID reports whether raw is a well-formed identifier.
func parseID(raw string) (string, bool) {
	if _, err := uuid.Parse(raw); err != nil {
		return "", false
	}
	return raw, true
}

// playlistVisibleTo reports whether the playlist may be read by the actor.
// Private playlists are visible to their owner only; public and unlisted
// playlists are readable by anyone holding the ID.
func playlistVisibleTo(playlist models.Playlist, actorID string) bool {
	if playlist.Visibility != models.VisibilityPrivate {
		return true
	}
	return playlist.OwnerID == actorID
}
