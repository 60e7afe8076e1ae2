package handlers

import (
	"errors"
	"net/http"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// SubscriptionHandler serves subscribe toggles and subscription listings.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
	Accounts      AccountStore
}

// Toggle subscribes or unsubscribes the authenticated user to a channel.
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	channelID, ok := parseID(r.PathValue("channelId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid channel ID")
		return
	}

	actorID := ActorFromContext(ctx)
	if channelID == actorID {
		respondError(ctx, w, http.StatusBadRequest, "You cannot subscribe to your own channel")
		return
	}

	if _, err := h.Accounts.FindByID(ctx, channelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Channel not found")
			return
		}
		logger.Error("verify channel before subscribe", "channel_id", channelID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to toggle subscription")
		return
	}

	subscribed, err := h.Subscriptions.Toggle(ctx, actorID, channelID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Channel not found")
			return
		}
		logger.Error("toggle subscription", "channel_id", channelID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to toggle subscription")
		return
	}

	if subscribed {
		respondData(ctx, w, http.StatusCreated, map[string]any{"subscribed": true}, "Channel subscribed successfully")
		return
	}
	respondData(ctx, w, http.StatusOK, map[string]any{"subscribed": false}, "Channel unsubscribed successfully")
}

// ListSubscribers returns the accounts subscribed to a channel.
func (h *SubscriptionHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	channelID, ok := parseID(r.PathValue("channelId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid channel ID")
		return
	}

	if _, err := h.Accounts.FindByID(ctx, channelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "Channel not found")
			return
		}
		logger.Error("verify channel before listing subscribers", "channel_id", channelID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch subscribers")
		return
	}

	subscribers, err := h.Subscriptions.ListSubscribers(ctx, channelID)
	if err != nil {
		logger.Error("list subscribers", "channel_id", channelID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch subscribers")
		return
	}

	message := "Subscribers fetched successfully"
	if len(subscribers) == 0 {
		subscribers = []models.OwnerSummary{}
		message = "No subscribers found for this channel"
	}
	respondData(ctx, w, http.StatusOK, map[string]any{"subscribers": subscribers}, message)
}

// ListSubscribedChannels returns the channels an account follows.
func (h *SubscriptionHandler) ListSubscribedChannels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	subscriberID, ok := parseID(r.PathValue("subscriberId"))
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Invalid subscriber ID")
		return
	}

	if _, err := h.Accounts.FindByID(ctx, subscriberID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "User not found")
			return
		}
		logger.Error("verify user before listing channels", "subscriber_id", subscriberID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch subscribed channels")
		return
	}

	channels, err := h.Subscriptions.ListSubscribedChannels(ctx, subscriberID)
	if err != nil {
		logger.Error("list subscribed channels", "subscriber_id", subscriberID, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch subscribed channels")
		return
	}

	message := "Subscribed channels fetched successfully"
	if len(channels) == 0 {
		channels = []models.OwnerSummary{}
		message = "No subscribed channels found"
	}
	respondData(ctx, w, http.StatusOK, map[string]any{"channels": channels}, message)
}
