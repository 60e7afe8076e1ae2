package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/logging"
)

type actorKey struct{}

func withActor(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, actorKey{}, accountID)
}

// ActorFromContext returns the authenticated account ID, or "" when the
// request was not authenticated.
func ActorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}

// RequireActor wraps a handler with bearer-token authentication. The
// resolved account ID is placed on the request context.
func RequireActor(sessions SessionManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := bearerToken(r)
		if token == "" {
			respondError(ctx, w, http.StatusUnauthorized, "Authentication required")
			return
		}

		accountID, err := sessions.Authenticate(ctx, token)
		if err != nil {
			if errors.Is(err, auth.ErrAccessTokenInvalid) {
				respondError(ctx, w, http.StatusUnauthorized, "Invalid or expired access token")
				return
			}
			logging.FromContext(ctx).Error("authenticate access token", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "Unable to authenticate request")
			return
		}

		next(w, r.WithContext(withActor(ctx, accountID)))
	}
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, found := strings.CutPrefix(header, "Bearer "); found {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}
