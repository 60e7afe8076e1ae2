package handlers

import "net/http"

// Dependencies bundles the handlers mounted by the HTTP server.
type Dependencies struct {
	Auth          *AuthHandler
	Videos        *VideoHandler
	Comments      *CommentHandler
	Tweets        *TweetHandler
	Likes         *LikeHandler
	Subscriptions *SubscriptionHandler
	Playlists     *PlaylistHandler
	Dashboard     *DashboardHandler
	Health        *HealthHandler
	Sessions      SessionManager
}

// RegisterRoutes mounts every endpoint on the mux. Method and path
// matching is delegated to the mux patterns.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	protected := func(next http.HandlerFunc) http.HandlerFunc {
		return RequireActor(deps.Sessions, next)
	}

	mux.HandleFunc("GET /healthz", deps.Health.Handle)

	mux.HandleFunc("POST /api/v1/users/register", deps.Auth.Register)
	mux.HandleFunc("POST /api/v1/users/login", deps.Auth.Login)
	mux.HandleFunc("POST /api/v1/users/logout", protected(deps.Auth.Logout))
	mux.HandleFunc("POST /api/v1/users/refresh-token", deps.Auth.Refresh)
	mux.HandleFunc("GET /api/v1/users/me", protected(deps.Auth.CurrentUser))

	mux.HandleFunc("GET /api/v1/videos", deps.Videos.List)
	mux.HandleFunc("POST /api/v1/videos", protected(deps.Videos.Create))
	mux.HandleFunc("GET /api/v1/videos/{videoId}", deps.Videos.Get)
	mux.HandleFunc("PATCH /api/v1/videos/{videoId}", protected(deps.Videos.Update))
	mux.HandleFunc("DELETE /api/v1/videos/{videoId}", protected(deps.Videos.Delete))
	mux.HandleFunc("PATCH /api/v1/videos/{videoId}/toggle-publish", protected(deps.Videos.TogglePublish))

	mux.HandleFunc("GET /api/v1/videos/{videoId}/comments", deps.Comments.ListByVideo)
	mux.HandleFunc("POST /api/v1/videos/{videoId}/comments", protected(deps.Comments.Create))
	mux.HandleFunc("PATCH /api/v1/comments/{commentId}", protected(deps.Comments.Update))
	mux.HandleFunc("DELETE /api/v1/comments/{commentId}", protected(deps.Comments.Delete))

	mux.HandleFunc("POST /api/v1/tweets", protected(deps.Tweets.Create))
	mux.HandleFunc("GET /api/v1/tweets/user/{userId}", deps.Tweets.ListByUser)
	mux.HandleFunc("PATCH /api/v1/tweets/{tweetId}", protected(deps.Tweets.Update))
	mux.HandleFunc("DELETE /api/v1/tweets/{tweetId}", protected(deps.Tweets.Delete))

	mux.HandleFunc("POST /api/v1/likes/toggle/video/{videoId}", protected(deps.Likes.ToggleVideo))
	mux.HandleFunc("POST /api/v1/likes/toggle/comment/{commentId}", protected(deps.Likes.ToggleComment))
	mux.HandleFunc("POST /api/v1/likes/toggle/tweet/{tweetId}", protected(deps.Likes.ToggleTweet))
	mux.HandleFunc("GET /api/v1/likes/videos", protected(deps.Likes.ListLikedVideos))

	mux.HandleFunc("POST /api/v1/subscriptions/channel/{channelId}", protected(deps.Subscriptions.Toggle))
	mux.HandleFunc("GET /api/v1/subscriptions/channel/{channelId}/subscribers", deps.Subscriptions.ListSubscribers)
	mux.HandleFunc("GET /api/v1/subscriptions/user/{subscriberId}/channels", deps.Subscriptions.ListSubscribedChannels)

	mux.HandleFunc("POST /api/v1/playlists", protected(deps.Playlists.Create))
	mux.HandleFunc("GET /api/v1/playlists", deps.Playlists.ListByVisibility)
	mux.HandleFunc("GET /api/v1/playlists/user/{userId}", withOptionalActor(deps.Sessions, deps.Playlists.ListByUser))
	mux.HandleFunc("GET /api/v1/playlists/{playlistId}", withOptionalActor(deps.Sessions, deps.Playlists.Get))
	mux.HandleFunc("PATCH /api/v1/playlists/{playlistId}", protected(deps.Playlists.Update))
	mux.HandleFunc("DELETE /api/v1/playlists/{playlistId}", protected(deps.Playlists.Delete))
	mux.HandleFunc("PATCH /api/v1/playlists/{playlistId}/visibility", protected(deps.Playlists.UpdateVisibility))
	mux.HandleFunc("POST /api/v1/playlists/{playlistId}/videos/{videoId}", protected(deps.Playlists.AddVideo))
	mux.HandleFunc("DELETE /api/v1/playlists/{playlistId}/videos/{videoId}", protected(deps.Playlists.RemoveVideo))
	mux.HandleFunc("POST /api/v1/playlists/{playlistId}/toggle-like", protected(deps.Playlists.ToggleLike))
	mux.HandleFunc("GET /api/v1/playlists/{playlistId}/share", withOptionalActor(deps.Sessions, deps.Playlists.Share))

	mux.HandleFunc("GET /api/v1/dashboard/stats", protected(deps.Dashboard.ChannelStats))
	mux.HandleFunc("GET /api/v1/dashboard/videos", protected(deps.Dashboard.ChannelVideos))
	mux.HandleFunc("GET /api/v1/dashboard/tweet-stats", protected(deps.Dashboard.TweetStats))
	mux.HandleFunc("GET /api/v1/dashboard/tweets", protected(deps.Dashboard.ChannelTweets))
}

// withOptionalActor resolves the actor when credentials are presented but
// serves anonymous requests too. Playlist reads use this so that owners
// can see their private playlists while everyone else gets the public
// view.
func withOptionalActor(sessions SessionManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if token := bearerToken(r); token != "" {
			if accountID, err := sessions.Authenticate(ctx, token); err == nil {
				r = r.WithContext(withActor(ctx, accountID))
			}
		}
		next(w, r)
	}
}
