package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clipstream/backend/internal/auth"
)

func TestRequireActorMissingToken(t *testing.T) {
	called := false
	handler := RequireActor(&sessionManagerStub{}, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/likes/videos", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
	if called {
		t.Fatal("wrapped handler must not run without a token")
	}
}

func TestRequireActorInvalidToken(t *testing.T) {
	handler := RequireActor(&sessionManagerStub{authErr: auth.ErrAccessTokenInvalid}, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("wrapped handler must not run with an invalid token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/likes/videos", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireActorResolvesAccount(t *testing.T) {
	var got string
	handler := RequireActor(&sessionManagerStub{actor: actorID}, func(w http.ResponseWriter, r *http.Request) {
		got = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/likes/videos", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d", rec.Code)
	}
	if got != actorID {
		t.Fatalf("unexpected actor: got %q want %q", got, actorID)
	}
}

func TestRequireActorCookieFallback(t *testing.T) {
	var got string
	handler := RequireActor(&sessionManagerStub{actor: actorID}, func(w http.ResponseWriter, r *http.Request) {
		got = ActorFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/likes/videos", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "cookie-token"})
	rec := httptest.NewRecorder()

	handler(rec, req)

	if got != actorID {
		t.Fatalf("unexpected actor: got %q want %q", got, actorID)
	}
}
