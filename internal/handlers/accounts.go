package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves registration, login, logout, and token refresh.
type AuthHandler struct {
	Accounts AccountStore
	Sessions SessionManager
	Media    MediaStore
	Limiter  RateLimiter
	NowFunc  func() time.Time
}

func (h *AuthHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now()
}

// Register creates an account from a multipart form. An avatar image is
// required; a cover image is optional.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "register") {
		respondError(ctx, w, http.StatusTooManyRequests, "Too many registration attempts. Try again later.")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("fullname"))
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	username := strings.TrimSpace(strings.ToLower(r.FormValue("username")))
	password := r.FormValue("password")
	if fullName == "" || email == "" || username == "" || password == "" {
		respondError(ctx, w, http.StatusBadRequest, "All fields are required")
		return
	}

	avatarFile, avatarHeader, ok := formFile(r, "avatar")
	if !ok {
		respondError(ctx, w, http.StatusBadRequest, "Avatar is required")
		return
	}
	defer avatarFile.Close()

	if _, err := h.Accounts.FindByLogin(ctx, email, username); err == nil {
		respondError(ctx, w, http.StatusConflict, "User already exists with this email or username")
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		logger.Error("look up existing account", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to register user")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to register user")
		return
	}

	avatarPath, err := saveUpload(avatarFile, avatarHeader)
	if err != nil {
		logger.Error("stage avatar upload", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to register user")
		return
	}
	defer os.Remove(avatarPath)

	avatar, err := h.Media.Upload(ctx, avatarPath, "avatars")
	if err != nil {
		logger.Error("upload avatar", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to register user")
		return
	}

	account := models.Account{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		FullName:  fullName,
		Avatar:    avatar.URL,
		Password:  string(hash),
		CreatedAt: h.now().UTC(),
	}

	if coverFile, coverHeader, ok := formFile(r, "coverImage"); ok {
		defer coverFile.Close()
		coverPath, err := saveUpload(coverFile, coverHeader)
		if err != nil {
			logger.Error("stage cover upload", "error", err)
			h.discardAsset(ctx, avatar.Key)
			respondError(ctx, w, http.StatusInternalServerError, "Unable to register user")
			return
		}
		defer os.Remove(coverPath)

		cover, err := h.Media.Upload(ctx, coverPath, "covers")
		if err != nil {
			logger.Error("upload cover image", "error", err)
			h.discardAsset(ctx, avatar.Key)
			respondError(ctx, w, http.StatusInternalServerError, "Unable to register user")
			return
		}
		account.CoverImage = cover.URL
	}

	if err := h.Accounts.Create(ctx, account); err != nil {
		h.discardAsset(ctx, avatar.Key)
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "User already exists with this email or username")
			return
		}
		logger.Error("create account", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to register user")
		return
	}

	respondData(ctx, w, http.StatusCreated, account, "User registered successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a fresh session token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login") {
		respondError(ctx, w, http.StatusTooManyRequests, "Too many login attempts. Try again later.")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	username := strings.TrimSpace(strings.ToLower(req.Username))
	if email == "" && username == "" {
		respondError(ctx, w, http.StatusBadRequest, "Email or Username is required")
		return
	}

	account, err := h.Accounts.FindByLogin(ctx, email, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "User not found")
			return
		}
		logger.Error("look up account for login", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to log in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		respondError(ctx, w, http.StatusUnauthorized, "Invalid user credentials")
		return
	}

	tokens, err := h.Sessions.Issue(ctx, account.ID)
	if err != nil {
		logger.Error("issue session tokens", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to log in")
		return
	}

	setSessionCookies(w, tokens)
	respondData(ctx, w, http.StatusOK, map[string]any{
		"user":         account,
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}, "User logged in successfully")
}

// Logout revokes the caller's tokens and clears session cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if token := bearerToken(r); token != "" {
		h.Sessions.Revoke(ctx, token)
	}
	if cookie, err := r.Cookie("refreshToken"); err == nil && cookie.Value != "" {
		h.Sessions.Revoke(ctx, cookie.Value)
	}

	clearSessionCookies(w)
	respondData(ctx, w, http.StatusOK, nil, "User logged out successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh rotates a refresh token for a new token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		if cookie, err := r.Cookie("refreshToken"); err == nil {
			token = cookie.Value
		}
	}
	if token == "" {
		respondError(ctx, w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	tokens, err := h.Sessions.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) || errors.Is(err, auth.ErrRefreshTokenExpired) {
			respondError(ctx, w, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		logging.FromContext(ctx).Error("refresh session", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to refresh session")
		return
	}

	setSessionCookies(w, tokens)
	respondData(ctx, w, http.StatusOK, map[string]any{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}, "Access token refreshed successfully")
}

// CurrentUser returns the authenticated account.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := h.Accounts.FindByID(ctx, ActorFromContext(ctx))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "User not found")
			return
		}
		logging.FromContext(ctx).Error("load current user", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Unable to fetch current user")
		return
	}

	respondData(ctx, w, http.StatusOK, account, "Current user fetched successfully")
}

func (h *AuthHandler) discardAsset(ctx context.Context, key string) {
	if err := h.Media.Delete(ctx, key); err != nil {
		logging.FromContext(ctx).Warn("remove orphaned media asset", "key", key, "error", err)
	}
}

func setSessionCookies(w http.ResponseWriter, tokens models.SessionTokens) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    tokens.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    tokens.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
