package auth

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/Davide1809/password-health-tracker/internal/api/httpx"
	"github.com/Davide1809/password-health-tracker/internal/api/middlewares"
	"github.com/Davide1809/password-health-tracker/internal/notify"
	jwtutil "github.com/Davide1809/password-health-tracker/internal/security/jwt"
	"github.com/Davide1809/password-health-tracker/internal/security/password"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	Store    UserStore
	RDB      *redis.Client
	Notifier notify.Notifier
}

func New(store UserStore, rdb *redis.Client) *Handler {
	return &Handler{Store: store, RDB: rdb, Notifier: notify.LogNotifier{}}
}

// Register creates a new user account. Weak passwords above the minimum
// length are accepted with a warn-only strength payload.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrorCode(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		httpx.ErrorCode(w, http.StatusBadRequest, "invalid_input", "Invalid email or password")
		return
	}

	trimmed, warn, err := password.Validate(r.Context(), req.Password)
	if err != nil {
		httpx.ErrorCode(w, http.StatusBadRequest, "invalid_input", "Invalid email or password")
		return
	}

	hash, err := password.Hash(trimmed)
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "hash_error", "Failed to hash password")
		return
	}

	u, err := h.Store.CreateUser(req.Email, req.Username, hash)
	if err != nil {
		httpx.ErrorCode(w, http.StatusConflict, "conflict", "Cannot create user")
		return
	}

	access, _, err := jwtutil.SignAccess(u.ID, u.TokenVersion, jwtutil.DefaultAccessTTL())
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "jwt_error", "Failed to sign access token")
		return
	}
	refresh, err := h.issueRefresh(r.Context(), u.ID, u.TokenVersion)
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "refresh_error", "Failed to issue refresh token")
		return
	}

	resp := map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
	}
	if warn != nil {
		resp["password_warning"] = warn
	}
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

// Login authenticates a user and returns a token pair.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrorCode(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
		return
	}
	u, err := h.Store.FindUserByEmail(req.Email)
	if err != nil || u.ID == "" {
		httpx.ErrorCode(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}
	ok, needsRehash, err := password.Verify(req.Password, u.PasswordHash)
	if err != nil || !ok {
		httpx.ErrorCode(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}
	if needsRehash {
		if newPHC, err := password.Hash(req.Password); err == nil {
			_ = h.Store.UpdateUserPasswordHash(u.ID, newPHC)
		}
	}

	access, _, err := jwtutil.SignAccess(u.ID, u.TokenVersion, jwtutil.DefaultAccessTTL())
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "jwt_error", "Failed to sign access token")
		return
	}
	refresh, err := h.issueRefresh(r.Context(), u.ID, u.TokenVersion)
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "refresh_error", "Failed to issue refresh token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TokenPair{AccessToken: access, RefreshToken: refresh})
}

// Refresh rotates the refresh token and returns a fresh pair.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		httpx.ErrorCode(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
		return
	}
	key := "rt:" + req.RefreshToken

	ctx := r.Context()
	val, err := h.RDB.Get(ctx, key).Result()
	if err != nil {
		httpx.ErrorCode(w, http.StatusUnauthorized, "invalid_refresh", "Invalid refresh token")
		return
	}

	parts := strings.SplitN(val, "|", 2) // value: userID|tokenVersion
	if len(parts) != 2 {
		httpx.ErrorCode(w, http.StatusUnauthorized, "invalid_refresh", "Invalid refresh token")
		return
	}
	userID := parts[0]
	tv, _ := strconv.Atoi(parts[1])

	// confirm token_version is current
	dbVer, err := h.Store.TokenVersion(userID)
	if err != nil || dbVer != tv {
		httpx.ErrorCode(w, http.StatusUnauthorized, "token_revoked", "Token has been revoked")
		return
	}

	// rotate refresh
	_ = h.RDB.Del(ctx, key).Err()
	newRefresh, err := h.issueRefresh(ctx, userID, dbVer)
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "refresh_error", "Failed to issue refresh token")
		return
	}

	access, _, err := jwtutil.SignAccess(userID, dbVer, jwtutil.DefaultAccessTTL())
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "jwt_error", "Failed to sign access token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TokenPair{AccessToken: access, RefreshToken: newRefresh})
}

// Logout invalidates a single refresh token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.RefreshToken != "" {
		_ = h.RDB.Del(r.Context(), "rt:"+req.RefreshToken).Err()
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// LogoutAll invalidates every session by bumping the token version.
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserIDFrom(r.Context())
	if !ok {
		httpx.ErrorCode(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}
	if err := h.Store.BumpTokenVersion(userID); err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "update_failed", "Failed to update token version")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me returns the current user's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserIDFrom(r.Context())
	if !ok {
		httpx.ErrorCode(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}
	u, err := h.Store.FindUserByID(userID)
	if err != nil {
		httpx.ErrorCode(w, http.StatusNotFound, "not_found", "User not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MeResponse{
		ID: u.ID, Email: u.Email, Username: u.Username,
		Status: u.Status, CreatedAt: u.CreatedAt,
	})
}

// ChangePassword verifies the old password, sets the new one and rotates
// every outstanding token.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserIDFrom(r.Context())
	if !ok {
		httpx.ErrorCode(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrorCode(w, http.StatusBadRequest, "invalid_input", "Invalid input")
		return
	}
	if req.OldPassword == "" {
		httpx.ErrorCode(w, http.StatusBadRequest, "invalid_input", "Invalid input")
		return
	}
	np, warn, err := password.Validate(r.Context(), req.NewPassword)
	if err != nil {
		httpx.ErrorCode(w, http.StatusBadRequest, "invalid_input", "Invalid input")
		return
	}

	u, err := h.Store.FindUserByID(userID)
	if err != nil {
		httpx.ErrorCode(w, http.StatusNotFound, "not_found", "User not found")
		return
	}
	okPass, _, err := password.Verify(req.OldPassword, u.PasswordHash)
	if err != nil || !okPass {
		httpx.ErrorCode(w, http.StatusForbidden, "forbidden", "Invalid old password")
		return
	}

	newPHC, err := password.Hash(np)
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "hash_error", "Failed to hash new password")
		return
	}
	tv, err := h.Store.SetPasswordAndBump(userID, newPHC)
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "update_failed", "Failed to update password")
		return
	}
	if h.Notifier != nil {
		_ = h.Notifier.PasswordChanged(r.Context(), userID)
	}

	access, _, err := jwtutil.SignAccess(userID, tv, jwtutil.DefaultAccessTTL())
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "jwt_error", "Failed to sign access token")
		return
	}
	newRefresh, err := h.issueRefresh(r.Context(), userID, tv)
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "refresh_error", "Failed to issue refresh token")
		return
	}

	resp := map[string]any{
		"access_token":  access,
		"refresh_token": newRefresh,
	}
	if warn != nil {
		resp["password_warning"] = warn
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
