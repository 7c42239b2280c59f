package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Davide1809/password-health-tracker/internal/api/httpx"
	"github.com/Davide1809/password-health-tracker/internal/notify"
	"github.com/Davide1809/password-health-tracker/internal/security/password"
	"github.com/Davide1809/password-health-tracker/internal/store/questions"
)

const (
	prKeyPrefix   = "pr:"       // reset token → user_id
	prQuotaPrefix = "pr:quota:" // email → attempt count (24h TTL)
	prTTL         = 15 * time.Minute
	prQuotaMax    = 5
)

// RecoveryHandler drives password recovery through security questions.
// Answers verify against argon2id hashes; a successful answer mints a
// short-lived reset token in Redis.
type RecoveryHandler struct {
	Users     UserStore
	Questions *questions.Store
	RDB       *redis.Client
	Notifier  notify.Notifier
}

type recoveryStartRequest struct {
	Email string `json:"email"`
}

type recoveryVerifyRequest struct {
	Email      string `json:"email"`
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

type recoveryResetRequest struct {
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

// Start returns the question IDs the account can answer. Attempts are
// quota-limited per email so the endpoint cannot be used to farm answers.
func (h *RecoveryHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req recoveryStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		httpx.ErrorCode(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
		return
	}
	ctx := r.Context()

	if !h.allowAttempt(r, req.Email) {
		w.Header().Set("Retry-After", strconv.Itoa(int(24*time.Hour/time.Second)))
		httpx.ErrorCode(w, http.StatusTooManyRequests, "rate_limited", "Too many recovery attempts")
		return
	}

	u, err := h.Users.FindUserByEmail(req.Email)
	if err != nil || u.ID == "" {
		// Same shape as the empty-answers case so emails cannot be probed.
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"question_ids": []int{}})
		return
	}
	ids, err := h.Questions.QuestionIDs(ctx, u.ID)
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "internal", "Recovery unavailable")
		return
	}
	if ids == nil {
		ids = []int{}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"question_ids": ids})
}

// Verify checks one answer and, on success, returns a reset token.
func (h *RecoveryHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req recoveryVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Answer == "" {
		httpx.ErrorCode(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
		return
	}
	if !questions.ValidID(req.QuestionID) {
		httpx.ErrorCode(w, http.StatusBadRequest, "invalid_input", "Unknown question")
		return
	}
	ctx := r.Context()

	if !h.allowAttempt(r, req.Email) {
		w.Header().Set("Retry-After", strconv.Itoa(int(24*time.Hour/time.Second)))
		httpx.ErrorCode(w, http.StatusTooManyRequests, "rate_limited", "Too many recovery attempts")
		return
	}

	u, err := h.Users.FindUserByEmail(req.Email)
	if err != nil || u.ID == "" {
		httpx.ErrorCode(w, http.StatusForbidden, "recovery_failed", "Answer does not match")
		return
	}
	hash, err := h.Questions.AnswerHash(ctx, u.ID, req.QuestionID)
	if errors.Is(err, questions.ErrNoAnswer) {
		httpx.ErrorCode(w, http.StatusForbidden, "recovery_failed", "Answer does not match")
		return
	}
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "internal", "Recovery unavailable")
		return
	}

	ok, _, err := password.Verify(questions.NormalizeAnswer(req.Answer), hash)
	if err != nil || !ok {
		httpx.ErrorCode(w, http.StatusForbidden, "recovery_failed", "Answer does not match")
		return
	}

	token, err := randToken()
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "token_error", "Recovery unavailable")
		return
	}
	if err := h.RDB.SetEx(ctx, prKeyPrefix+token, u.ID, prTTL).Err(); err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "internal", "Recovery unavailable")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"reset_token": token,
		"expires_in":  int(prTTL / time.Second),
	})
}

// Reset consumes a reset token and sets a new password, revoking every
// outstanding session.
func (h *RecoveryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req recoveryResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ResetToken == "" {
		httpx.ErrorCode(w, http.StatusBadRequest, "bad_request", "Invalid JSON")
		return
	}
	ctx := r.Context()

	key := prKeyPrefix + req.ResetToken
	userID, err := h.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) || userID == "" {
		httpx.ErrorCode(w, http.StatusBadRequest, "invalid_token", "Invalid or expired reset token")
		return
	}
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "internal", "Recovery unavailable")
		return
	}

	np, _, err := password.Validate(ctx, req.NewPassword)
	if err != nil {
		httpx.ErrorCode(w, http.StatusBadRequest, "weak_password", "New password is too short")
		return
	}
	newPHC, err := password.Hash(np)
	if err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "hash_error", "Failed to hash new password")
		return
	}
	if _, err := h.Users.SetPasswordAndBump(userID, newPHC); err != nil {
		httpx.ErrorCode(w, http.StatusInternalServerError, "update_failed", "Failed to update password")
		return
	}
	_ = h.RDB.Del(ctx, key).Err() // best effort
	if h.Notifier != nil {
		_ = h.Notifier.RecoveryUsed(ctx, userID)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// allowAttempt enforces the per-email attempt quota. Fails open if Redis
// is down; the argon2id verify is the real cost anyway.
func (h *RecoveryHandler) allowAttempt(r *http.Request, email string) bool {
	ctx := r.Context()
	qKey := prQuotaPrefix + email
	pipe := h.RDB.TxPipeline()
	incr := pipe.Incr(ctx, qKey)
	pipe.Expire(ctx, qKey, 24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return true
	}
	return incr.Val() <= int64(prQuotaMax)
}
