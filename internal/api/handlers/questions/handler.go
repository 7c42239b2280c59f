package questions

import (
	"encoding/json"
	"net/http"

	"github.com/Davide1809/password-health-tracker/internal/api/httpx"
	"github.com/Davide1809/password-health-tracker/internal/api/middlewares"
	"github.com/Davide1809/password-health-tracker/internal/security/password"
	qstore "github.com/Davide1809/password-health-tracker/internal/store/questions"
)

// Catalog: GET /api/security-questions
func Catalog() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.OK(w, qstore.Catalog)
	})
}

type setAnswersRequest struct {
	Answers []struct {
		QuestionID int    `json:"question_id"`
		Answer     string `json:"answer"`
	} `json:"answers"`
}

// SetAnswers: PUT /api/security-questions/answers
// Replaces the caller's whole answer set. Answers are normalized and
// hashed with argon2id; plaintext is never stored.
func SetAnswers(store *qstore.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req setAnswersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if len(req.Answers) == 0 {
			httpx.ErrorJSON(w, http.StatusBadRequest, "at least one answer is required")
			return
		}
		if len(req.Answers) > len(qstore.Catalog) {
			httpx.ErrorJSON(w, http.StatusBadRequest, "too many answers")
			return
		}

		seen := make(map[int]bool, len(req.Answers))
		hashed := make([]qstore.Answer, 0, len(req.Answers))
		for _, a := range req.Answers {
			if !qstore.ValidID(a.QuestionID) {
				httpx.ErrorJSON(w, http.StatusBadRequest, "unknown question_id")
				return
			}
			if seen[a.QuestionID] {
				httpx.ErrorJSON(w, http.StatusBadRequest, "duplicate question_id")
				return
			}
			seen[a.QuestionID] = true

			raw, ok := qstore.ValidateAnswer(a.Answer)
			if !ok {
				httpx.ErrorJSON(w, http.StatusBadRequest, "answers must be 2-100 characters")
				return
			}
			hash, err := password.Hash(qstore.NormalizeAnswer(raw))
			if err != nil {
				httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to save answers")
				return
			}
			hashed = append(hashed, qstore.Answer{QuestionID: a.QuestionID, AnswerHash: hash})
		}

		if err := store.SetAnswers(r.Context(), userID, hashed); err != nil {
			httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to save answers")
			return
		}
		httpx.OKNoData(w)
	})
}

// MyQuestions: GET /api/security-questions/answers
// Returns only the IDs the caller has answered, never the answers.
func MyQuestions(store *qstore.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ids, err := store.QuestionIDs(r.Context(), userID)
		if err != nil {
			httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to load answers")
			return
		}
		if ids == nil {
			ids = []int{}
		}
		httpx.OK(w, map[string]any{"question_ids": ids})
	})
}
