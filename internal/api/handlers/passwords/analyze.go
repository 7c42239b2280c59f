package passwords

import (
	"encoding/json"
	"net/http"

	"github.com/Davide1809/password-health-tracker/internal/api/httpx"
	"github.com/Davide1809/password-health-tracker/internal/breach"
	"github.com/Davide1809/password-health-tracker/internal/metrics/analysisqueue"
	"github.com/Davide1809/password-health-tracker/internal/strength"
)

// AnalyzeResponse combines the local strength analysis with the breach
// lookup. Breached is null when the breach source could not be reached.
type AnalyzeResponse struct {
	strength.Analysis
	Breached    *bool `json:"breached"`
	BreachCount int   `json:"breach_count"`
}

// Analyze: POST /api/passwords/analyze
// Scoring runs locally while the breach range query is in flight; neither
// waits on the other longer than it has to.
func Analyze(checker *breach.Checker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.Password == "" {
			httpx.ErrorJSON(w, http.StatusBadRequest, "password is required")
			return
		}
		if len(req.Password) > 128 {
			httpx.ErrorJSON(w, http.StatusBadRequest, "password exceeds 128 characters")
			return
		}

		results := make(chan breach.Result, 1)
		go func() {
			results <- checker.Check(r.Context(), req.Password)
		}()

		analysis := strength.Score(req.Password)
		br := <-results

		analysisqueue.Enqueue(analysis.Score, br.BreachedPtr())

		httpx.OK(w, AnalyzeResponse{
			Analysis:    analysis,
			Breached:    br.BreachedPtr(),
			BreachCount: br.Count,
		})
	})
}
