package breaches

import (
	"encoding/json"
	"net/http"

	"github.com/Davide1809/password-health-tracker/internal/api/httpx"
	"github.com/Davide1809/password-health-tracker/internal/breach"
)

type checkResponse struct {
	Breached *bool  `json:"breached"`
	Count    int    `json:"count"`
	Message  string `json:"message"`
}

// Check: POST /api/breaches/check
// The password never leaves the service; only a 5-char SHA-1 prefix goes
// upstream. Breached is null when the source is unreachable.
func Check(checker *breach.Checker) http.Handler {
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

		res := checker.Check(r.Context(), req.Password)

		resp := checkResponse{Breached: res.BreachedPtr(), Count: res.Count}
		switch res.Status {
		case breach.StatusBreached:
			resp.Message = "This password has appeared in known data breaches. Do not use it."
		case breach.StatusClear:
			resp.Message = "This password was not found in known data breaches."
		default:
			resp.Message = "Breach status could not be determined. Try again later."
		}
		httpx.OK(w, resp)
	})
}
