package passwords

import (
	"encoding/json"
	"net/http"

	"github.com/Davide1809/password-health-tracker/internal/api/httpx"
	"github.com/Davide1809/password-health-tracker/internal/generator"
	"github.com/Davide1809/password-health-tracker/internal/security/password"
	"github.com/Davide1809/password-health-tracker/internal/strength"
)

type generateRequest struct {
	Length         *int  `json:"length"`
	IncludeSpecial *bool `json:"include_special"`
	IncludeNumbers *bool `json:"include_numbers"`
}

type generateResponse struct {
	Password         string            `json:"password"`
	Analysis         strength.Analysis `json:"analysis"`
	MeetsPolicy      bool              `json:"meets_policy"`
	ValidationErrors []string          `json:"validation_errors"`
}

// Generate: POST /api/passwords/generate
// The generated password is scored and policy-checked in the same response
// so clients see the generator and the validator agree.
func Generate() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := generateRequest{}
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON")
				return
			}
		}

		length := generator.DefaultLength
		if req.Length != nil {
			length = *req.Length
		}
		special, numbers := true, true
		if req.IncludeSpecial != nil {
			special = *req.IncludeSpecial
		}
		if req.IncludeNumbers != nil {
			numbers = *req.IncludeNumbers
		}

		pwd, err := generator.Generate(length, special, numbers)
		if err != nil {
			httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to generate password")
			return
		}

		report := password.CheckPolicy(pwd)
		errs := report.Errors
		if errs == nil {
			errs = []string{}
		}
		httpx.OK(w, generateResponse{
			Password:         pwd,
			Analysis:         strength.Score(pwd),
			MeetsPolicy:      report.MeetsPolicy,
			ValidationErrors: errs,
		})
	})
}
