package credentials

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Davide1809/password-health-tracker/internal/api/apperr"
	"github.com/Davide1809/password-health-tracker/internal/api/httpx"
	"github.com/Davide1809/password-health-tracker/internal/api/middlewares"
	"github.com/Davide1809/password-health-tracker/internal/security/credcipher"
	storecreds "github.com/Davide1809/password-health-tracker/internal/store/credentials"
	"github.com/Davide1809/password-health-tracker/internal/strength"
	"github.com/Davide1809/password-health-tracker/internal/validate"
)

// entry is the API shape of a stored credential. The secret is returned
// decrypted; entries whose ciphertext cannot be opened carry the mask value
// instead of failing the whole listing.
type entry struct {
	ID           string `json:"id"`
	SiteLabel    string `json:"site_label"`
	SiteUsername string `json:"site_username"`
	Secret       string `json:"password"`
	Notes        string `json:"notes"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func toEntry(c storecreds.Credential, cipher *credcipher.Cipher) entry {
	return entry{
		ID:           c.ID,
		SiteLabel:    c.SiteLabel,
		SiteUsername: c.SiteUsername,
		Secret:       cipher.DecryptOrMask(c.SecretCiphertext),
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    c.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Create: POST /api/credentials
func Create(db *sql.DB, cipher *credcipher.Cipher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req struct {
			SiteLabel    string `json:"site_label"`
			SiteUsername string `json:"site_username"`
			Password     string `json:"password"`
			Notes        string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		label, err := validate.RequireBounded("site_label", req.SiteLabel, 1, 120)
		if err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		req.SiteLabel = label
		username, err := validate.RequireBounded("site_username", req.SiteUsername, 0, 120)
		if err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		req.SiteUsername = username
		if req.Notes != "" {
			notes, err := validate.RequireBounded("notes", req.Notes, 0, 1000)
			if err != nil {
				httpx.ErrorJSON(w, http.StatusBadRequest, err.Error())
				return
			}
			req.Notes = notes
		}
		if req.Password == "" || len(req.Password) > 128 {
			httpx.ErrorJSON(w, http.StatusBadRequest, "password must be 1-128 characters")
			return
		}

		ct, err := cipher.Encrypt(req.Password)
		if err != nil {
			httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to store credential")
			return
		}

		id, err := storecreds.Create(r.Context(), db, userID, req.SiteLabel, req.SiteUsername, ct, req.Notes)
		if err != nil {
			apperr.HandleDBError(w, r, err, "failed to store credential")
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, map[string]any{
			"id":       id,
			"strength": strength.ScoreWithLimit(req.Password, 5),
		})
	})
}

// List: GET /api/credentials
func List(db *sql.DB, cipher *credcipher.Cipher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := storecreds.ListByOwner(r.Context(), db, userID)
		if err != nil {
			httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to list credentials")
			return
		}

		out := make([]entry, 0, len(items))
		for _, c := range items {
			out = append(out, toEntry(c, cipher))
		}
		httpx.OK(w, out)
	})
}

// Update: PUT /api/credentials/{id}
func Update(db *sql.DB, cipher *credcipher.Cipher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		id, ok := pathID(r)
		if !ok {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid credential id")
			return
		}

		var req struct {
			SiteLabel    *string `json:"site_label"`
			SiteUsername *string `json:"site_username"`
			Password     *string `json:"password"`
			Notes        *string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.SiteLabel == nil && req.SiteUsername == nil && req.Password == nil && req.Notes == nil {
			httpx.ErrorJSON(w, http.StatusBadRequest, "no fields to update")
			return
		}
		if req.SiteLabel != nil {
			label, err := validate.RequireBounded("site_label", *req.SiteLabel, 1, 120)
			if err != nil {
				httpx.ErrorJSON(w, http.StatusBadRequest, err.Error())
				return
			}
			req.SiteLabel = &label
		}
		if req.SiteUsername != nil {
			username, err := validate.RequireBounded("site_username", *req.SiteUsername, 0, 120)
			if err != nil {
				httpx.ErrorJSON(w, http.StatusBadRequest, err.Error())
				return
			}
			req.SiteUsername = &username
		}
		if req.Notes != nil {
			notes, err := validate.RequireBounded("notes", *req.Notes, 0, 1000)
			if err != nil {
				httpx.ErrorJSON(w, http.StatusBadRequest, err.Error())
				return
			}
			req.Notes = &notes
		}

		fields := storecreds.UpdateFields{
			SiteLabel:    req.SiteLabel,
			SiteUsername: req.SiteUsername,
			Notes:        req.Notes,
		}
		if req.Password != nil {
			if *req.Password == "" || len(*req.Password) > 128 {
				httpx.ErrorJSON(w, http.StatusBadRequest, "password must be 1-128 characters")
				return
			}
			ct, err := cipher.Encrypt(*req.Password)
			if err != nil {
				httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to update credential")
				return
			}
			fields.SecretCiphertext = &ct
		}

		err := storecreds.Update(r.Context(), db, userID, id, fields)
		if errors.Is(err, storecreds.ErrNotFound) {
			httpx.ErrorJSON(w, http.StatusNotFound, "credential not found")
			return
		}
		if err != nil {
			apperr.HandleDBError(w, r, err, "failed to update credential")
			return
		}
		httpx.OKNoData(w)
	})
}

// Delete: DELETE /api/credentials/{id}
func Delete(db *sql.DB) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		id, ok := pathID(r)
		if !ok {
			httpx.ErrorJSON(w, http.StatusBadRequest, "invalid credential id")
			return
		}

		err := storecreds.Delete(r.Context(), db, userID, id)
		if errors.Is(err, storecreds.ErrNotFound) {
			httpx.ErrorJSON(w, http.StatusNotFound, "credential not found")
			return
		}
		if err != nil {
			httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to delete credential")
			return
		}
		httpx.OKNoData(w)
	})
}

// pathID validates the {id} path segment as a UUID before it reaches SQL.
func pathID(r *http.Request) (string, bool) {
	raw := r.PathValue("id")
	if _, err := uuid.Parse(raw); err != nil {
		return "", false
	}
	return raw, true
}
