package credentials

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Davide1809/password-health-tracker/internal/api/httpx"
	"github.com/Davide1809/password-health-tracker/internal/api/middlewares"
	"github.com/Davide1809/password-health-tracker/internal/storage/s3"
	storecreds "github.com/Davide1809/password-health-tracker/internal/store/credentials"
)

// exportEntry keeps secrets as ciphertext. The download is a vault backup,
// not a plaintext dump; the same encryption key is needed to read it back.
type exportEntry struct {
	ID               string    `json:"id"`
	SiteLabel        string    `json:"site_label"`
	SiteUsername     string    `json:"site_username"`
	SecretCiphertext string    `json:"secret_ciphertext"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type exportDocument struct {
	Version    int           `json:"version"`
	ExportedAt time.Time     `json:"exported_at"`
	Entries    []exportEntry `json:"entries"`
}

// Export: POST /api/credentials/export
// Writes an encrypted vault snapshot to object storage and returns a
// short-lived presigned download URL.
func Export(db *sql.DB, storage *s3.S3Client) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFrom(r.Context())
		if !ok {
			httpx.ErrorJSON(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if storage == nil {
			httpx.ErrorJSON(w, http.StatusServiceUnavailable, "export storage not configured")
			return
		}

		items, err := storecreds.ListByOwner(r.Context(), db, userID)
		if err != nil {
			httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to export credentials")
			return
		}

		doc := exportDocument{
			Version:    1,
			ExportedAt: time.Now().UTC(),
			Entries:    make([]exportEntry, 0, len(items)),
		}
		for _, c := range items {
			doc.Entries = append(doc.Entries, exportEntry{
				ID:               c.ID,
				SiteLabel:        c.SiteLabel,
				SiteUsername:     c.SiteUsername,
				SecretCiphertext: c.SecretCiphertext,
				Notes:            c.Notes,
				CreatedAt:        c.CreatedAt,
				UpdatedAt:        c.UpdatedAt,
			})
		}

		body, err := json.Marshal(doc)
		if err != nil {
			httpx.ErrorJSON(w, http.StatusInternalServerError, "failed to export credentials")
			return
		}

		key := "exports/" + userID + "/" + uuid.NewString() + ".json"
		if err := storage.PutObject(r.Context(), key, "application/json", body); err != nil {
			httpx.ErrorJSON(w, http.StatusBadGateway, "failed to upload export")
			return
		}
		url, err := storage.GeneratePresignedDownloadURL(r.Context(), key)
		if err != nil {
			httpx.ErrorJSON(w, http.StatusBadGateway, "failed to presign export")
			return
		}

		httpx.OK(w, map[string]any{
			"download_url": url,
			"entry_count":  len(doc.Entries),
			"expires_in":   int((15 * time.Minute).Seconds()),
		})
	})
}
