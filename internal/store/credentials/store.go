package credentials

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound covers both a missing row and a row owned by someone else.
// Callers surface the two identically so requests cannot probe for existence.
var ErrNotFound = errors.New("credential not found")

type Credential struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"-"`
	SiteLabel        string    `json:"site_label"`
	SiteUsername     string    `json:"site_username"`
	SecretCiphertext string    `json:"-"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// UpdateFields carries the mutable fields; nil means "leave unchanged".
// Secret is already ciphertext by the time it reaches the store.
type UpdateFields struct {
	SiteLabel        *string
	SiteUsername     *string
	SecretCiphertext *string
	Notes            *string
}

// Create inserts a credential and returns the assigned id. The secret must
// already be encrypted; plaintext never reaches this layer.
func Create(ctx context.Context, db *sql.DB, ownerID, siteLabel, siteUsername, secretCiphertext, notes string) (string, error) {
	const q = `
        INSERT INTO public.credentials (user_id, site_label, site_username, secret_ciphertext, notes)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id::text
    `
	var id string
	err := db.QueryRowContext(ctx, q, ownerID, siteLabel, siteUsername, secretCiphertext, notes).Scan(&id)
	return id, err
}

// ListByOwner returns every credential owned by ownerID, newest first.
func ListByOwner(ctx context.Context, db *sql.DB, ownerID string) ([]Credential, error) {
	const q = `
        SELECT id::text, user_id::text, site_label, site_username, secret_ciphertext,
               COALESCE(notes,''), created_at, updated_at
        FROM public.credentials
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Credential
	for rows.Next() {
		var c Credential
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.SiteLabel, &c.SiteUsername,
			&c.SecretCiphertext, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update mutates only the provided fields. Ownership is enforced in the same
// statement as the write, so there is no check-then-act window.
func Update(ctx context.Context, db *sql.DB, ownerID, id string, f UpdateFields) error {
	const q = `
        UPDATE public.credentials
        SET site_label        = COALESCE($1, site_label),
            site_username     = COALESCE($2, site_username),
            secret_ciphertext = COALESCE($3, secret_ciphertext),
            notes             = COALESCE($4, notes),
            updated_at        = now()
        WHERE id = $5 AND user_id = $6
    `
	res, err := db.ExecContext(ctx, q, f.SiteLabel, f.SiteUsername, f.SecretCiphertext, f.Notes, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete hard-deletes, gated on ownership in the same statement.
func Delete(ctx context.Context, db *sql.DB, ownerID, id string) error {
	const q = `DELETE FROM public.credentials WHERE id = $1 AND user_id = $2`
	res, err := db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
