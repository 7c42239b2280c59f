package auth

import (
	"context"
	"database/sql"
)

type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{DB: db} }

const userCols = `id, email, username, password_hash,
       COALESCE(token_version,1) AS token_version,
       status, created_at, updated_at`

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.TokenVersion,
		&u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (s *SQLStore) CreateUser(email, username, passwordHash string) (User, error) {
	const q = `
		INSERT INTO public.users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userCols + `;
	`
	return scanUser(s.DB.QueryRowContext(context.Background(), q, email, username, passwordHash))
}

func (s *SQLStore) FindUserByEmail(email string) (User, error) {
	const q = `SELECT ` + userCols + ` FROM public.users WHERE email = $1 LIMIT 1;`
	return scanUser(s.DB.QueryRowContext(context.Background(), q, email))
}

func (s *SQLStore) FindUserByID(userID string) (User, error) {
	const q = `SELECT ` + userCols + ` FROM public.users WHERE id = $1 LIMIT 1;`
	return scanUser(s.DB.QueryRowContext(context.Background(), q, userID))
}

func (s *SQLStore) UpdateUserPasswordHash(userID, newHash string) error {
	const q = `UPDATE public.users SET password_hash = $1, updated_at = now() WHERE id = $2;`
	_, err := s.DB.ExecContext(context.Background(), q, newHash, userID)
	return err
}

func (s *SQLStore) TokenVersion(userID string) (int, error) {
	var tv int
	err := s.DB.QueryRowContext(context.Background(),
		`SELECT COALESCE(token_version,1) FROM public.users WHERE id = $1`, userID).Scan(&tv)
	return tv, err
}

// BumpTokenVersion revokes every outstanding access token for the user.
func (s *SQLStore) BumpTokenVersion(userID string) error {
	_, err := s.DB.ExecContext(context.Background(),
		`UPDATE public.users
		   SET token_version = COALESCE(token_version,1) + 1, updated_at = now()
		 WHERE id = $1`, userID)
	return err
}

// SetPasswordAndBump sets the new hash and bumps token_version in one
// statement, returning the new version.
func (s *SQLStore) SetPasswordAndBump(userID, newHash string) (int, error) {
	var tv int
	err := s.DB.QueryRowContext(context.Background(),
		`UPDATE public.users
		   SET password_hash = $1, token_version = COALESCE(token_version,1) + 1, updated_at = now()
		 WHERE id = $2
		 RETURNING token_version`, newHash, userID).Scan(&tv)
	return tv, err
}
