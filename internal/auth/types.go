package auth

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type MeResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID           string // uuid
	Email        string
	Username     string
	PasswordHash string
	TokenVersion int
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Keep DB details abstract so handlers don't assume the SQL layer.
type UserStore interface {
	CreateUser(email, username, passwordHash string) (User, error)
	FindUserByEmail(email string) (User, error)
	FindUserByID(userID string) (User, error)
	UpdateUserPasswordHash(userID, newHash string) error
	TokenVersion(userID string) (int, error)
	BumpTokenVersion(userID string) error
	SetPasswordAndBump(userID, newHash string) (int, error)
}
