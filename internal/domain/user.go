package domain

import (
	"strings"
	"time"

	"cliptube/internal/pkg/password"
)

// User is the account record. Username and email are stored lowercased and
// are unique. RefreshToken holds the single currently valid refresh token
// for the account, or nil when the user is logged out.
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	AvatarURL     string    `json:"avatar_url"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	PasswordHash  string    `json:"-"`
	RefreshToken  *string   `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PublicUser is the projection of a User that is safe to return to clients.
// It never carries the password hash or the refresh token.
type PublicUser struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	AvatarURL     string    `json:"avatar_url"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewUser builds an account from registration input. The plaintext password
// is hashed here so callers never handle the hash themselves.
func NewUser(username, email, fullName, plainPassword string) (*User, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, err
	}
	return &User{
		Username:     strings.ToLower(strings.TrimSpace(username)),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
	}, nil
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
	}
}
