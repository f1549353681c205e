package users

import "cliptube/internal/domain"

type RegisterRequest struct {
	Username string `form:"username" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	FullName string `form:"fullName" validate:"required"`
}

// LoginRequest accepts either field as the identifier; password is checked
// by the service so a missing one surfaces as a validation error, not a
// binding failure.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LoginResult struct {
	User         domain.PublicUser
	AccessToken  string
	RefreshToken string
}

type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}
