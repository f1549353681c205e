package users

import (
	"context"
	"mime/multipart"

	"cliptube/internal/domain"
	"cliptube/internal/pkg/token"
)

// UserRepository — only the methods the user service uses.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	SetRefreshToken(ctx context.Context, id int64, refreshToken string) error
	SetRefreshTokenIfMatch(ctx context.Context, id int64, current, next string) (bool, error)
	ClearRefreshToken(ctx context.Context, id int64) error
}

// TokenManager issues and verifies the access/refresh pair.
type TokenManager interface {
	IssuePair(userID int64) (token.Pair, error)
	Verify(tokenStr string, kind token.Kind) (*token.Claims, error)
}

// AssetStore persists uploaded image files and returns public URLs.
type AssetStore interface {
	Upload(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)
}
