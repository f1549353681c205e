package users

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"cliptube/internal/domain"
	"cliptube/internal/pkg/apperr"
	"cliptube/internal/pkg/password"
	"cliptube/internal/pkg/token"
	"cliptube/internal/pkg/validator"
	"cliptube/internal/repository"

	"gorm.io/gorm"
)

// Service contains all business logic for the account session lifecycle.
type Service struct {
	users  UserRepository
	tokens TokenManager
	assets AssetStore
}

func NewService(users UserRepository, tokens TokenManager, assets AssetStore) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		assets: assets,
	}
}

// Register creates an account. The avatar file is mandatory; the cover image
// is optional and its upload failure degrades to an empty field. The returned
// projection never contains the password hash or a refresh token.
func (s *Service) Register(ctx context.Context, req RegisterRequest, avatar, cover *multipart.FileHeader) (*domain.PublicUser, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	if req.Username == "" || req.Email == "" || req.FullName == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperr.Validation("all fields are required")
	}
	if errs := validator.Validate(req); errs != nil {
		return nil, apperr.Validation("invalid registration data")
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, apperr.Internal("failed to check existing users", err)
	}
	if exists {
		return nil, apperr.Conflict("user with email or username already exists")
	}

	if avatar == nil {
		return nil, apperr.Validation("avatar file is required")
	}
	avatarURL, err := s.assets.Upload(ctx, avatar)
	if err != nil {
		return nil, apperr.Validation("avatar file is required")
	}

	var coverURL string
	if cover != nil {
		// optional asset: upload failure leaves the field empty
		if url, err := s.assets.Upload(ctx, cover); err == nil {
			coverURL = url
		}
	}

	user, err := domain.NewUser(req.Username, req.Email, req.FullName, req.Password)
	if err != nil {
		return nil, apperr.Internal("failed to create user", err)
	}
	user.AvatarURL = avatarURL
	user.CoverImageURL = coverURL

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("user with email or username already exists")
		}
		return nil, apperr.Internal("failed to create user", err)
	}

	public := user.Public()
	return &public, nil
}

// Login verifies credentials, issues a token pair and persists the refresh
// token as the account's single active one.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" {
		return nil, apperr.Validation("username or email is required")
	}
	if req.Password == "" {
		return nil, apperr.Validation("password is required")
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user does not exist")
		}
		return nil, apperr.Internal("failed to look up user", err)
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials("invalid user credentials")
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, apperr.Internal("failed to generate tokens", err)
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, apperr.Internal("failed to persist session", err)
	}

	return &LoginResult{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Logout drops the stored refresh token. The caller's identity comes from a
// previously verified access token; this method does not verify anything.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		return apperr.Internal("failed to clear session", err)
	}
	return nil
}

// Refresh rotates the token pair. The incoming refresh token must both
// verify cryptographically and equal the single token stored for the
// account; a superseded token is rejected even when its signature is fine.
func (s *Service) Refresh(ctx context.Context, incoming string) (*RefreshResult, error) {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" {
		return nil, apperr.Unauthorized("unauthorized request")
	}

	claims, err := s.tokens.Verify(incoming, token.KindRefresh)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			return nil, apperr.Expired("refresh token expired")
		}
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("invalid refresh token")
		}
		return nil, apperr.Internal("failed to look up user", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != incoming {
		return nil, apperr.Unauthorized("refresh token is expired or used")
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, apperr.Internal("failed to generate tokens", err)
	}

	swapped, err := s.users.SetRefreshTokenIfMatch(ctx, user.ID, incoming, pair.RefreshToken)
	if err != nil {
		return nil, apperr.Internal("failed to persist session", err)
	}
	if !swapped {
		// lost a race against a concurrent refresh; the incoming token is superseded
		return nil, apperr.Unauthorized("refresh token is expired or used")
	}

	return &RefreshResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Me returns the current user's public projection.
func (s *Service) Me(ctx context.Context, userID int64) (*domain.PublicUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to look up user", err)
	}
	public := user.Public()
	return &public, nil
}
