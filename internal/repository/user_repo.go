package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"cliptube/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert violates the username or email
// unique constraint.
var ErrDuplicate = errors.New("duplicate username or email")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	Username      string    `gorm:"column:username;uniqueIndex;not null"`
	Email         string    `gorm:"column:email;uniqueIndex;not null"`
	FullName      string    `gorm:"column:full_name;not null"`
	AvatarURL     string    `gorm:"column:avatar_url"`
	CoverImageURL *string   `gorm:"column:cover_image_url"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	RefreshToken  *string   `gorm:"column:refresh_token"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

// AutoMigrate creates the users table. Used by cmd/api and tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{})
}

func toDomainUser(m userModel) *domain.User {
	var cover string
	if m.CoverImageURL != nil {
		cover = *m.CoverImageURL
	}

	return &domain.User{
		ID:            m.ID,
		Username:      m.Username,
		Email:         m.Email,
		FullName:      m.FullName,
		AvatarURL:     m.AvatarURL,
		CoverImageURL: cover,
		PasswordHash:  m.PasswordHash,
		RefreshToken:  m.RefreshToken,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var cover *string
	if u.CoverImageURL != "" {
		v := u.CoverImageURL
		cover = &v
	}

	return userModel{
		ID:            u.ID,
		Username:      strings.ToLower(strings.TrimSpace(u.Username)),
		Email:         strings.ToLower(strings.TrimSpace(u.Email)),
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: cover,
		PasswordHash:  u.PasswordHash,
		RefreshToken:  u.RefreshToken,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return ErrDuplicate
		}
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

// GetByUsernameOrEmail resolves a login identifier against both unique
// fields with a single query. Matching is case-insensitive.
func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	ident := strings.ToLower(strings.TrimSpace(identifier))

	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(username) = ? OR LOWER(email) = ?", ident, ident).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

// ExistsByUsernameOrEmail reports whether any account already holds the
// username or the email, in one query over both fields.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("LOWER(username) = ? OR LOWER(email) = ?", username, email).
		Count(&count)
	if tx.Error != nil {
		return false, tx.Error
	}
	return count > 0, nil
}

// SetRefreshToken overwrites the stored refresh token unconditionally.
// This is what enforces "single active refresh token per account".
func (r *UserRepository) SetRefreshToken(ctx context.Context, id int64, refreshToken string) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", id).
		Update("refresh_token", refreshToken).Error
}

// SetRefreshTokenIfMatch swaps the stored refresh token only if it still
// equals current. Returns false when the stored value changed underneath,
// which closes the concurrent-refresh race.
func (r *UserRepository) SetRefreshTokenIfMatch(ctx context.Context, id int64, current, next string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ? AND refresh_token = ?", id, current).
		Update("refresh_token", next)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", id).
		Update("refresh_token", nil).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite reports constraint violations as plain errors
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
