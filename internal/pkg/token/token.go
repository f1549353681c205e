package token

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind discriminates the two token types issued by the Manager.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

type Claims struct {
	UserID int64 `json:"user_id"`
	Kind   Kind  `json:"kind"`
	jwtlib.RegisteredClaims
}

type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Manager signs and verifies access and refresh tokens. The two kinds use
// independent secrets so that compromise of one cannot forge the other.
// Issuance is pure: persisting the refresh token is the caller's job.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssuePair mints a fresh access/refresh token pair for a user.
func (m *Manager) IssuePair(userID int64) (Pair, error) {
	access, err := m.Generate(userID, KindAccess)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.Generate(userID, KindRefresh)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *Manager) Generate(userID int64, kind Kind) (string, error) {
	secret, ttl, err := m.forKind(kind)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwtlib.RegisteredClaims{
			// A random ID makes every token unique even when two are
			// minted within the same second.
			ID:        uuid.NewString(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify checks signature and expiry against the secret for the given kind
// and returns the decoded claims. It never consults storage.
func (m *Manager) Verify(tokenStr string, kind Kind) (*Claims, error) {
	secret, _, err := m.forKind(kind)
	if err != nil {
		return nil, err
	}

	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Kind != kind {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (m *Manager) forKind(kind Kind) ([]byte, time.Duration, error) {
	switch kind {
	case KindAccess:
		return m.accessSecret, m.accessTTL, nil
	case KindRefresh:
		return m.refreshSecret, m.refreshTTL, nil
	default:
		return nil, 0, ErrTokenInvalid
	}
}
