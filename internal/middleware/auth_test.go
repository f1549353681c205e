package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cliptube/internal/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(t *testing.T, tokens *token.Manager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", JWTAuth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt64("user_id")})
	})
	return router
}

func TestJWTAuthBearerHeader(t *testing.T) {
	tokens := token.NewManager("access-test-secret", "refresh-test-secret", time.Hour, 24*time.Hour)
	router := setupAuthRouter(t, tokens)

	access, err := tokens.Generate(9, token.KindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"user_id":9`)
}

func TestJWTAuthCookie(t *testing.T) {
	tokens := token.NewManager("access-test-secret", "refresh-test-secret", time.Hour, 24*time.Hour)
	router := setupAuthRouter(t, tokens)

	access, err := tokens.Generate(9, token.KindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestJWTAuthMissingToken(t *testing.T) {
	tokens := token.NewManager("access-test-secret", "refresh-test-secret", time.Hour, 24*time.Hour)
	router := setupAuthRouter(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestJWTAuthRejectsRefreshToken(t *testing.T) {
	tokens := token.NewManager("access-test-secret", "refresh-test-secret", time.Hour, 24*time.Hour)
	router := setupAuthRouter(t, tokens)

	refresh, err := tokens.Generate(9, token.KindRefresh)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	expired := token.NewManager("access-test-secret", "refresh-test-secret", -time.Minute, -time.Minute)
	live := token.NewManager("access-test-secret", "refresh-test-secret", time.Hour, 24*time.Hour)
	router := setupAuthRouter(t, live)

	access, err := expired.Generate(9, token.KindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "TOKEN_EXPIRED")
}
