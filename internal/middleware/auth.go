package middleware

import (
	"net/http"
	"strings"

	"cliptube/internal/pkg/token"

	"github.com/gin-gonic/gin"
)

// JWTAuth verifies the access token and attaches user_id to the context.
// The token is taken from the Authorization header or, for browser clients,
// from the accessToken cookie.
func JWTAuth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			if cookie, err := c.Cookie("accessToken"); err == nil {
				tokenStr = cookie
			}
		}

		if tokenStr == "" {
			abortUnauthorized(c, "UNAUTHORIZED", "Missing access token")
			return
		}

		claims, err := tokens.Verify(tokenStr, token.KindAccess)
		if err != nil {
			if err == token.ErrTokenExpired {
				abortUnauthorized(c, "TOKEN_EXPIRED", "Access token expired")
				return
			}
			abortUnauthorized(c, "UNAUTHORIZED", "Invalid access token")
			return
		}

		c.Set("user_id", claims.UserID)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
