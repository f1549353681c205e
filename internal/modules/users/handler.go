package users

import (
	"net/http"

	"cliptube/internal/pkg/apperr"
	"cliptube/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// CookieConfig carries the transport options shared by every auth cookie.
// Set and clear use the same options so browsers actually drop them.
type CookieConfig struct {
	Secure   bool
	SameSite http.SameSite
	Path     string
}

// Handler manages all HTTP interactions for user accounts
type Handler struct {
	service *Service
	cookies CookieConfig
}

// NewHandler creates a new users handler with injected service
func NewHandler(service *Service, cookies CookieConfig) *Handler {
	if cookies.Path == "" {
		cookies.Path = "/"
	}
	return &Handler{
		service: service,
		cookies: cookies,
	}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	userGroup := v1.Group("/users")
	{
		userGroup.POST("/register", h.Register)
		userGroup.POST("/login", h.Login)
		userGroup.POST("/refresh-token", h.Refresh)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	userGroup := protected.Group("/users")
	{
		userGroup.POST("/logout", h.Logout)
		userGroup.GET("/me", h.GetMe)
	}
}

// Register creates a new account from a multipart form.
// @Summary		Register a user
// @Description	Creates an account from username, email, password, fullName plus a mandatory avatar image and an optional coverImage. Returns the public profile.
// @Tags		Users
// @Accept		multipart/form-data
// @Success		201	{object}	map[string]interface{} "Created account projection"
// @Failure		400	{object}	map[string]interface{} "Validation error"
// @Failure		409	{object}	map[string]interface{} "Username or email already taken"
// @Router		/users/register [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	avatar, _ := c.FormFile("avatar")
	cover, _ := c.FormFile("coverImage")

	user, err := h.service.Register(c.Request.Context(), req, avatar, cover)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user": user,
	})
}

// Login authenticates by username or email and issues the token pair.
// @Summary		Log in
// @Description	Verifies the password and returns access and refresh tokens in both the body and http-only cookies, plus the public profile.
// @Tags		Users
// @Success		200	{object}	map[string]interface{} "Tokens and account projection"
// @Failure		400	{object}	map[string]interface{} "Missing identifier or password"
// @Failure		404	{object}	map[string]interface{} "No such user"
// @Failure		401	{object}	map[string]interface{} "Wrong password"
// @Router		/users/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setAuthCookies(c, res.AccessToken, res.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{
		"user":         res.User,
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
	})
}

// Logout clears the stored refresh token and the auth cookies.
// @Summary		Log out
// @Tags		Users
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{} "Logged out, cookies cleared"
// @Failure		401	{object}	map[string]interface{} "Not authenticated"
// @Router		/users/logout [POST]
func (h *Handler) Logout(c *gin.Context) {
	userIDAny, exists := c.Get("user_id")
	if !exists {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.service.Logout(c.Request.Context(), userIDAny.(int64)); err != nil {
		h.respondError(c, err)
		return
	}

	h.clearAuthCookies(c)
	response.Success(c, http.StatusOK, gin.H{
		"message": "logged out",
	})
}

// Refresh rotates the token pair using the refresh cookie or request body.
// @Summary		Refresh tokens
// @Description	Exchanges a live refresh token for a brand-new pair. The old refresh token is invalidated even though it had not expired.
// @Tags		Users
// @Success		200	{object}	map[string]interface{} "New token pair"
// @Failure		401	{object}	map[string]interface{} "Missing, invalid, expired or already used refresh token"
// @Router		/users/refresh-token [POST]
func (h *Handler) Refresh(c *gin.Context) {
	incoming, _ := c.Cookie("refreshToken")
	if incoming == "" {
		// body fallback for non-browser clients
		var req RefreshRequest
		_ = c.ShouldBindJSON(&req)
		incoming = req.RefreshToken
	}

	res, err := h.service.Refresh(c.Request.Context(), incoming)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setAuthCookies(c, res.AccessToken, res.RefreshToken)
	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
	})
}

// GetMe returns the authenticated user's public profile.
// @Summary		Current user
// @Tags		Users
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{} "Account projection"
// @Failure		401	{object}	map[string]interface{} "Not authenticated"
// @Failure		404	{object}	map[string]interface{} "User not found"
// @Router		/users/me [GET]
func (h *Handler) GetMe(c *gin.Context) {
	userIDAny, exists := c.Get("user_id")
	if !exists {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := h.service.Me(c.Request.Context(), userIDAny.(int64))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": user,
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	e := apperr.From(err)
	if e.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.Error(c, e.Status, string(e.Kind), e.Message)
}

func (h *Handler) setAuthCookies(c *gin.Context, access, refresh string) {
	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie("accessToken", access, 0, h.cookies.Path, "", h.cookies.Secure, true)
	c.SetCookie("refreshToken", refresh, 0, h.cookies.Path, "", h.cookies.Secure, true)
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie("accessToken", "", -1, h.cookies.Path, "", h.cookies.Secure, true)
	c.SetCookie("refreshToken", "", -1, h.cookies.Path, "", h.cookies.Secure, true)
}
