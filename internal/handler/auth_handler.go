package handler

import (
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler sets up the routing dependencies for auth endpoints
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc, rateLimit func(string) gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", rateLimit("signup"), h.Signup)
		auth.POST("/login", h.Login)
		auth.GET("/refresh_token", h.RefreshToken)
		auth.GET("/verify-email", h.VerifyEmail)
		auth.POST("/upload-avatar", requireAuth, h.UploadAvatar)
	}

	router.GET("/me", requireAuth, h.GetMe)
}

// Signup handles POST /auth/signup to register a new account
// @Summary      Register a new user
// @Description  Creates an unverified account, hashes the password, and sends a verification email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SignupRequest  true  "Signup Payload"
// @Success      201      {object}  response.Response{data=service.SignupResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) || errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to create user"))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// Login handles POST /auth/login to authenticate and return tokens
// @Summary      Login user
// @Description  Authenticates by username/email and password, returning access and refresh tokens
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Email or username"
// @Param        password  formData  string  true  "Password"
// @Success      200       {object}  response.Response{data=service.TokenResponse}
// @Failure      400       {object}  response.Response
// @Failure      401       {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "username and password are required"))
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Login failed"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// RefreshToken handles GET /auth/refresh_token to rotate the refresh token
// @Summary      Refresh tokens
// @Description  Issues a new access and refresh token pair; the presented refresh token is invalidated
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.TokenResponse}
// @Failure      401  {object}  response.Response
// @Router       /auth/refresh_token [get]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	tokenString, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing or malformed. Expected 'Bearer <token>'"))
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), tokenString)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to refresh token"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// VerifyEmail handles GET /auth/verify-email to confirm an email address
// @Summary      Verify email
// @Description  Confirms the account email using the token from the verification link
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Verification token"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /auth/verify-email [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "token query parameter is required"))
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), tokenString); err != nil {
		if errors.Is(err, service.ErrInvalidVerification) {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to verify email"))
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "Email verified successfully"))
}

// UploadAvatar handles POST /auth/upload-avatar to replace the user's avatar
// @Summary      Upload avatar
// @Description  Stores the uploaded image and updates the user's avatar URL
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Avatar image"
// @Success      200   {object}  response.Response{data=service.UserResponse}
// @Failure      400   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Router       /auth/upload-avatar [post]
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Could not validate credentials"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "could not read uploaded file"))
		return
	}
	defer file.Close()

	updated, err := h.authService.UploadAvatar(c.Request.Context(), user, file, fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to upload avatar"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"user":   updated,
		"detail": "Avatar updated successfully",
	}))
}

// GetMe handles GET /me to return the current authenticated user
// @Summary      Get current user
// @Description  Returns the user resolved from the access token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      401  {object}  response.Response
// @Router       /me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Could not validate credentials"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"id":          user.ID,
		"username":    user.Username,
		"email":       user.Email,
		"avatar":      user.Avatar,
		"is_verified": user.IsVerified,
		"created_at":  user.CreatedAt,
	}))
}
