package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mscandco/distribution_backend/internal/core/ports/services"
	"github.com/mscandco/distribution_backend/internal/dto"
	"github.com/mscandco/distribution_backend/internal/middleware"
)

// authHandler handles registration and login.
type authHandler struct {
	userService portssvc.UserSvcFacade
}

func newAuthHandler(us portssvc.UserSvcFacade) *authHandler {
	return &authHandler{userService: us}
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, userService portssvc.UserSvcFacade) {
	h := newAuthHandler(userService)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

// registerUserRoutes registers authenticated user routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newAuthHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/me", h.me)
	}
}

// register godoc
// @Summary Register a new user
// @Description Creates a platform user with the given role and provisions their wallet
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   user body dto.RegisterRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Email already registered"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Register", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to register user")
		return
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// login godoc
// @Summary Log in
// @Description Verifies credentials and returns a signed access token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// me godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce  json
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} map[string]string "User no longer exists"
// @Security BearerAuth
// @Router /users/me [get]
func (h *authHandler) me(c *gin.Context) {
	principal, ok := principalFromCtx(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), principal.UserID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
