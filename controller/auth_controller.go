package controller

import (
	"context"
	"defects-register/middelware"
	"defects-register/models"
	"defects-register/services"
	"defects-register/utils"
	"defects-register/utils/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// TokenValidator is the part of the JWT manager the auth endpoints use
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*models.JWTClaims, error)
	RevokeToken(tokenID string, expiry time.Time)
}

type AuthController struct {
	service   services.AuthServiceInterface
	tokens    TokenValidator
	validator *validator.Validate
	logger    logger.Logger
}

func NewAuthController(service services.AuthServiceInterface, tokens TokenValidator, logger logger.Logger) *AuthController {
	return &AuthController{
		service:   service,
		tokens:    tokens,
		validator: utils.NewValidator(),
		logger:    logger,
	}
}

// Login handles POST /api/v1/auth/login
// @Summary Log in
// @Description Exchange email and password for a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.APIResponse{data=models.LoginResponse} "Login successful"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid login payload"
// @Failure 401 {object} models.APIResponse "Unauthorized - Invalid credentials"
// @Router /auth/login [post]
func (h *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "Login failed", err)
		return
	}

	respondOK(c, http.StatusOK, "Login successful", resp)
}

// ValidateToken handles POST /api/v1/auth/validate
// @Summary Validate a token
// @Description Check whether a bearer token is valid and return its claims
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.TokenValidationRequest true "Token to validate"
// @Success 200 {object} models.APIResponse{data=models.JWTClaims} "Token is valid"
// @Failure 400 {object} models.APIResponse "Bad Request - Token missing"
// @Failure 401 {object} models.APIResponse "Unauthorized - Token is invalid"
// @Router /auth/validate [post]
func (h *AuthController) ValidateToken(c *gin.Context) {
	var req models.TokenValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	claims, err := h.tokens.ValidateToken(c.Request.Context(), req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Invalid token",
			Error: &models.APIError{
				Type:    models.ErrorTypeAuthentication,
				Details: err.Error(),
			},
		})
		return
	}

	respondOK(c, http.StatusOK, "Token is valid", claims)
}

// Logout handles POST /api/v1/auth/logout
// @Summary Log out
// @Description Revoke the bearer token used for this request
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Logged out"
// @Failure 401 {object} models.APIResponse "Unauthorized - Authentication required"
// @Router /auth/logout [post]
func (h *AuthController) Logout(c *gin.Context) {
	claims, ok := middelware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
			Error:   &models.APIError{Type: models.ErrorTypeAuthentication, Details: "no token claims in request context"},
		})
		return
	}

	expiry := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}
	h.tokens.RevokeToken(claims.ID, expiry)
	h.logger.Infof("User %s logged out", claims.UserID)

	respondOK(c, http.StatusOK, "Logged out", nil)
}

// Register handles POST /api/v1/auth/register
// @Summary Register a user
// @Description Create a user account. Admin only.
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "New user"
// @Success 201 {object} models.APIResponse{data=models.User} "User registered successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid registration data"
// @Failure 403 {object} models.APIResponse "Forbidden - Admin access required"
// @Failure 500 {object} models.APIResponse "Internal Server Error - Registration failed"
// @Router /auth/register [post]
func (h *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), &models.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	}, req.Password)
	if err != nil {
		respondError(c, h.logger, "Failed to register user", err)
		return
	}

	respondOK(c, http.StatusCreated, "User registered successfully", user)
}
