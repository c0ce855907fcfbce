package handlers

import (
	"net/http"

	"tankbill/internal/common"
	"tankbill/internal/models"
	"tankbill/internal/repositories"
	"tankbill/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authService   services.AuthService
	tenantService services.TenantServiceInterface
	userRepo      repositories.UserRepository
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, tenantService services.TenantServiceInterface, userRepo repositories.UserRepository) *AuthHandlers {
	return &AuthHandlers{
		authService:   authService,
		tenantService: tenantService,
		userRepo:      userRepo,
	}
}

// RegisterRequest represents the vendor signup payload
type RegisterRequest struct {
	TenantName string `json:"tenant_name" validate:"required"`
	Subdomain  string `json:"subdomain" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

// Register creates a tenant and its first admin user
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendValidationError(c, "email", "email and password are required")
	}
	if len(req.Password) < 8 {
		return common.SendValidationError(c, "password", "password must be at least 8 characters")
	}

	tenant := &models.Tenant{
		ID:        uuid.New(),
		Name:      req.TenantName,
		Subdomain: req.Subdomain,
	}
	if err := h.tenantService.CreateTenant(ctx, tenant); err != nil {
		return common.SendClientError(c, err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return common.SendServerError(c, "Failed to process password")
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         "admin",
		Status:       "active",
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		return common.SendServerError(c, "Failed to create user")
	}

	tokens, err := h.authService.GenerateTokens(ctx, user.ID, tenant.ID)
	if err != nil {
		return common.SendServerError(c, "Failed to issue tokens")
	}
	return c.JSON(http.StatusCreated, tokens)
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user and returns a token pair
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return common.SendUnauthorizedError(c)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return common.SendUnauthorizedError(c)
	}
	if user.Status != "active" {
		return common.SendUnauthorizedError(c)
	}

	tokens, err := h.authService.GenerateTokens(ctx, user.ID, user.TenantID)
	if err != nil {
		return common.SendServerError(c, "Failed to issue tokens")
	}
	return c.JSON(http.StatusOK, tokens)
}

// RefreshRequest represents the token refresh payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh rotates a refresh token into a new token pair
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	tokens, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return common.SendUnauthorizedError(c)
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout revokes the presented refresh token
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.authService.RevokeToken(c.Request().Context(), req.RefreshToken); err != nil {
		return common.SendServerError(c, "Failed to revoke token")
	}
	return c.NoContent(http.StatusNoContent)
}
