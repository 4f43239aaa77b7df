package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/service"
	apperrors "github.com/spec-kit/auth-service/pkg/util/errorutil"
)

// AuthHandler exposes the session protocol over HTTP.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.DisplayName == "" {
		return fiber.NewError(http.StatusBadRequest, "email, password, display_name required")
	}
	role := domain.Role(req.Role)
	if req.Role != "" && !role.Valid() {
		return fiber.NewError(http.StatusBadRequest, "unknown role")
	}

	session, err := h.auth.Register(c.Context(), req.Email, req.Password, req.DisplayName, role)
	if err != nil {
		return mapAuthError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": sessionResponse(session)})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	session, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return mapAuthError(err)
	}

	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.RefreshToken == "" {
		return fiber.NewError(http.StatusBadRequest, "refresh_token required")
	}

	session, err := h.auth.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return mapAuthError(err)
	}

	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// Logout handles POST /auth/logout. Issued tokens remain valid until their
// natural expiry unless the revocation store is enabled; the response is an
// acknowledgement either way.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	token := req.AccessToken
	if token == "" {
		token = c.Get("Authorization")
	}
	if token == "" {
		return fiber.NewError(http.StatusBadRequest, "access_token required")
	}

	if err := h.auth.Logout(c.Context(), token); err != nil {
		return mapAuthError(err)
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}

// Session handles GET /auth/session for authenticated callers.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"subject":      identity.Subject,
			"display_name": identity.DisplayName,
			"role":         identity.Role,
		},
	})
}

func sessionResponse(session *domain.Session) dto.SessionResponse {
	return dto.SessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    session.TokenType,
		Role:         string(session.Role),
		DisplayName:  session.DisplayName,
	}
}

func mapAuthError(err error) error {
	switch {
	case errors.Is(err, service.ErrIdentityAlreadyExists):
		return apperrors.NewConflict("identity already exists", nil)
	case errors.Is(err, service.ErrIdentityNotFound):
		return apperrors.NewNotFound("identity", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.NewUnauthorized("invalid credentials")
	case errors.Is(err, service.ErrInvalidToken):
		return apperrors.NewUnauthorized("invalid token")
	default:
		return apperrors.MapError(err)
	}
}
