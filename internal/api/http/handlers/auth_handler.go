package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// AuthHandler exposes registration and session endpoints.
type AuthHandler struct {
	service *service.AuthService
	cookie  auth.CookieSettings
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookie auth.CookieSettings) *AuthHandler {
	if cookie.TTL <= 0 {
		cookie.TTL = authService.SessionTTL()
	}
	return &AuthHandler{service: authService, cookie: cookie}
}

// SignUp POST /api/auth/sign-up. The new account still has to sign in.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	account, err := h.service.SignUp(c.UserContext(), auth.AccountFromContext(c), signUpInput(req))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, accountResponse(account))
}

// SignIn POST /api/auth/sign-in.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	session, err := h.service.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	auth.SetSessionCookie(c, h.cookie, session.Token)
	return respond(c, fiber.StatusOK, dto.SessionResponse{
		User:      accountResponse(session.Account),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// SignOut POST /api/auth/sign-out. Succeeds even without a session.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	if token := auth.TokenFromRequest(c, h.cookie.Name); token != "" {
		h.service.SignOut(c.UserContext(), token)
	}
	auth.ClearSessionCookie(c, h.cookie)
	return respond(c, fiber.StatusOK, fiber.Map{"signed_out": true})
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	account := auth.AccountFromContext(c)
	if account == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return respond(c, fiber.StatusOK, accountResponse(account))
}

func signUpInput(req dto.SignUpRequest) service.SignUpInput {
	return service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Username: req.Username,
		Role:     req.Role,
	}
}
