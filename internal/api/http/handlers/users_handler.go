package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
)

// UsersHandler is the admin user management surface.
type UsersHandler struct {
	users    *service.UserService
	accounts *service.AuthService
}

// NewUsersHandler constructs handler. Account creation goes through the auth service so
// admin-created users follow the same rules as sign-up.
func NewUsersHandler(users *service.UserService, accounts *service.AuthService) *UsersHandler {
	return &UsersHandler{users: users, accounts: accounts}
}

// List GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	profiles, err := h.users.GetAllUsers(c.UserContext(), auth.AccountFromContext(c))
	if err != nil {
		return err
	}
	items := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, profileResponse(&profiles[i]))
	}
	return respond(c, fiber.StatusOK, items)
}

// Create POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	account, err := h.accounts.SignUp(c.UserContext(), auth.AccountFromContext(c), signUpInput(req))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, accountResponse(account))
}

// Update PATCH /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	profile, err := h.users.UpdateUser(c.UserContext(), auth.AccountFromContext(c), id, service.UserUpdateInput{
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, profileResponse(profile))
}

// Delete DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(c.UserContext(), auth.AccountFromContext(c), id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"id": id, "deleted": true})
}
