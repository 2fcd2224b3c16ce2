package server

import (
	"context"
	"errors"
	"time"

	"motion/internal/models"
	"motion/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateUser handles POST /users
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.Context(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// ListUsers handles GET /users (admin only; enforced by AdminRequired on the route)
func (s *Server) ListUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	page := parsePagination(c, 100)

	users, err := s.userService.List(ctx, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
				"error": "Request timeout",
			})
		}
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(users)
}

// GetUser handles GET /users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.Get(c.Context(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(user)
}

// UpdateUser handles PUT and PATCH /users/:id. Zero-valued fields are left
// unchanged, so both verbs go through the same path.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	callerID := c.Locals("userID").(uint)

	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
		Profile  *struct {
			Job         *string  `json:"job"`
			Avatar      *string  `json:"avatar"`
			Location    *string  `json:"location"`
			PhoneNumber *string  `json:"phone_number"`
			AboutMe     *string  `json:"about_me"`
			Hashtags    []string `json:"user_hashtags"`
		} `json:"profile"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.UpdateUserInput{
		TargetID: targetID,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	}
	if req.Profile != nil {
		in.Profile = &service.UpdateProfileInput{
			Job:         req.Profile.Job,
			Avatar:      req.Profile.Avatar,
			Location:    req.Profile.Location,
			PhoneNumber: req.Profile.PhoneNumber,
			AboutMe:     req.Profile.AboutMe,
			Hashtags:    req.Profile.Hashtags,
		}
	}

	user, err := s.userService.Update(c.Context(), callerID, in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(user)
}

// DeleteUser handles DELETE /users/:id
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	callerID := c.Locals("userID").(uint)

	if err := s.userService.Delete(c.Context(), callerID, targetID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
