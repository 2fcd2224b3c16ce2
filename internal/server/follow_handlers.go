package server

import (
	"motion/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleFollow handles POST /followers/toggle-follow/:userId. Following an
// already-followed user removes the edge; otherwise it creates one.
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	callerID := c.Locals("userID").(uint)

	status, err := s.followService.Toggle(c.Context(), callerID, targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": status,
	})
}

// ListFollowers handles GET /followers/followers, returning the users who
// follow the authenticated user.
func (s *Server) ListFollowers(c *fiber.Ctx) error {
	callerID := c.Locals("userID").(uint)

	users, err := s.followService.Followers(c.Context(), callerID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(users)
}

// ListFollowing handles GET /followers/following, returning the users the
// authenticated user follows.
func (s *Server) ListFollowing(c *fiber.Ctx) error {
	callerID := c.Locals("userID").(uint)

	users, err := s.followService.Following(c.Context(), callerID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(users)
}
