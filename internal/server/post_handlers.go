package server

import (
	"context"
	"errors"
	"time"

	"motion/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	callerID := c.Locals("userID").(uint)

	var req struct {
		Content string   `json:"content"`
		Images  []string `json:"images"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(c.Context(), callerID, req.Content, req.Images)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// ListPosts handles GET /posts
func (s *Server) ListPosts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	callerID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	posts, err := s.postService.List(ctx, page.Limit, page.Offset, callerID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
				"error": "Request timeout",
			})
		}
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	callerID := c.Locals("userID").(uint)

	post, err := s.postService.Get(c.Context(), id, callerID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// UpdatePost handles PUT and PATCH /posts/:id (owner or admin only)
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	callerID := c.Locals("userID").(uint)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Update(c.Context(), callerID, id, req.Content)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /posts/:id (owner or admin only)
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	callerID := c.Locals("userID").(uint)

	if err := s.postService.Delete(c.Context(), callerID, id); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles POST /posts/toggle-like/:postId. Liking an
// already-liked post removes the like; otherwise it adds one.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	callerID := c.Locals("userID").(uint)

	status, count, err := s.postService.ToggleLike(c.Context(), callerID, postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":      status,
		"likes_count": count,
	})
}

// ListLikedPosts handles GET /posts/likes, returning the posts the
// authenticated user has liked.
func (s *Server) ListLikedPosts(c *fiber.Ctx) error {
	callerID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	posts, err := s.postService.Liked(c.Context(), callerID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(posts)
}

// FollowingFeed handles GET /posts/following, returning posts authored by
// users the authenticated user follows.
func (s *Server) FollowingFeed(c *fiber.Ctx) error {
	callerID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	posts, err := s.postService.Feed(c.Context(), callerID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(posts)
}

// GetUserPosts handles GET /posts/user/:userId (public)
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	posts, err := s.postService.ByUser(c.Context(), userID, page.Limit, page.Offset, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(posts)
}
