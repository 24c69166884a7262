package server

import (
	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LikeBlog handles POST /api/blogs/:id/like
// Toggles the caller's like on the blog, or on one of its comments when a
// comment_id is supplied in the body.
func (s *Server) LikeBlog(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		CommentID uint `json:"comment_id,omitempty"`
	}
	// An empty body means a blog-level like.
	if len(c.Body()) > 0 {
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}

	liked, err := s.engagementSvc.ToggleLike(ctx, userID, blogID, req.CommentID)
	if err != nil {
		return respondAppError(c, err)
	}

	cache.InvalidateBlog(ctx, blogID)

	return c.JSON(fiber.Map{"liked": liked})
}

// GetBlogLikes handles GET /api/blogs/:id/likes
func (s *Server) GetBlogLikes(c *fiber.Ctx) error {
	ctx := c.Context()
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	users, err := s.engagementSvc.ListBlogLikes(ctx, blogID, userID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"response": users})
}

// SaveBlog handles POST /api/blogs/:id/save
// Toggles the caller's bookmark on the blog.
func (s *Server) SaveBlog(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	saved, err := s.engagementSvc.ToggleSave(ctx, userID, blogID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"saved": saved})
}

// GetSaveStatus handles GET /api/blogs/:id/save
func (s *Server) GetSaveStatus(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	saved, err := s.engagementSvc.IsSaved(ctx, userID, blogID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"saved": saved})
}

// FollowUser handles POST /api/users/:id/follow
// Toggles the caller's follow of the target author.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.engagementSvc.ToggleFollow(ctx, userID, targetID)
	if err != nil {
		return respondAppError(c, err)
	}

	cache.InvalidateAuthorStats(ctx, targetID)

	return c.JSON(fiber.Map{"following": following})
}

// GetFollowStatus handles GET /api/users/:id/follow
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.engagementSvc.IsFollowing(ctx, userID, targetID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"following": following})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	ctx := c.Context()
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	// First page is the common profile render; the follow toggle
	// invalidates it alongside the author stats.
	if page.Offset == 0 {
		var followers []models.User
		err := cache.Aside(ctx, cache.FollowersKey(targetID), &followers,
			cache.FollowersTTL, func() error {
				var fetchErr error
				followers, fetchErr = s.engagementSvc.ListFollowers(
					ctx, targetID, page.Limit, page.Offset)
				return fetchErr
			})
		if err != nil {
			return respondAppError(c, err)
		}
		return c.JSON(fiber.Map{"followers": followers})
	}

	followers, err := s.engagementSvc.ListFollowers(ctx, targetID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"followers": followers})
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	ctx := c.Context()
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	following, err := s.engagementSvc.ListFollowing(ctx, targetID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"following": following})
}
