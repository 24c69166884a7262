package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetUserStats handles GET /api/users/:id/stats
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	ctx := c.Context()
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	stats, err := s.statsService.GetAuthorStats(ctx, authorID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"response": stats})
}

// GetTopTopics handles GET /api/blogs/topics/top?by=views|blogs&limit=N
func (s *Server) GetTopTopics(c *fiber.Ctx) error {
	ctx := c.Context()
	by := c.Query("by")
	limit := c.QueryInt("limit", 10)

	topics := s.statsService.GetTopTopics(ctx, by, limit)

	return c.JSON(fiber.Map{"response": topics})
}
