package server

import (
	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var user models.User
	cacheErr := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		fetched, fetchErr := s.userService.GetUserByID(ctx, id)
		if fetchErr != nil {
			return fetchErr
		}
		user = *fetched
		return nil
	})
	if cacheErr != nil {
		return respondAppError(c, cacheErr)
	}

	return c.JSON(fiber.Map{"user": user})
}

// GetMyProfile handles GET /api/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// UpdateMyProfile handles PUT /api/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Username string `json:"username"`
		Bio      string `json:"bio"`
		Avatar   string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(ctx, service.UpdateProfileInput{
		UserID:   userID,
		Username: req.Username,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	cache.InvalidateUser(ctx, userID)

	return c.JSON(fiber.Map{"user": user})
}

// GetMyTopics handles GET /api/me/topics
func (s *Server) GetMyTopics(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	topics, err := s.userService.GetTopics(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"response": topics})
}

// UpdateMyTopics handles PUT /api/me/topics
func (s *Server) UpdateMyTopics(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Topics []string `json:"topics"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	topics, err := s.userService.SetTopics(c.Context(), userID, req.Topics)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"response": topics})
}

// PromoteToAdmin handles POST /api/users/:id/promote-admin (admin only)
// Admin check is enforced by AdminRequired middleware on the route.
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	ctx := c.Context()
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	target, err := s.userService.SetAdmin(ctx, targetID, true)
	if err != nil {
		return respondAppError(c, err)
	}

	cache.InvalidateUser(ctx, targetID)

	return c.JSON(fiber.Map{"message": "User promoted to admin", "user": target})
}

// DemoteFromAdmin handles POST /api/users/:id/demote-admin (admin only)
// Admin check is enforced by AdminRequired middleware on the route.
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	ctx := c.Context()
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	target, err := s.userService.SetAdmin(ctx, targetID, false)
	if err != nil {
		return respondAppError(c, err)
	}

	cache.InvalidateUser(ctx, targetID)

	return c.JSON(fiber.Map{"message": "User demoted from admin", "user": target})
}
