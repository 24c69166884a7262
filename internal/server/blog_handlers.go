package server

import (
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetBlogs handles GET /api/blogs
// Supports ?topics=a,b&sort=views|latest pagination filters.
func (s *Server) GetBlogs(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	// The repository caches the anonymous default first page under the
	// feed key; every other variant goes straight to the database.
	blogs, err := s.blogService.ListFeed(ctx, service.ListFeedInput{
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: userID,
		Topics:        parseTopicsParam(c.Query("topics")),
		Sort:          c.Query("sort"),
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"blogs": blogs})
}

// SearchBlogs handles GET /api/blogs/search?q=...
func (s *Server) SearchBlogs(c *fiber.Ctx) error {
	ctx := c.Context()
	q := c.Query("q")
	page := parsePagination(c, 10)
	userID, _ := s.optionalUserID(c)

	blogs, err := s.blogService.SearchBlogs(ctx, q, page.Limit, page.Offset, userID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"blogs": blogs})
}

// GetBlog handles GET /api/blogs/:id
func (s *Server) GetBlog(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	blog, err := s.blogService.GetBlog(ctx, id, userID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"blog": blog})
}

// CreateBlog handles POST /api/blogs
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Image   string   `json:"image,omitempty"`
		Topics  []string `json:"topics,omitempty"`
		Publish bool     `json:"publish"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	blog, err := s.blogService.CreateBlog(ctx, service.CreateBlogInput{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
		Image:    req.Image,
		Topics:   req.Topics,
		Publish:  req.Publish,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	if blog.Publish {
		cache.InvalidateFeed(ctx)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"blog": blog})
}

// UpdateBlog handles PUT /api/blogs/:id
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Image   string   `json:"image,omitempty"`
		Topics  []string `json:"topics,omitempty"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	blog, err := s.blogService.UpdateBlog(ctx, service.UpdateBlogInput{
		UserID:  userID,
		BlogID:  blogID,
		Title:   req.Title,
		Content: req.Content,
		Image:   req.Image,
		Topics:  req.Topics,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	cache.InvalidateBlog(ctx, blogID)
	cache.InvalidateFeed(ctx)

	return c.JSON(fiber.Map{"blog": blog})
}

// DeleteBlog handles DELETE /api/blogs/:id
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.blogService.DeleteBlog(ctx, blogID, userID); err != nil {
		return respondAppError(c, err)
	}

	cache.InvalidateBlog(ctx, blogID)
	cache.InvalidateFeed(ctx)

	return c.SendStatus(fiber.StatusNoContent)
}

// TogglePublishBlog handles POST /api/blogs/:id/publish
// Flips the blog between draft and published.
func (s *Server) TogglePublishBlog(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	blog, err := s.blogService.TogglePublish(ctx, blogID, userID)
	if err != nil {
		return respondAppError(c, err)
	}

	cache.InvalidateBlog(ctx, blogID)
	cache.InvalidateFeed(ctx)

	return c.JSON(fiber.Map{"blog": blog})
}

// GetUserBlogs handles GET /api/users/:id/blogs
func (s *Server) GetUserBlogs(c *fiber.Ctx) error {
	ctx := c.Context()
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	currentUserID, _ := s.optionalUserID(c)

	blogs, err := s.blogService.ListAuthorBlogs(ctx, authorID, page.Limit, page.Offset, currentUserID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"blogs": blogs})
}

// GetMyDrafts handles GET /api/me/drafts
func (s *Server) GetMyDrafts(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	blogs, err := s.blogService.ListDrafts(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"blogs": blogs})
}

// GetMyPublished handles GET /api/me/published
func (s *Server) GetMyPublished(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	blogs, err := s.blogService.ListPublishedByAuthor(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"blogs": blogs})
}

// GetMySaved handles GET /api/me/saved
func (s *Server) GetMySaved(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	blogs, err := s.blogService.ListSaved(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"blogs": blogs})
}

// parseTopicsParam splits a comma-separated topics filter, dropping empties.
func parseTopicsParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
