package server

import (
	"io"

	"hayai/internal/catalog"
	"hayai/internal/models"
	"hayai/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadDrawing handles POST /api/posts. The drawing arrives as a
// multipart file upload; the post starts in pending_transform.
func (s *Server) UploadDrawing(c *fiber.Ctx) error {
	userID := currentUserID(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}

	post, err := s.postService.CreateOriginal(c.UserContext(), service.CreateOriginalInput{
		UserID:   userID,
		Filename: fileHeader.Filename,
		Content:  content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// TransformPost handles POST /api/posts/:imageId/transform
func (s *Server) TransformPost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	imageID, err := s.imageIDParam(c)
	if err != nil {
		return nil
	}

	var req struct {
		Style      string `json:"style"`
		Visibility string `json:"visibility"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Transform(c.UserContext(), service.TransformInput{
		UserID:     userID,
		ImageID:    imageID,
		Style:      req.Style,
		Visibility: req.Visibility,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// SetPostVisibility handles PUT /api/posts/:imageId/visibility
func (s *Server) SetPostVisibility(c *fiber.Ctx) error {
	userID := currentUserID(c)
	imageID, err := s.imageIDParam(c)
	if err != nil {
		return nil
	}

	var req struct {
		Visibility string `json:"visibility"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.SetVisibility(c.UserContext(), service.SetVisibilityInput{
		UserID:     userID,
		ImageID:    imageID,
		Visibility: req.Visibility,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:imageId
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	imageID, err := s.imageIDParam(c)
	if err != nil {
		return nil
	}

	result, err := s.postService.Delete(c.UserContext(), service.DeletePostInput{
		UserID:  userID,
		ImageID: imageID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}

// GetPost handles GET /api/posts/:imageId
func (s *Server) GetPost(c *fiber.Ctx) error {
	imageID, err := s.imageIDParam(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), imageID, viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// GetFeed handles GET /api/posts
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	posts, err := s.postService.Feed(c.UserContext(), page.Limit, page.Offset, viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ownerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	posts, err := s.postService.GetUserPosts(
		c.UserContext(), ownerID, page.Limit, page.Offset, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetStyles handles GET /api/styles
func (s *Server) GetStyles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"styles":  catalog.Styles(),
		"default": catalog.DefaultStyle,
	})
}
