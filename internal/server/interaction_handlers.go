package server

import (
	"hayai/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/posts/:imageId/like. Liking twice is a no-op.
func (s *Server) LikePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	imageID, err := s.imageIDParam(c)
	if err != nil {
		return nil
	}

	result, err := s.interactionService.Like(c.UserContext(), userID, imageID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}

// UnlikePost handles DELETE /api/posts/:imageId/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	imageID, err := s.imageIDParam(c)
	if err != nil {
		return nil
	}

	result, err := s.interactionService.Unlike(c.UserContext(), userID, imageID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}

// CreateComment handles POST /api/posts/:imageId/comments. Comments are
// picked from the fixed preset catalog; free text is not accepted.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := currentUserID(c)
	imageID, err := s.imageIDParam(c)
	if err != nil {
		return nil
	}

	var req struct {
		PresetID int `json:"preset_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.interactionService.Comment(c.UserContext(), userID, imageID, req.PresetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:imageId/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	imageID, err := s.imageIDParam(c)
	if err != nil {
		return nil
	}

	comments, err := s.interactionService.ListComments(c.UserContext(), viewerID(c), imageID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comments)
}

// GetCommentPresets handles GET /api/comments/presets
func (s *Server) GetCommentPresets(c *fiber.Ctx) error {
	return c.JSON(s.interactionService.PresetComments())
}
