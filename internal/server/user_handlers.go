package server

import (
	"context"
	"strings"
	"time"

	"hayai/internal/models"
	"hayai/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers handles GET /api/users/search?q=...
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	q := strings.TrimSpace(c.Query("q"))
	page := parsePagination(c, 20)

	users, err := s.userService.Search(ctx, q, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		DisplayName string   `json:"display_name"`
		Bio         string   `json:"bio"`
		Interests   []string `json:"interests"`
		AvatarName  string   `json:"avatar_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Interests:   req.Interests,
		AvatarName:  req.AvatarName,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// SetMyAvatar handles PUT /api/users/me/avatar
func (s *Server) SetMyAvatar(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		AvatarName string `json:"avatar_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.SetAvatar(c.UserContext(), userID, req.AvatarName)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// GetAvatars handles GET /api/avatars
func (s *Server) GetAvatars(c *fiber.Ctx) error {
	avatars, err := s.userService.Avatars()
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"avatars": avatars})
}
