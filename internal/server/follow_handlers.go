package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/:id/follow. Following twice is a no-op.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	followerID := currentUserID(c)
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Follow(c.UserContext(), followerID, followeeID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"following": true})
}

// UnfollowUser handles DELETE /api/users/:id/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	followerID := currentUserID(c)
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(c.UserContext(), followerID, followeeID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"following": false})
}

// GetFollowStatus handles GET /api/users/:id/follow
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	followerID := currentUserID(c)
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.followService.IsFollowing(c.UserContext(), followerID, followeeID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"following": following})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	users, err := s.followService.Followers(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	users, err := s.followService.Following(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(users)
}

// GetFollowStats handles GET /api/users/:id/follow-stats
func (s *Server) GetFollowStats(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	stats, err := s.followService.Stats(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(stats)
}
