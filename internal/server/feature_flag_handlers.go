package server

import "github.com/gofiber/fiber/v2"

// GetFeatureFlags handles GET /api/admin/feature-flags. It returns the raw
// flag configuration plus each flag evaluated for the requesting admin, so
// percentage rollouts can be inspected per account.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := currentUserID(c)

	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}
