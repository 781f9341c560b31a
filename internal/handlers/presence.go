package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GetPresence returns the online map for the current user's contacts plus
// the user themselves. Advisory only; resets empty when the cache does.
func (h *Handler) GetPresence(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	ids, err := h.Store.ListContactIDs(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load contacts",
		})
	}
	ids = append(ids, userID)

	online, err := h.Presence.OnlineUsers(c.Context(), ids)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load presence",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    online,
	})
}
