package handlers

import (
	"errors"

	"wavelink/server/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns another user's display summary.
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	profileID := c.Params("profileId")

	profile, err := h.Store.GetProfileByID(c.Context(), profileID)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Profile not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Database error",
		})
	}

	online := false
	if h.Presence != nil {
		online, _ = h.Presence.IsOnline(c.Context(), profileID)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    profile.ToSummary(online),
	})
}

// UpdateProfile applies owner-only mutations to the current user's profile.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var upd storage.ProfileUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	profile, err := h.Store.UpdateProfile(c.Context(), userID, upd)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to update profile",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    profile,
	})
}
