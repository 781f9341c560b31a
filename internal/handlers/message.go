package handlers

import (
	"wavelink/server/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SendMessageRequest represents send message request body
type SendMessageRequest struct {
	Content  string  `json:"content"`
	ClientID *string `json:"clientId,omitempty"`
}

// SendMessage posts a message to a room. Whitespace-only content is accepted
// as a no-op so the client input state stays untouched.
func (h *Handler) SendMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	roomID := c.Params("roomId")

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	// clientId is advisory dedup state. A malformed one is dropped, not an
	// error, so a buggy client still gets its message through.
	if req.ClientID != nil && uuid.Validate(*req.ClientID) != nil {
		req.ClientID = nil
	}

	message, err := h.Chat.Post(c.Context(), userID, roomID, req.Content, req.ClientID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to send message",
		})
	}
	if message == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    message,
	})
}

// GetMessages returns room history in ascending creation order.
func (h *Handler) GetMessages(c *fiber.Ctx) error {
	roomID := c.Params("roomId")

	messages, err := h.Chat.History(c.Context(), roomID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load messages",
		})
	}

	if messages == nil {
		messages = []models.MessageWithSender{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    messages,
	})
}

// MarkRead flags room messages not sent by the reader as read.
func (h *Handler) MarkRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	roomID := c.Params("roomId")

	updated, err := h.Chat.MarkRead(c.Context(), userID, roomID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to mark messages as read",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"updatedCount": updated,
		},
	})
}
