package handlers

import (
	"errors"
	"strings"

	"wavelink/server/internal/assistant"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// AssistantRequest carries the prompt plus the in-memory conversation.
type AssistantRequest struct {
	Prompt  string                     `json:"prompt"`
	History []assistant.HistoryMessage `json:"history"`
}

// AskAssistant forwards a prompt to the completion API and returns the reply.
// Errors surface as {error} with an HTTP error status, mirroring the
// completion collaborator's contract.
func (h *Handler) AskAssistant(c *fiber.Ctx) error {
	var req AssistantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON format",
		})
	}

	if strings.TrimSpace(req.Prompt) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prompt is required",
		})
	}

	reply, err := h.Assistant.Ask(c.Context(), req.Prompt, req.History)
	if err != nil {
		log.Error().Err(err).Msg("assistant request failed")
		if errors.Is(err, assistant.ErrNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Assistant is not configured",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"response": reply,
	})
}
