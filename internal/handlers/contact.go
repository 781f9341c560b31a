package handlers

import (
	"errors"

	"wavelink/server/internal/contacts"
	"wavelink/server/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendContactRequestBody carries the target handle (username or email).
type SendContactRequestBody struct {
	Target string `json:"target"`
}

// RespondContactRequestBody carries the accept/decline decision.
type RespondContactRequestBody struct {
	Accept bool `json:"accept"`
}

// SendContactRequest creates a pending request toward the resolved target.
func (h *Handler) SendContactRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req SendContactRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	request, err := h.Contacts.SendRequest(c.Context(), userID, req.Target)
	if err != nil {
		switch {
		case errors.Is(err, contacts.ErrEmptyHandle):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Username or email is required",
			})
		case errors.Is(err, contacts.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "User not found",
			})
		case errors.Is(err, contacts.ErrSelfTarget):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "You cannot add yourself as a contact",
			})
		case errors.Is(err, contacts.ErrDuplicateRequest):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"error":   "Contact request already sent",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to send request",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    request,
	})
}

// GetContactRequests lists pending requests addressed to the current user.
func (h *Handler) GetContactRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	requests, err := h.Contacts.ListIncoming(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load requests",
		})
	}

	if requests == nil {
		requests = []models.ContactRequestWithSender{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    requests,
	})
}

// RespondContactRequest accepts or declines a pending request.
func (h *Handler) RespondContactRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	requestID := c.Params("requestId")

	var req RespondContactRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if err := h.Contacts.Respond(c.Context(), userID, requestID, req.Accept); err != nil {
		if errors.Is(err, contacts.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Request not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to process request",
		})
	}

	message := "Contact request declined"
	if req.Accept {
		message = "Contact request accepted"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// GetContacts returns the current user's contacts, optionally filtered by ?q=.
func (h *Handler) GetContacts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	query := c.Query("q", "")

	list, err := h.Contacts.ListContacts(c.Context(), userID, query)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load contacts",
		})
	}

	if list == nil {
		list = []models.ProfileSummary{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    list,
	})
}
