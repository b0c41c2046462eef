package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Sakilalakmal/nexus-app/internal/httpx"
	"github.com/Sakilalakmal/nexus-app/internal/models"
	"github.com/Sakilalakmal/nexus-app/internal/service"
)

// currentAuthor assembles the caller's identity from the locals the auth
// middleware stored.
func currentAuthor(c *fiber.Ctx) (models.Author, error) {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return models.Author{}, err
	}
	name, _ := c.Locals("name").(string)
	email, _ := c.Locals("email").(string)
	avatar, _ := c.Locals("avatar").(string)
	return models.Author{ID: userID, Name: name, Email: email, Avatar: avatar}, nil
}

// serviceError maps service sentinel errors onto stable HTTP error codes.
// Anything unrecognized becomes a 500 with the handler's fallback code.
func serviceError(c *fiber.Ctx, err error, fallbackCode string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return httpx.NotFound(c, "not_found", "Not found")
	case errors.Is(err, service.ErrForbidden):
		return httpx.Forbidden(c, "forbidden", "Forbidden")
	case errors.Is(err, service.ErrInvalidThread):
		return httpx.BadRequest(c, "invalid_thread", "Thread must reference a top-level message in the same channel")
	case errors.Is(err, service.ErrInvalidCursor):
		return httpx.BadRequest(c, "invalid_cursor", "Invalid cursor")
	case errors.Is(err, service.ErrAlreadyMember):
		return httpx.Error(c, fiber.StatusConflict, "already_member", "User is already a member")
	case errors.Is(err, service.ErrChannelExists):
		return httpx.Error(c, fiber.StatusConflict, "channel_exists", "Channel name already taken")
	case errors.Is(err, service.ErrInvalidName):
		return httpx.BadRequest(c, "invalid_name", "Invalid name")
	case errors.Is(err, service.ErrInvalidEmail):
		return httpx.BadRequest(c, "invalid_email", "Invalid email address")
	case errors.Is(err, service.ErrInvalidEmoji):
		return httpx.BadRequest(c, "invalid_emoji", "Invalid emoji")
	case errors.Is(err, service.ErrEmptyMessage):
		return httpx.BadRequest(c, "missing_content", "Content is required")
	case errors.Is(err, service.ErrTooLong):
		return httpx.BadRequest(c, "content_too_long", "Content too long")
	case errors.Is(err, service.ErrStorageNotConfigured):
		return httpx.Error(c, fiber.StatusServiceUnavailable, "storage_not_configured", "Storage not configured")
	case errors.Is(err, service.ErrSummarizerNotConfigured):
		return httpx.Error(c, fiber.StatusServiceUnavailable, "summarizer_not_configured", "Summarizer not configured")
	default:
		return httpx.Internal(c, fallbackCode)
	}
}
