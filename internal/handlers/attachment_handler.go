package handlers

import (
	"errors"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Sakilalakmal/nexus-app/internal/httpx"
	"github.com/Sakilalakmal/nexus-app/internal/service"
	"github.com/Sakilalakmal/nexus-app/internal/storage"
)

type AttachmentHandler struct {
	attachmentService *service.AttachmentService
}

func NewAttachmentHandler(attachmentService *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// UploadAttachment accepts a multipart image upload and returns the stored
// attachment's URL for use as a message's image_url.
func (h *AttachmentHandler) UploadAttachment(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	workspaceID, err := httpx.LocalString(c, "workspaceID")
	if err != nil {
		return httpx.BadRequest(c, "missing_workspace", "Missing workspace")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return httpx.BadRequest(c, "missing_file", "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return httpx.BadRequest(c, "invalid_file", "Could not read file")
	}
	defer file.Close()

	baseURL := strings.TrimSpace(os.Getenv("PUBLIC_API_BASE_URL"))

	attachment, err := h.attachmentService.UploadAttachment(c.Context(), workspaceID, userID, file, baseURL)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTooLarge):
			return httpx.Error(c, fiber.StatusRequestEntityTooLarge, "file_too_large", "File too large")
		case errors.Is(err, storage.ErrInvalidImage), errors.Is(err, storage.ErrUnsupported):
			return httpx.BadRequest(c, "invalid_image", "Unsupported or invalid image")
		default:
			return serviceError(c, err, "upload_failed")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(attachment)
}
