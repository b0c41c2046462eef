package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Sakilalakmal/nexus-app/internal/httpx"
	"github.com/Sakilalakmal/nexus-app/internal/service"
)

type SummaryHandler struct {
	summaryService *service.SummaryService
}

func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// GetThreadSummary summarizes the thread containing the given message.
func (h *SummaryHandler) GetThreadSummary(c *fiber.Ctx) error {
	workspaceID, err := httpx.LocalString(c, "workspaceID")
	if err != nil {
		return httpx.BadRequest(c, "missing_workspace", "Missing workspace")
	}

	messageID := c.Query("message_id")
	if messageID == "" {
		return httpx.BadRequest(c, "missing_message", "message_id is required")
	}

	summary, err := h.summaryService.SummarizeThread(c.Context(), workspaceID, messageID)
	if err != nil {
		return serviceError(c, err, "summary_failed")
	}

	return c.JSON(fiber.Map{
		"message_id": messageID,
		"summary":    summary,
	})
}
