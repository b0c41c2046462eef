package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Sakilalakmal/nexus-app/internal/httpx"
	"github.com/Sakilalakmal/nexus-app/internal/service"
)

type ChannelHandler struct {
	channelService *service.ChannelService
}

func NewChannelHandler(channelService *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

type createChannelInput struct {
	Name string `json:"name"`
}

func (h *ChannelHandler) CreateChannel(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	workspaceID, err := httpx.LocalString(c, "workspaceID")
	if err != nil {
		return httpx.BadRequest(c, "missing_workspace", "Missing workspace")
	}

	var input createChannelInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	channel, err := h.channelService.CreateChannel(workspaceID, userID, input.Name)
	if err != nil {
		return serviceError(c, err, "create_channel_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(channel)
}

func (h *ChannelHandler) ListChannels(c *fiber.Ctx) error {
	workspaceID, err := httpx.LocalString(c, "workspaceID")
	if err != nil {
		return httpx.BadRequest(c, "missing_workspace", "Missing workspace")
	}

	channels, err := h.channelService.ListChannels(workspaceID)
	if err != nil {
		return serviceError(c, err, "list_channels_failed")
	}

	return c.JSON(fiber.Map{
		"channels": channels,
		"count":    len(channels),
	})
}

func (h *ChannelHandler) GetChannel(c *fiber.Ctx) error {
	workspaceID, err := httpx.LocalString(c, "workspaceID")
	if err != nil {
		return httpx.BadRequest(c, "missing_workspace", "Missing workspace")
	}

	channel, err := h.channelService.GetChannel(c.Params("id"), workspaceID)
	if err != nil {
		return serviceError(c, err, "fetch_channel_failed")
	}

	return c.JSON(channel)
}
