package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Sakilalakmal/nexus-app/internal/cache"
	"github.com/Sakilalakmal/nexus-app/internal/handlers/ws"
	"github.com/Sakilalakmal/nexus-app/internal/httpx"
	"github.com/Sakilalakmal/nexus-app/internal/service"
)

type MessageHandler struct {
	messageService *service.MessageService
	messageCache   *cache.MessageCache
	hub            *ws.Hub
}

func NewMessageHandler(messageService *service.MessageService, messageCache *cache.MessageCache, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		messageCache:   messageCache,
		hub:            hub,
	}
}

func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	author, err := currentAuthor(c)
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	workspaceID, err := httpx.LocalString(c, "workspaceID")
	if err != nil {
		return httpx.BadRequest(c, "missing_workspace", "Missing workspace")
	}

	var input service.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if input.ChannelID == "" {
		return httpx.BadRequest(c, "missing_channel", "channel_id is required")
	}

	item, err := h.messageService.SendMessage(workspaceID, author, input)
	if err != nil {
		return serviceError(c, err, "send_message_failed")
	}

	_ = h.messageCache.InvalidateChannel(item.ChannelID)
	if item.ThreadID != nil {
		_ = h.messageCache.InvalidateThread(*item.ThreadID)
	}
	if h.hub != nil {
		h.hub.BroadcastToChannel(item.ChannelID, author.ID, ws.NewMessageCreatedEvent(*item))
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *MessageHandler) GetMessages(c *fiber.Ctx) error {
	author, err := currentAuthor(c)
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	workspaceID, err := httpx.LocalString(c, "workspaceID")
	if err != nil {
		return httpx.BadRequest(c, "missing_workspace", "Missing workspace")
	}

	channelID := c.Query("channel_id")
	if channelID == "" {
		return httpx.BadRequest(c, "missing_channel", "channel_id is required")
	}
	cursor := c.Query("cursor")

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil {
			return httpx.BadRequest(c, "invalid_limit", "Invalid limit")
		}
		limit = l
	}

	// Only the cursorless first page is cached; older pages are cheap keyset
	// reads.
	if cursor == "" && limit == 0 {
		if items, nextCursor, ok := h.messageCache.GetFirstPage(channelID, author.ID); ok {
			return c.JSON(fiber.Map{
				"messages":    items,
				"count":       len(items),
				"next_cursor": nextCursor,
			})
		}
	}

	items, nextCursor, err := h.messageService.ListMessages(workspaceID, author.ID, channelID, cursor, limit)
	if err != nil {
		return serviceError(c, err, "fetch_messages_failed")
	}

	if cursor == "" && limit == 0 {
		_ = h.messageCache.SetFirstPage(channelID, author.ID, items, nextCursor)
	}

	return c.JSON(fiber.Map{
		"messages":    items,
		"count":       len(items),
		"next_cursor": nextCursor,
	})
}

func (h *MessageHandler) UpdateMessage(c *fiber.Ctx) error {
	author, err := currentAuthor(c)
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	workspaceID, err := httpx.LocalString(c, "workspaceID")
	if err != nil {
		return httpx.BadRequest(c, "missing_workspace", "Missing workspace")
	}

	var input service.UpdateMessageInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	input.MessageID = c.Params("id")
	if input.MessageID == "" {
		return httpx.BadRequest(c, "missing_message", "Message id is required")
	}

	item, err := h.messageService.UpdateMessage(workspaceID, author.ID, input)
	if err != nil {
		return serviceError(c, err, "update_message_failed")
	}

	_ = h.messageCache.InvalidateChannel(item.ChannelID)
	if item.ThreadID != nil {
		_ = h.messageCache.InvalidateThread(*item.ThreadID)
	} else {
		_ = h.messageCache.InvalidateThread(item.ID)
	}
	if h.hub != nil {
		h.hub.BroadcastToChannel(item.ChannelID, author.ID, ws.NewMessageUpdatedEvent(*item))
	}

	return c.JSON(item)
}

type toggleReactionInput struct {
	Emoji string `json:"emoji"`
}

func (h *MessageHandler) ToggleReaction(c *fiber.Ctx) error {
	author, err := currentAuthor(c)
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	workspaceID, err := httpx.LocalString(c, "workspaceID")
	if err != nil {
		return httpx.BadRequest(c, "missing_workspace", "Missing workspace")
	}

	messageID := c.Params("id")
	if messageID == "" {
		return httpx.BadRequest(c, "missing_message", "Message id is required")
	}

	var input toggleReactionInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	groups, err := h.messageService.ToggleReaction(workspaceID, author, messageID, input.Emoji)
	if err != nil {
		return serviceError(c, err, "toggle_reaction_failed")
	}

	// Neutral viewer shaping for the broadcast; receivers regroup for
	// themselves.
	message, err := h.messageService.GetMessage(workspaceID, "", messageID)
	if err != nil {
		return serviceError(c, err, "toggle_reaction_failed")
	}

	_ = h.messageCache.InvalidateChannel(message.ChannelID)
	if message.ThreadID != nil {
		_ = h.messageCache.InvalidateThread(*message.ThreadID)
	} else {
		_ = h.messageCache.InvalidateThread(message.ID)
	}
	if h.hub != nil {
		h.hub.BroadcastToChannel(message.ChannelID, author.ID,
			ws.NewReactionUpdatedEvent(message.ChannelID, message.ID, message.ThreadID, message.Reactions))
	}

	return c.JSON(fiber.Map{
		"message_id": messageID,
		"reactions":  groups,
	})
}

func (h *MessageHandler) GetThread(c *fiber.Ctx) error {
	author, err := currentAuthor(c)
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	workspaceID, err := httpx.LocalString(c, "workspaceID")
	if err != nil {
		return httpx.BadRequest(c, "missing_workspace", "Missing workspace")
	}

	threadID := c.Params("id")
	if threadID == "" {
		return httpx.BadRequest(c, "missing_message", "Message id is required")
	}

	if parent, messages, ok := h.messageCache.GetThread(threadID, author.ID); ok {
		return c.JSON(fiber.Map{
			"parent":   parent,
			"messages": messages,
		})
	}

	parent, replies, err := h.messageService.ListThread(workspaceID, author.ID, threadID)
	if err != nil {
		return serviceError(c, err, "fetch_thread_failed")
	}

	_ = h.messageCache.SetThread(threadID, author.ID, *parent, replies)

	return c.JSON(fiber.Map{
		"parent":   parent,
		"messages": replies,
	})
}
