package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Sakilalakmal/nexus-app/internal/cache"
	"github.com/Sakilalakmal/nexus-app/internal/handlers/ws"
	"github.com/Sakilalakmal/nexus-app/internal/httpx"
	"github.com/Sakilalakmal/nexus-app/internal/service"
)

type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
	hub              *ws.Hub
	presence         *cache.PresenceCache
}

func NewWorkspaceHandler(workspaceService *service.WorkspaceService, hub *ws.Hub, presence *cache.PresenceCache) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		hub:              hub,
		presence:         presence,
	}
}

// onlineUsers merges this process's live connections with the cross-process
// presence set from Redis.
func (h *WorkspaceHandler) onlineUsers() map[string]struct{} {
	online := make(map[string]struct{})
	if h.hub != nil {
		for _, id := range h.hub.OnlineUsers() {
			online[id] = struct{}{}
		}
	}
	for _, id := range h.presence.OnlineUsers() {
		online[id] = struct{}{}
	}
	return online
}

type createWorkspaceInput struct {
	Name string `json:"name"`
}

func (h *WorkspaceHandler) CreateWorkspace(c *fiber.Ctx) error {
	author, err := currentAuthor(c)
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input createWorkspaceInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	workspace, err := h.workspaceService.CreateWorkspace(author, input.Name)
	if err != nil {
		return serviceError(c, err, "create_workspace_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(workspace)
}

func (h *WorkspaceHandler) ListWorkspaces(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	workspaces, err := h.workspaceService.ListWorkspaces(userID)
	if err != nil {
		return serviceError(c, err, "list_workspaces_failed")
	}

	return c.JSON(fiber.Map{
		"workspaces": workspaces,
		"count":      len(workspaces),
	})
}

func (h *WorkspaceHandler) GetWorkspace(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	workspace, err := h.workspaceService.GetWorkspace(c.Params("id"), userID)
	if err != nil {
		return serviceError(c, err, "fetch_workspace_failed")
	}

	return c.JSON(workspace)
}

func (h *WorkspaceHandler) InviteMember(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	workspaceID, err := httpx.LocalString(c, "workspaceID")
	if err != nil {
		return httpx.BadRequest(c, "missing_workspace", "Missing workspace")
	}

	var input service.InviteMemberInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if input.UserID == "" {
		return httpx.BadRequest(c, "missing_user", "user_id is required")
	}

	member, err := h.workspaceService.InviteMember(workspaceID, userID, input)
	if err != nil {
		return serviceError(c, err, "invite_member_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(member)
}

func (h *WorkspaceHandler) ListMembers(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	workspaceID, err := httpx.LocalString(c, "workspaceID")
	if err != nil {
		return httpx.BadRequest(c, "missing_workspace", "Missing workspace")
	}

	members, err := h.workspaceService.ListMembers(workspaceID, userID, h.onlineUsers())
	if err != nil {
		return serviceError(c, err, "list_members_failed")
	}

	return c.JSON(fiber.Map{
		"members": members,
		"count":   len(members),
	})
}

func (h *WorkspaceHandler) RemoveMember(c *fiber.Ctx) error {
	userID, err := httpx.LocalString(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	workspaceID, err := httpx.LocalString(c, "workspaceID")
	if err != nil {
		return httpx.BadRequest(c, "missing_workspace", "Missing workspace")
	}

	targetID := c.Params("userId")
	if targetID == "" {
		return httpx.BadRequest(c, "missing_user", "User id is required")
	}

	if err := h.workspaceService.RemoveMember(workspaceID, userID, targetID); err != nil {
		return serviceError(c, err, "remove_member_failed")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
