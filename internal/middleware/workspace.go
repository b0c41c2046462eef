package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Sakilalakmal/nexus-app/internal/httpx"
	"github.com/Sakilalakmal/nexus-app/internal/repository"
)

// WorkspaceRequired resolves the active workspace from the X-Workspace-ID
// header and verifies the authenticated user is a member. Runs after
// AuthRequired.
func WorkspaceRequired(workspaceRepo repository.WorkspaceRepositoryInterface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		workspaceID := strings.TrimSpace(c.Get("X-Workspace-ID"))
		if workspaceID == "" {
			return httpx.BadRequest(c, "missing_workspace", "Missing X-Workspace-ID header")
		}

		userID, _ := c.Locals("userID").(string)
		if userID == "" {
			return httpx.Unauthorized(c, "missing_access_token", "Missing access token")
		}

		isMember, err := workspaceRepo.IsMember(workspaceID, userID)
		if err != nil {
			return httpx.Internal(c, "membership_check_failed")
		}
		if !isMember {
			return httpx.Forbidden(c, "not_a_member", "Not a member of this workspace")
		}

		c.Locals("workspaceID", workspaceID)
		return c.Next()
	}
}
