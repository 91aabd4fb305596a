package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/pos/backend/internal/application/identity"
)

// PermissionAssigner replaces a user's permission set
type PermissionAssigner interface {
	AssignPermissions(ctx context.Context, userID uuid.UUID, slugs []string) (*identityapp.PermissionsResponse, error)
}

// AssignPermissionsRequest is the body of PUT /users/:id/permissions.
// An empty list revokes every permission.
type AssignPermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"max=200,dive,required,max=100"`
}

// PermissionHandler serves /users/:id/permissions
type PermissionHandler struct {
	BaseHandler
	service PermissionAssigner
}

// NewPermissionHandler creates a new PermissionHandler
func NewPermissionHandler(service PermissionAssigner) *PermissionHandler {
	return &PermissionHandler{service: service}
}

// Assign replaces the permissions of a user
// PUT /users/:id/permissions
func (h *PermissionHandler) Assign(c *gin.Context) {
	userID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req AssignPermissionsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.service.AssignPermissions(c.Request.Context(), userID, req.Permissions)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
