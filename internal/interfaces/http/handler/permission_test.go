package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/pos/backend/internal/application/identity"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPermissionAssigner struct {
	mock.Mock
}

func (m *mockPermissionAssigner) AssignPermissions(ctx context.Context, userID uuid.UUID, slugs []string) (*identityapp.PermissionsResponse, error) {
	args := m.Called(ctx, userID, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.PermissionsResponse), args.Error(1)
}

func permissionRouter(svc PermissionAssigner) *gin.Engine {
	r := newTestRouter(uuid.New())
	r.PUT("/users/:id/permissions", NewPermissionHandler(svc).Assign)
	return r
}

func TestPermissionHandler_Assign(t *testing.T) {
	userID := uuid.New()
	path := "/users/" + userID.String() + "/permissions"

	t.Run("replaces the set", func(t *testing.T) {
		svc := new(mockPermissionAssigner)
		slugs := []string{"invoice.create", "supplier_payment.create"}
		svc.On("AssignPermissions", mock.Anything, userID, slugs).
			Return(&identityapp.PermissionsResponse{UserID: userID, Permissions: slugs}, nil)

		w := doJSON(t, permissionRouter(svc), http.MethodPut, path, map[string]any{"permissions": slugs})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var got identityapp.PermissionsResponse
		decodeData(t, w, &got)
		assert.Equal(t, slugs, got.Permissions)
		svc.AssertExpectations(t)
	})

	t.Run("unknown slug is reported by the service", func(t *testing.T) {
		svc := new(mockPermissionAssigner)
		verr := shared.NewValidationError()
		verr.Add("permissions", "Unknown permission: invoice.void")
		svc.On("AssignPermissions", mock.Anything, userID, mock.Anything).Return(nil, verr)

		w := doJSON(t, permissionRouter(svc), http.MethodPut, path, map[string]any{"permissions": []string{"invoice.void"}})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, string(decode(t, w).Error.Details), "invoice.void")
	})

	t.Run("empty slug", func(t *testing.T) {
		w := doJSON(t, permissionRouter(new(mockPermissionAssigner)), http.MethodPut, path, map[string]any{"permissions": []string{""}})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := new(mockPermissionAssigner)
		svc.On("AssignPermissions", mock.Anything, userID, mock.Anything).Return(nil, shared.NewNotFoundError("User not found"))

		w := doJSON(t, permissionRouter(svc), http.MethodPut, path, map[string]any{"permissions": []string{}})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
