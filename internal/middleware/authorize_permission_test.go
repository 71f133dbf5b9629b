package middleware

import (
	"net/http/httptest"
	"testing"

	"brixa-backend/internal/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func permissionApp(permission string, user interface{}) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", user)
		return c.Next()
	})
	app.Post("/guarded", AuthorizePermission(permission), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthorizePermission_AllowedRole(t *testing.T) {
	app := permissionApp(constants.ApproveDistribution, map[string]interface{}{
		"user_id": "id", "role": constants.Admin,
	})
	resp, err := app.Test(httptest.NewRequest("POST", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthorizePermission_ForbiddenRole(t *testing.T) {
	// Managers can draft but not approve.
	app := permissionApp(constants.ApproveDistribution, map[string]interface{}{
		"user_id": "id", "role": constants.Manager,
	})
	resp, err := app.Test(httptest.NewRequest("POST", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAuthorizePermission_NoUser(t *testing.T) {
	app := permissionApp(constants.ViewData, nil)
	resp, err := app.Test(httptest.NewRequest("POST", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthorizePermission_UnknownPermission(t *testing.T) {
	app := permissionApp("launch_rockets", map[string]interface{}{
		"user_id": "id", "role": constants.Superadmin,
	})
	resp, err := app.Test(httptest.NewRequest("POST", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestPermissionRoles_SystemRoleHasNoPermissions(t *testing.T) {
	for permission := range constants.PermissionRoles {
		assert.False(t, constants.AllowedRole(permission, constants.System), permission)
	}
}
