package investments

import (
	invsvc "brixa-backend/internal/application/investments"
	"brixa-backend/internal/middleware"
	"brixa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *invsvc.Service
}

// ListMine GET /api/v1/investments/view-investments — caller's confirmed holdings.
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	holdings, err := h.Service.ListByUser(c.Context(), userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Investments fetched successfully", holdings, nil)
}
