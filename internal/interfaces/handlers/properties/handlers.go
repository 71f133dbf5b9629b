package properties

import (
	propsvc "brixa-backend/internal/application/properties"
	"brixa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *propsvc.Service
}

// Get GET /api/v1/properties/view-property/:id — property plus live share ledger.
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	view, err := h.Service.Get(c.Context(), id)
	if err != nil {
		if err == propsvc.ErrPropertyNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Property fetched successfully", view, nil)
}
