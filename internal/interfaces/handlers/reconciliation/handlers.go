package reconciliation

import (
	reconsvc "brixa-backend/internal/application/reconciliation"
	"brixa-backend/internal/middleware"
	"brixa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds dependencies for reconciliation endpoints.
type Handlers struct {
	Service *reconsvc.Service
}

// RunRequest body. Without distribution_id the run covers every distribution.
type RunRequest struct {
	DistributionID *string `json:"distribution_id"`
}

// Run POST /api/v1/reconciliation/run
func (h *Handlers) Run(c *fiber.Ctx) error {
	var req RunRequest
	_ = c.BodyParser(&req)

	var distributionID *uuid.UUID
	if req.DistributionID != nil && *req.DistributionID != "" {
		id, err := uuid.Parse(*req.DistributionID)
		if err != nil {
			return response.Error(c, "Invalid distribution id", fiber.StatusBadRequest, nil)
		}
		distributionID = &id
	}

	var actor *uuid.UUID
	if id := middleware.GetUserID(c); id != uuid.Nil {
		actor = &id
	}

	result, err := h.Service.Run(c.Context(), distributionID, actor)
	if err != nil {
		if err == reconsvc.ErrDistributionNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Reconciliation completed", result, nil)
}
