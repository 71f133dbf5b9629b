package distributions

import (
	"brixa-backend/internal/application/allocation"
	distsvc "brixa-backend/internal/application/distributions"
	"brixa-backend/internal/middleware"
	"brixa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds dependencies for distribution endpoints.
type Handlers struct {
	Service *distsvc.Service
}

// CreateDraftRequest body.
type CreateDraftRequest struct {
	PropertyID        string `json:"property_id"`
	RentalStatementID string `json:"rental_statement_id"`
}

// NotesRequest body for approve/reject.
type NotesRequest struct {
	Notes string `json:"notes"`
}

// DeleteRequest body.
type DeleteRequest struct {
	Reason string `json:"reason"`
}

// CreateDraft POST /api/v1/distributions/create-draft
func (h *Handlers) CreateDraft(c *fiber.Ctx) error {
	var req CreateDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "property_id and rental_statement_id are required", fiber.StatusBadRequest, nil)
	}
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	statementID, err := uuid.Parse(req.RentalStatementID)
	if err != nil {
		return response.Error(c, "Invalid rental_statement_id", fiber.StatusBadRequest, nil)
	}

	actor := actorID(c)
	view, err := h.Service.CreateDraft(c.Context(), propertyID, statementID, actor)
	if err != nil {
		return serviceError(c, err)
	}
	return response.SuccessCreated(c, "Draft distribution created", view, nil)
}

// Submit POST /api/v1/distributions/submit/:id
func (h *Handlers) Submit(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid distribution id", fiber.StatusBadRequest, nil)
	}
	dist, err := h.Service.Submit(c.Context(), id, actorID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Distribution submitted for approval", dist, nil)
}

// Approve POST /api/v1/distributions/approve/:id
func (h *Handlers) Approve(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid distribution id", fiber.StatusBadRequest, nil)
	}
	approver := middleware.GetUserID(c)
	if approver == uuid.Nil {
		return response.Error(c, "Authorization error", fiber.StatusInternalServerError, nil)
	}
	var req NotesRequest
	_ = c.BodyParser(&req)

	dist, err := h.Service.Approve(c.Context(), id, approver, req.Notes)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Distribution approved", dist, nil)
}

// Reject POST /api/v1/distributions/reject/:id
func (h *Handlers) Reject(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid distribution id", fiber.StatusBadRequest, nil)
	}
	var req NotesRequest
	_ = c.BodyParser(&req)

	dist, err := h.Service.Reject(c.Context(), id, actorID(c), req.Notes)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Distribution rejected back to draft", dist, nil)
}

// Declare POST /api/v1/distributions/declare/:id
func (h *Handlers) Declare(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid distribution id", fiber.StatusBadRequest, nil)
	}
	dist, err := h.Service.Declare(c.Context(), id, actorID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Distribution declared", dist, nil)
}

// Delete DELETE /api/v1/distributions/delete/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid distribution id", fiber.StatusBadRequest, nil)
	}
	var req DeleteRequest
	_ = c.BodyParser(&req)

	if err := h.Service.Delete(c.Context(), id, actorID(c), req.Reason); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Distribution deleted", nil, nil)
}

// Get GET /api/v1/distributions/view-distribution/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid distribution id", fiber.StatusBadRequest, nil)
	}
	view, err := h.Service.Get(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Distribution fetched successfully", view, nil)
}

// ListByProperty GET /api/v1/distributions/view-property/:property_id
func (h *Handlers) ListByProperty(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("property_id"))
	if err != nil {
		return response.Error(c, "Invalid property id", fiber.StatusBadRequest, nil)
	}
	views, err := h.Service.ListByProperty(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Distributions fetched successfully", views, nil)
}

func actorID(c *fiber.Ctx) *uuid.UUID {
	id := middleware.GetUserID(c)
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func serviceError(c *fiber.Ctx, err error) error {
	switch err {
	case distsvc.ErrPropertyNotFound, distsvc.ErrStatementNotFound, distsvc.ErrDistributionNotFound:
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case distsvc.ErrDistributionExists:
		return response.Error(c, err.Error(), fiber.StatusConflict, nil)
	case distsvc.ErrStatementMismatch,
		distsvc.ErrNotDraft,
		distsvc.ErrNotPendingApproval,
		distsvc.ErrNotApproved,
		distsvc.ErrHasPaidPayouts,
		allocation.ErrNoSharesPurchased:
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}
