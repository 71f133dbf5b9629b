package payouts

import (
	"strings"
	"time"

	paysvc "brixa-backend/internal/application/payouts"
	"brixa-backend/internal/middleware"
	"brixa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Handlers holds dependencies for payout endpoints.
type Handlers struct {
	Service *paysvc.Service
}

// NotesRequest body for approve.
type NotesRequest struct {
	Notes string `json:"notes"`
}

// BatchRequest body for batch submit/approve.
type BatchRequest struct {
	PayoutIDs []string `json:"payout_ids"`
	Notes     string   `json:"notes"`
}

// BulkStatusRequest body.
type BulkStatusRequest struct {
	PayoutIDs []string `json:"payout_ids"`
	Status    string   `json:"status"`
}

// UpdateRequest body. Pointer fields distinguish "absent" from "empty".
type UpdateRequest struct {
	Amount           *string `json:"amount"`
	Status           *string `json:"status"`
	PaidAt           *string `json:"paid_at"`
	PaymentMethod    *string `json:"payment_method"`
	PaymentReference *string `json:"payment_reference"`
	BankAccount      *string `json:"bank_account"`
	Notes            *string `json:"notes"`
	AdjustmentReason string  `json:"adjustment_reason"`
}

// Approve POST /api/v1/payouts/approve/:id
func (h *Handlers) Approve(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid payout id", fiber.StatusBadRequest, nil)
	}
	var req NotesRequest
	_ = c.BodyParser(&req)

	payout, err := h.Service.Approve(c.Context(), id, actorID(c), req.Notes)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Payout approved", payout, nil)
}

// ApproveBatch POST /api/v1/payouts/approve-batch
func (h *Handlers) ApproveBatch(c *fiber.Ctx) error {
	var req BatchRequest
	if err := c.BodyParser(&req); err != nil || len(req.PayoutIDs) == 0 {
		return response.Error(c, "payout_ids are required", fiber.StatusBadRequest, nil)
	}
	ids, err := parseIDs(req.PayoutIDs)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	result := h.Service.ApproveBatch(c.Context(), ids, actorID(c), req.Notes)
	return response.Success(c, "Batch approval processed", result, fiber.Map{
		"succeeded_count": len(result.Succeeded),
		"failed_count":    len(result.Failed),
	})
}

// SubmitBatch POST /api/v1/payouts/submit-batch
func (h *Handlers) SubmitBatch(c *fiber.Ctx) error {
	var req BatchRequest
	if err := c.BodyParser(&req); err != nil || len(req.PayoutIDs) == 0 {
		return response.Error(c, "payout_ids are required", fiber.StatusBadRequest, nil)
	}
	ids, err := parseIDs(req.PayoutIDs)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	result, err := h.Service.SubmitBatchForApproval(c.Context(), ids, actorID(c), req.Notes)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Batch submitted for approval", result, fiber.Map{
		"succeeded_count": len(result.Succeeded),
		"failed_count":    len(result.Failed),
	})
}

// Update PATCH /api/v1/payouts/update/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid payout id", fiber.StatusBadRequest, nil)
	}
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	input := paysvc.UpdateInput{
		Status:           req.Status,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		BankAccount:      req.BankAccount,
		Notes:            req.Notes,
		AdjustmentReason: req.AdjustmentReason,
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return response.Error(c, "Invalid amount", fiber.StatusBadRequest, nil)
		}
		input.Amount = &amount
	}
	if req.PaidAt != nil {
		paidAt, err := time.Parse(time.RFC3339, *req.PaidAt)
		if err != nil {
			return response.Error(c, "Invalid paid_at, expected RFC3339", fiber.StatusBadRequest, nil)
		}
		input.PaidAt = &paidAt
	}

	payout, err := h.Service.Update(c.Context(), id, input, actorID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Payout updated", payout, nil)
}

// BulkStatus POST /api/v1/payouts/bulk-status
func (h *Handlers) BulkStatus(c *fiber.Ctx) error {
	var req BulkStatusRequest
	if err := c.BodyParser(&req); err != nil || len(req.PayoutIDs) == 0 || req.Status == "" {
		return response.Error(c, "payout_ids and status are required", fiber.StatusBadRequest, nil)
	}
	ids, err := parseIDs(req.PayoutIDs)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	result, err := h.Service.BulkUpdateStatus(c.Context(), ids, strings.ToUpper(req.Status), actorID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Bulk status update processed", result, fiber.Map{
		"succeeded_count": len(result.Succeeded),
		"failed_count":    len(result.Failed),
	})
}

// ImportCSV POST /api/v1/payouts/import-csv/:distribution_id (multipart form, field "file")
func (h *Handlers) ImportCSV(c *fiber.Ctx) error {
	distributionID, err := uuid.Parse(c.Params("distribution_id"))
	if err != nil {
		return response.Error(c, "Invalid distribution id", fiber.StatusBadRequest, nil)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, "CSV file is required (field: file)", fiber.StatusBadRequest, nil)
	}
	f, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, "Could not read uploaded file", fiber.StatusBadRequest, nil)
	}
	defer f.Close()

	result, err := h.Service.ImportCSV(c.Context(), distributionID, f, actorID(c))
	if err != nil {
		if err == paysvc.ErrNoRowsApplied && result != nil {
			return response.Error(c, err.Error(), fiber.StatusUnprocessableEntity, fiber.Map{"errors": result.Errors})
		}
		return serviceError(c, err)
	}
	return response.Success(c, "CSV import processed", result, nil)
}

// ListMine GET /api/v1/payouts/view-user
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.ListByUser(c.Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Payouts fetched successfully", out, nil)
}

func actorID(c *fiber.Ctx) *uuid.UUID {
	id := middleware.GetUserID(c)
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid payout id: "+s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func serviceError(c *fiber.Ctx, err error) error {
	switch err {
	case paysvc.ErrPayoutNotFound:
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case paysvc.ErrAlreadyPaid,
		paysvc.ErrAlreadyApproved,
		paysvc.ErrInvalidStatus,
		paysvc.ErrInvalidPaymentMethod,
		paysvc.ErrInvalidBankAccount,
		paysvc.ErrBankAccountRequired:
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	default:
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
}
