// file: internals/features/finance/invoices/controller/invoice_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "kargoku_backend/internals/features/finance/invoices/dto"
	svc "kargoku_backend/internals/features/finance/invoices/service"
	helper "kargoku_backend/internals/helpers"
	"kargoku_backend/internals/shared/apperr"
)

/* =======================================================================
   Controller
======================================================================= */

type InvoiceController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewInvoiceController(db *gorm.DB) *InvoiceController {
	return &InvoiceController{
		DB:        db,
		Validator: validator.New(),
	}
}

/* =======================================================================
   Handlers
======================================================================= */

// POST /api/v1/finance/invoices
func (h *InvoiceController) CreateDraftInvoice(c *fiber.Ctx) error {
	var req dto.CreateDraftInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	lines := make([]svc.DraftLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, svc.DraftLineInput{
			Description:   l.Description,
			AmountIDR:     l.AmountIDR,
			AmountSGD:     l.AmountSGD,
			RateIDRPerSGD: l.RateIDRPerSGD,
		})
	}

	inv, err := svc.CreateDraftInvoice(c.Context(), h.DB, req.OrderID, lines)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Invoice draft berhasil dibuat", dto.FromInvoiceModel(inv, nil))
}

// GET /api/v1/finance/invoices/:id
func (h *InvoiceController) GetInvoice(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonAppError(c, apperr.InvalidErr("invoice id tidak valid", nil))
	}

	inv, lines, err := svc.FindInvoice(c.Context(), h.DB, id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", dto.FromInvoiceModel(inv, lines))
}

// POST /api/v1/finance/invoices/:id/actions
// Body: {"action": "generate" | "submit" | "revert_to_draft" | "update_unpaid"}
func (h *InvoiceController) ApplyAction(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonAppError(c, apperr.InvalidErr("invoice id tidak valid", nil))
	}

	var req dto.InvoiceActionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := svc.ApplyInvoiceAction(c.Context(), h.DB, id, req.Action, actorID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Status invoice diperbarui", res)
}
