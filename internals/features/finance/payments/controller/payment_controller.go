// file: internals/features/finance/payments/controller/payment_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "kargoku_backend/internals/features/finance/payments/dto"
	svc "kargoku_backend/internals/features/finance/payments/service"
	helper "kargoku_backend/internals/helpers"
	"kargoku_backend/internals/shared/apperr"
)

/* =======================================================================
   Controller
======================================================================= */

type PaymentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{
		DB:        db,
		Validator: validator.New(),
	}
}

/* =======================================================================
   Handlers
======================================================================= */

// POST /api/v1/finance/payments/va
func (h *PaymentController) CreateVirtualAccount(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	var req dto.CreateVARequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	p, err := svc.IssueVirtualAccount(c.Context(), h.DB, req.OrderID, req.Channel, userID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Virtual account berhasil diterbitkan", dto.FromPaymentModel(p))
}

// GET /api/v1/finance/payments/:id
func (h *PaymentController) GetPayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonAppError(c, apperr.InvalidErr("payment id tidak valid", nil))
	}

	p, err := svc.FindPayment(c.Context(), h.DB, id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", dto.FromPaymentModel(p))
}
