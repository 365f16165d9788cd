// file: internals/features/orders/cancellations/controller/cancellation_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "kargoku_backend/internals/features/orders/cancellations/dto"
	svc "kargoku_backend/internals/features/orders/cancellations/service"
	helper "kargoku_backend/internals/helpers"
	"kargoku_backend/internals/shared/apperr"
)

/* =======================================================================
   Controller
======================================================================= */

type CancellationController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewCancellationController(db *gorm.DB) *CancellationController {
	return &CancellationController{
		DB:        db,
		Validator: validator.New(),
	}
}

/* =======================================================================
   Handlers
======================================================================= */

// POST /api/v1/orders/:id/cancellations
func (h *CancellationController) CreateRequest(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonAppError(c, apperr.InvalidErr("order id tidak valid", nil))
	}

	// body opsional; tanpa body = alasan default
	var req dto.CreateCancellationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
		}
		if err := h.Validator.Struct(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	r, err := svc.CreateCancellationRequest(c.Context(), h.DB, orderID, &req, userID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Permintaan pembatalan dibuat", dto.FromCancellationModel(r))
}

// POST /api/v1/cancellations/:id/approve
func (h *CancellationController) Approve(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	role := helper.GetUserRoleFromToken(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonAppError(c, apperr.InvalidErr("cancellation id tidak valid", nil))
	}

	r, rollback, err := svc.ApproveCancellation(c.Context(), h.DB, id, userID, role)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Pembatalan disetujui", dto.ApproveCancellationResponse{
		Cancellation: dto.FromCancellationModel(r),
		Rollback:     *rollback,
	})
}

// POST /api/v1/cancellations/:id/reject
func (h *CancellationController) Reject(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	role := helper.GetUserRoleFromToken(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonAppError(c, apperr.InvalidErr("cancellation id tidak valid", nil))
	}

	r, err := svc.RejectCancellation(c.Context(), h.DB, id, userID, role)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Pembatalan ditolak", dto.FromCancellationModel(r))
}

// GET /api/v1/cancellations/:id
func (h *CancellationController) GetRequest(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonAppError(c, apperr.InvalidErr("cancellation id tidak valid", nil))
	}

	r, err := svc.FindCancellation(c.Context(), h.DB, id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", dto.FromCancellationModel(r))
}
