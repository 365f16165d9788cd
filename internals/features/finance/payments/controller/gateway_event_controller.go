// file: internals/features/finance/payments/controller/gateway_event_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "kargoku_backend/internals/features/finance/payments/dto"
	svc "kargoku_backend/internals/features/finance/payments/service"
	helper "kargoku_backend/internals/helpers"
)

/* =======================================================================
   Gateway event log: listing buat triage manual (admin only)
======================================================================= */

type GatewayEventController struct {
	DB *gorm.DB
}

func NewGatewayEventController(db *gorm.DB) *GatewayEventController {
	return &GatewayEventController{DB: db}
}

// GET /api/v1/finance/gateway-events?order_id=&status=&txn_status=&page=&per_page=
func (h *GatewayEventController) ListGatewayEvents(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	filter := svc.GatewayEventFilter{
		OrderID:   c.Query("order_id"),
		Status:    c.Query("status"),
		TxnStatus: c.Query("txn_status"),
	}

	rows, total, err := svc.ListGatewayEvents(c.Context(), h.DB, filter, paging.Limit, paging.Offset)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	out := make([]*dto.PaymentGatewayEventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromGatewayEventModel(&rows[i]))
	}

	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "OK", out, &pg)
}
