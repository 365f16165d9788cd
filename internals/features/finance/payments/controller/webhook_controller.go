// file: internals/features/finance/payments/controller/webhook_controller.go
package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "kargoku_backend/internals/features/finance/payments/dto"
	svc "kargoku_backend/internals/features/finance/payments/service"
	helper "kargoku_backend/internals/helpers"
)

/* =======================================================================
   Webhook Midtrans (tanpa auth JWT: keasliannya dijamin signature)
======================================================================= */

type WebhookController struct {
	DB *gorm.DB
}

func NewWebhookController(db *gorm.DB) *WebhookController {
	return &WebhookController{DB: db}
}

// POST /webhooks/midtrans
// Kontrak balasan:
//   200 → gateway berhenti retry (termasuk duplicate & payment tak dikenal)
//   401 → signature tidak valid
//   422 → status tidak dikenal, butuh triage manual, gateway boleh retry
func (h *WebhookController) HandleMidtransNotification(c *fiber.Ctx) error {
	var notif dto.MidtransNotification
	if err := c.BodyParser(&notif); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}

	res, err := svc.HandleMidtransNotification(c.Context(), h.DB, &notif)
	if err != nil {
		log.Printf("[WARN] webhook midtrans order_id=%s txn=%s status=%s: %v",
			notif.OrderID, notif.TransactionID, notif.TransactionStatus, err)
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", res)
}
