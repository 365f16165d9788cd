// file: internals/route/details/finance_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kargoku_backend/internals/constants"
	invoiceController "kargoku_backend/internals/features/finance/invoices/controller"
	paymentController "kargoku_backend/internals/features/finance/payments/controller"
	authMiddleware "kargoku_backend/internals/middlewares/auth"
)

// WebhookRoutes: endpoint publik untuk notifikasi gateway
func WebhookRoutes(r fiber.Router, db *gorm.DB) {
	webhookCtrl := paymentController.NewWebhookController(db)
	r.Post("/midtrans", webhookCtrl.HandleMidtransNotification)
}

// FinanceRoutes: payment + invoice, di belakang JWT
func FinanceRoutes(r fiber.Router, db *gorm.DB) {
	paymentCtrl := paymentController.NewPaymentController(db)
	invoiceCtrl := invoiceController.NewInvoiceController(db)
	eventCtrl := paymentController.NewGatewayEventController(db)

	finance := r.Group("/finance")

	// --- payments ---
	payments := finance.Group("/payments")
	payments.Post("/va", paymentCtrl.CreateVirtualAccount)
	payments.Get("/:id", paymentCtrl.GetPayment)

	// --- invoices (owner/admin/finance) ---
	invoices := finance.Group("/invoices",
		authMiddleware.OnlyRoles(
			"Hanya tim finance yang boleh mengelola invoice",
			constants.AllowedToManageInvoice...,
		),
	)
	invoices.Post("/", invoiceCtrl.CreateDraftInvoice)
	invoices.Get("/:id", invoiceCtrl.GetInvoice)
	invoices.Post("/:id/actions", invoiceCtrl.ApplyAction)

	// --- gateway event log (admin triage) ---
	events := finance.Group("/gateway-events",
		authMiddleware.OnlyRoles(
			"Hanya admin yang boleh melihat log gateway",
			constants.AllowedToApproveCancellation...,
		),
	)
	events.Get("/", eventCtrl.ListGatewayEvents)
}
