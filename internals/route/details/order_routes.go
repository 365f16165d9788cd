// file: internals/route/details/order_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kargoku_backend/internals/constants"
	cancellationController "kargoku_backend/internals/features/orders/cancellations/controller"
	authMiddleware "kargoku_backend/internals/middlewares/auth"
)

// OrderRoutes: permintaan pembatalan order
func OrderRoutes(r fiber.Router, db *gorm.DB) {
	cancelCtrl := cancellationController.NewCancellationController(db)

	// pengajuan nempel di order-nya
	orders := r.Group("/orders")
	orders.Post("/:id/cancellations", cancelCtrl.CreateRequest)

	// keputusan + status di resource cancellation sendiri
	cancellations := r.Group("/cancellations")
	cancellations.Get("/:id", cancelCtrl.GetRequest)
	cancellations.Post("/:id/approve",
		authMiddleware.OnlyRoles("Hanya admin yang boleh memutus pembatalan",
			constants.AllowedToApproveCancellation...),
		cancelCtrl.Approve,
	)
	cancellations.Post("/:id/reject",
		authMiddleware.OnlyRoles("Hanya admin yang boleh memutus pembatalan",
			constants.AllowedToApproveCancellation...),
		cancelCtrl.Reject,
	)
}
