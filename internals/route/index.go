// file: internals/route/index.go
package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authMiddleware "kargoku_backend/internals/middlewares/auth"
	routeDetails "kargoku_backend/internals/route/details"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// ===================== WEBHOOK (tanpa JWT) =====================
	// Keaslian request dijamin signature SHA512, bukan token.
	log.Println("[INFO] Setting up WEBHOOK routes...")
	webhooks := app.Group("/webhooks")
	routeDetails.WebhookRoutes(webhooks, db)

	// ===================== PRIVATE (/api/v1) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/v1",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)

	log.Println("[INFO] Setting up FinanceRoutes...")
	routeDetails.FinanceRoutes(private, db)

	log.Println("[INFO] Setting up OrderRoutes...")
	routeDetails.OrderRoutes(private, db)
}
