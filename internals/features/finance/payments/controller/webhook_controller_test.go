package controller

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// Jalur tolak signature tidak menyentuh DB sama sekali, jadi bisa
// dites lewat HTTP tanpa koneksi database.
func newWebhookTestApp() *fiber.App {
	app := fiber.New()
	ctrl := NewWebhookController(nil)
	app.Post("/webhooks/midtrans", ctrl.HandleMidtransNotification)
	return app
}

func TestWebhook_TamperedSignatureRejected(t *testing.T) {
	app := newWebhookTestApp()

	body := `{
		"order_id": "KGX-20260829-AB12CD34",
		"status_code": "200",
		"gross_amount": "500000.00",
		"transaction_status": "settlement",
		"transaction_id": "txn-001",
		"signature_key": "bukan-signature-yang-benar"
	}`
	req := httptest.NewRequest("POST", "/webhooks/midtrans", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, mau 401", resp.StatusCode)
	}
}

func TestWebhook_MalformedBodyRejected(t *testing.T) {
	app := newWebhookTestApp()

	req := httptest.NewRequest("POST", "/webhooks/midtrans", strings.NewReader("{bukan json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, mau 400", resp.StatusCode)
	}
}
