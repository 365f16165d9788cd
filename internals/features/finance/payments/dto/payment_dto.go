package dto

import (
	"time"

	"github.com/google/uuid"

	"kargoku_backend/internals/features/finance/payments/model"
)

/* =========================================================
   REQUEST DTOs
========================================================= */

// CreateVARequest: terbitkan virtual account untuk satu order
type CreateVARequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	Channel string    `json:"channel" validate:"required,oneof=bca_va bni_va bri_va cimb_va permata_va"`
}

/* =========================================================
   RESPONSE DTOs
========================================================= */

type PaymentResponse struct {
	PaymentID             uuid.UUID  `json:"payment_id"`
	PaymentOrderID        uuid.UUID  `json:"payment_order_id"`
	PaymentTrackingNumber string     `json:"payment_tracking_number"`
	PaymentGatewayTxnID   *string    `json:"payment_gateway_txn_id,omitempty"`
	PaymentChannel        string     `json:"payment_channel"`
	PaymentStatus         string     `json:"payment_status"`
	PaymentAmountIDR      int64      `json:"payment_amount_idr"`
	PaymentCurrency       string     `json:"payment_currency"`
	PaymentPaidAmountIDR  int64      `json:"payment_paid_amount_idr"`
	PaymentVANumber       *string    `json:"payment_va_number,omitempty"`
	PaymentExpiresAt      *time.Time `json:"payment_expires_at,omitempty"`
	PaymentPaidAt         *time.Time `json:"payment_paid_at,omitempty"`
	PaymentCreatedAt      time.Time  `json:"payment_created_at"`
}

func FromPaymentModel(m *model.Payment) *PaymentResponse {
	if m == nil {
		return nil
	}
	return &PaymentResponse{
		PaymentID:             m.PaymentID,
		PaymentOrderID:        m.PaymentOrderID,
		PaymentTrackingNumber: m.PaymentTrackingNumber,
		PaymentGatewayTxnID:   m.PaymentGatewayTxnID,
		PaymentChannel:        m.PaymentChannel,
		PaymentStatus:         m.PaymentStatus,
		PaymentAmountIDR:      m.PaymentAmountIDR,
		PaymentCurrency:       m.PaymentCurrency,
		PaymentPaidAmountIDR:  m.PaymentPaidAmountIDR,
		PaymentVANumber:       m.PaymentVANumber,
		PaymentExpiresAt:      m.PaymentExpiresAt,
		PaymentPaidAt:         m.PaymentPaidAt,
		PaymentCreatedAt:      m.PaymentCreatedAt,
	}
}

/* =========================================================
   Webhook payload Midtrans
========================================================= */

type MidtransNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"` // string dari Midtrans
	Currency          string `json:"currency"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"` // accept / challenge / deny
	TransactionID     string `json:"transaction_id"`
	SettlementTime    string `json:"settlement_time"`
	// field lain aman diabaikan
}
