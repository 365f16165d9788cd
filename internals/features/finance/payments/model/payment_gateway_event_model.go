// file: internals/features/finance/payments/model/payment_gateway_event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/*
  payment_gateway_events = idempotency store webhook gateway.
  - Unique (provider, txn_id): insert kedua untuk transaction_id yang sama
    pasti kena conflict → jalur dedupe.
  - Midtrans memakai transaction_id yang sama untuk echo pending DAN
    settlement sesudahnya, jadi row conflict BELUM tentu replay: jalur
    dedupe wajib membandingkan txn_status juga sebelum skip.
  - Nyimpen raw payload + signature buat replay/triage manual.
*/

const (
	GatewayEventStatusReceived   = "received"
	GatewayEventStatusProcessing = "processing"
	GatewayEventStatusSuccess    = "success"
	GatewayEventStatusFailed     = "failed"
)

const GatewayProviderMidtrans = "midtrans"

type PaymentGatewayEvent struct {
	GatewayEventID uuid.UUID `gorm:"column:gateway_event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"gateway_event_id"`

	GatewayEventPaymentID *uuid.UUID `gorm:"column:gateway_event_payment_id;type:uuid;index" json:"gateway_event_payment_id,omitempty"`

	// Identitas event: provider + transaction_id = idempotency key
	GatewayEventProvider string `gorm:"column:gateway_event_provider;type:varchar(20);not null;uniqueIndex:uq_gw_event_provider_txn,priority:1" json:"gateway_event_provider"`
	GatewayEventTxnID    string `gorm:"column:gateway_event_txn_id;type:varchar(64);not null;uniqueIndex:uq_gw_event_provider_txn,priority:2" json:"gateway_event_txn_id"`

	// OrderID sisi gateway (= payment_tracking_number)
	GatewayEventOrderID string `gorm:"column:gateway_event_order_id;type:varchar(40);not null;index" json:"gateway_event_order_id"`

	GatewayEventTxnStatus string `gorm:"column:gateway_event_txn_status;type:varchar(30);not null" json:"gateway_event_txn_status"`

	// Raw data (buat debug / replay)
	GatewayEventPayload   datatypes.JSON `gorm:"column:gateway_event_payload;type:jsonb" json:"gateway_event_payload"`
	GatewayEventSignature *string        `gorm:"column:gateway_event_signature" json:"gateway_event_signature,omitempty"`

	// Status processing internal
	GatewayEventStatus string  `gorm:"column:gateway_event_status;type:gateway_event_status;not null;default:'received'" json:"gateway_event_status"`
	GatewayEventError  *string `gorm:"column:gateway_event_error" json:"gateway_event_error,omitempty"`

	// Timestamps
	GatewayEventReceivedAt  time.Time  `gorm:"column:gateway_event_received_at;not null;default:now()" json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at,omitempty"`
}

func (PaymentGatewayEvent) TableName() string {
	return "payment_gateway_events"
}

// IsCompleted: event sudah pernah diproses tuntas (sukses) sebelumnya
func (e *PaymentGatewayEvent) IsCompleted() bool {
	return e.GatewayEventStatus == GatewayEventStatusSuccess && e.GatewayEventProcessedAt != nil
}
