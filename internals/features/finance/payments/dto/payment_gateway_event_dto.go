package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"kargoku_backend/internals/features/finance/payments/model"
)

type PaymentGatewayEventResponse struct {
	GatewayEventID          uuid.UUID      `json:"gateway_event_id"`
	GatewayEventPaymentID   *uuid.UUID     `json:"gateway_event_payment_id,omitempty"`
	GatewayEventProvider    string         `json:"gateway_event_provider"`
	GatewayEventTxnID       string         `json:"gateway_event_txn_id"`
	GatewayEventOrderID     string         `json:"gateway_event_order_id"`
	GatewayEventTxnStatus   string         `json:"gateway_event_txn_status"`
	GatewayEventPayload     datatypes.JSON `json:"gateway_event_payload,omitempty"`
	GatewayEventStatus      string         `json:"gateway_event_status"`
	GatewayEventError       *string        `json:"gateway_event_error,omitempty"`
	GatewayEventReceivedAt  time.Time      `json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time     `json:"gateway_event_processed_at,omitempty"`
}

func FromGatewayEventModel(m *model.PaymentGatewayEvent) *PaymentGatewayEventResponse {
	if m == nil {
		return nil
	}
	return &PaymentGatewayEventResponse{
		GatewayEventID:          m.GatewayEventID,
		GatewayEventPaymentID:   m.GatewayEventPaymentID,
		GatewayEventProvider:    m.GatewayEventProvider,
		GatewayEventTxnID:       m.GatewayEventTxnID,
		GatewayEventOrderID:     m.GatewayEventOrderID,
		GatewayEventTxnStatus:   m.GatewayEventTxnStatus,
		GatewayEventPayload:     m.GatewayEventPayload,
		GatewayEventStatus:      m.GatewayEventStatus,
		GatewayEventError:       m.GatewayEventError,
		GatewayEventReceivedAt:  m.GatewayEventReceivedAt,
		GatewayEventProcessedAt: m.GatewayEventProcessedAt,
	}
}
