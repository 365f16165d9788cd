package dto

import (
	"time"

	"github.com/google/uuid"

	model "kargoku_backend/internals/features/orders/cancellations/model"
)

/* ===================== Request ===================== */

// CreateCancellationRequest: order id diambil dari path, body cuma alasan
type CreateCancellationRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

/* ===================== Response ===================== */

type CancellationResponse struct {
	CancellationID uuid.UUID  `json:"cancellation_id"`
	OrderID        uuid.UUID  `json:"order_id"`
	RequestedBy    uuid.UUID  `json:"requested_by"`
	Reason         string     `json:"reason"`
	Status         string     `json:"status"`
	ResolvedBy     *uuid.UUID `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func FromCancellationModel(m *model.CancellationRequest) CancellationResponse {
	return CancellationResponse{
		CancellationID: m.CancellationID,
		OrderID:        m.CancellationOrderID,
		RequestedBy:    m.CancellationRequestedBy,
		Reason:         m.CancellationReason,
		Status:         m.CancellationStatus,
		ResolvedBy:     m.CancellationResolvedBy,
		ResolvedAt:     m.CancellationResolvedAt,
		CreatedAt:      m.CancellationCreatedAt,
	}
}

// RollbackSummary: jejak per langkah rollback saat approve
type RollbackSummary struct {
	OrderCanceled  bool   `json:"order_canceled"`
	PaymentsFailed bool   `json:"payments_failed"`
	InvoiceStatus  string `json:"invoice_status,omitempty"`
}

type ApproveCancellationResponse struct {
	Cancellation CancellationResponse `json:"cancellation"`
	Rollback     RollbackSummary      `json:"rollback"`
}
