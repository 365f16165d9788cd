package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	CancellationStatusPending  = "pending"
	CancellationStatusApproved = "approved"
	CancellationStatusRejected = "rejected"
)

// Alasan default kalau user tidak mengisi apa-apa
const DefaultCancellationReason = "tidak jadi pesan"

/* ===================== Model ===================== */

type CancellationRequest struct {
	CancellationID uuid.UUID `gorm:"column:cancellation_id;type:uuid;default:gen_random_uuid();primaryKey" json:"cancellation_id"`

	CancellationOrderID uuid.UUID `gorm:"column:cancellation_order_id;type:uuid;not null;index" json:"cancellation_order_id"`

	CancellationRequestedBy uuid.UUID `gorm:"column:cancellation_requested_by;type:uuid;not null" json:"cancellation_requested_by"`

	CancellationReason string `gorm:"column:cancellation_reason;type:varchar(200);not null;default:'tidak jadi pesan'" json:"cancellation_reason"`

	CancellationStatus string `gorm:"column:cancellation_status;type:cancellation_status;not null;default:'pending'" json:"cancellation_status"`

	CancellationResolvedBy *uuid.UUID `gorm:"column:cancellation_resolved_by;type:uuid" json:"cancellation_resolved_by,omitempty"`
	CancellationResolvedAt *time.Time `gorm:"column:cancellation_resolved_at" json:"cancellation_resolved_at,omitempty"`

	CancellationCreatedAt time.Time      `gorm:"column:cancellation_created_at;autoCreateTime" json:"cancellation_created_at"`
	CancellationUpdatedAt time.Time      `gorm:"column:cancellation_updated_at;autoUpdateTime" json:"cancellation_updated_at"`
	CancellationDeletedAt gorm.DeletedAt `gorm:"column:cancellation_deleted_at;index" json:"-"`
}

func (CancellationRequest) TableName() string { return "order_cancellations" }

// IsResolved: approved/rejected sudah final
func (r *CancellationRequest) IsResolved() bool {
	return r.CancellationStatus == CancellationStatusApproved ||
		r.CancellationStatus == CancellationStatusRejected
}
