package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */
/* Selaras dengan ENUM di PostgreSQL: invoice_status */

const (
	InvoiceStatusDraft           = "draft"
	InvoiceStatusGenerated       = "generated"
	InvoiceStatusSubmitted       = "submitted"
	InvoiceStatusRevertedToDraft = "reverted_to_draft"
	InvoiceStatusPaid            = "paid"
	InvoiceStatusUnpaid          = "unpaid"
)

/* ===================== Model ===================== */

type Invoice struct {
	InvoiceID uuid.UUID `gorm:"column:invoice_id;type:uuid;default:gen_random_uuid();primaryKey" json:"invoice_id"`

	InvoiceNumber  string    `gorm:"column:invoice_number;type:varchar(40);not null;uniqueIndex:uq_invoices_number" json:"invoice_number"`
	InvoiceOrderID uuid.UUID `gorm:"column:invoice_order_id;type:uuid;not null;index" json:"invoice_order_id"`

	InvoiceStatus string `gorm:"column:invoice_status;type:invoice_status;not null;default:'draft'" json:"invoice_status"`

	// Total tagihan (hasil hitung dari lines saat generate)
	InvoiceBilledAmountIDR int64  `gorm:"column:invoice_billed_amount_idr;not null;default:0;check:invoice_billed_amount_idr >= 0" json:"invoice_billed_amount_idr"`
	InvoiceBilledCurrency  string `gorm:"column:invoice_billed_currency;type:varchar(8);not null;default:IDR" json:"invoice_billed_currency"`

	// Sisa tagihan terakhir yang dihitung (billed - paid)
	InvoiceOutstandingIDR int64 `gorm:"column:invoice_outstanding_idr;not null;default:0" json:"invoice_outstanding_idr"`

	// Timestamps lifecycle
	InvoiceGeneratedAt *time.Time `gorm:"column:invoice_generated_at" json:"invoice_generated_at,omitempty"`
	InvoiceSubmittedAt *time.Time `gorm:"column:invoice_submitted_at" json:"invoice_submitted_at,omitempty"`
	InvoicePaidAt      *time.Time `gorm:"column:invoice_paid_at" json:"invoice_paid_at,omitempty"`

	// Base timestamps
	InvoiceCreatedAt time.Time      `gorm:"column:invoice_created_at;autoCreateTime" json:"invoice_created_at"`
	InvoiceUpdatedAt time.Time      `gorm:"column:invoice_updated_at;autoUpdateTime" json:"invoice_updated_at"`
	InvoiceDeletedAt gorm.DeletedAt `gorm:"column:invoice_deleted_at;index" json:"-"`
}

func (Invoice) TableName() string { return "invoices" }

func (i *Invoice) IsSettled() bool {
	return i.InvoiceStatus == InvoiceStatusPaid
}

// IsDraftLike: draft dan reverted_to_draft dua-duanya bisa di-generate lagi
func (i *Invoice) IsDraftLike() bool {
	return i.InvoiceStatus == InvoiceStatusDraft || i.InvoiceStatus == InvoiceStatusRevertedToDraft
}
