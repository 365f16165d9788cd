package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */
/* Selaras dengan ENUM di PostgreSQL: payment_status */

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
	PaymentStatusExpired = "expired"
)

/* ===================== Model ===================== */

type Payment struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_id"`

	// Order pemilik. Partial unique index: maksimal satu payment 'pending' per order.
	PaymentOrderID uuid.UUID `gorm:"column:payment_order_id;type:uuid;not null;index;uniqueIndex:uq_payments_order_pending,where:payment_status = 'pending' AND payment_deleted_at IS NULL" json:"payment_order_id"`

	// Nomor tagihan unik global; dipakai sebagai OrderID di Midtrans.
	PaymentTrackingNumber string `gorm:"column:payment_tracking_number;type:varchar(40);not null;uniqueIndex:uq_payments_tracking_number" json:"payment_tracking_number"`

	// Transaction ID dari gateway (NULL sampai webhook pertama masuk)
	PaymentGatewayTxnID *string `gorm:"column:payment_gateway_txn_id;type:varchar(64);index" json:"payment_gateway_txn_id,omitempty"`

	// Channel VA (bca_va, bni_va, ...)
	PaymentChannel string `gorm:"column:payment_channel;type:varchar(20);not null" json:"payment_channel"`

	// Status
	PaymentStatus string `gorm:"column:payment_status;type:payment_status;not null;default:'pending'" json:"payment_status"`

	// Nominal & mata uang
	PaymentAmountIDR int64  `gorm:"column:payment_amount_idr;not null;check:payment_amount_idr >= 0" json:"payment_amount_idr"`
	PaymentCurrency  string `gorm:"column:payment_currency;type:varchar(8);not null;default:IDR" json:"payment_currency"`

	// Rekonsiliasi: nominal yang benar-benar masuk (dari gross_amount webhook)
	PaymentPaidAmountIDR int64   `gorm:"column:payment_paid_amount_idr;not null;default:0" json:"payment_paid_amount_idr"`
	PaymentPaidCurrency  *string `gorm:"column:payment_paid_currency;type:varchar(8)" json:"payment_paid_currency,omitempty"`

	// Info VA dari gateway
	PaymentVANumber *string `gorm:"column:payment_va_number;type:varchar(40)" json:"payment_va_number,omitempty"`

	PaymentRequestedBy *uuid.UUID `gorm:"column:payment_requested_by;type:uuid" json:"payment_requested_by,omitempty"`

	// Timestamps penting
	PaymentExpiresAt *time.Time `gorm:"column:payment_expires_at" json:"payment_expires_at,omitempty"`
	PaymentPaidAt    *time.Time `gorm:"column:payment_paid_at" json:"payment_paid_at,omitempty"`
	PaymentFailedAt  *time.Time `gorm:"column:payment_failed_at" json:"payment_failed_at,omitempty"`

	// Base timestamps
	PaymentCreatedAt time.Time      `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time      `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
	PaymentDeletedAt gorm.DeletedAt `gorm:"column:payment_deleted_at;index" json:"-"`
}

func (Payment) TableName() string { return "payments" }

/* ===================== Helpers ===================== */

func (p *Payment) IsOpen() bool {
	return p.PaymentStatus == PaymentStatusPending
}

// IsTerminal: paid/failed/expired tidak boleh berubah lagi
func (p *Payment) IsTerminal() bool {
	switch p.PaymentStatus {
	case PaymentStatusPaid, PaymentStatusFailed, PaymentStatusExpired:
		return true
	default:
		return false
	}
}

func (p *Payment) IsPaid() bool {
	return p.PaymentStatus == PaymentStatusPaid
}

// ApplyOutcome menerapkan transisi terminal ke payment.
// Return true kalau ada perubahan; pengulangan outcome yang sama = no-op.
// Transisi keluar dari status terminal tidak pernah diterapkan di sini -
// caller wajib cek IsTerminal dulu dan memutuskan discard/log.
func (p *Payment) ApplyOutcome(outcome string, paidAmountIDR int64, paidCurrency string, now time.Time) bool {
	if p.PaymentStatus == outcome {
		return false
	}
	switch outcome {
	case PaymentStatusPaid:
		p.PaymentStatus = PaymentStatusPaid
		p.PaymentPaidAt = &now
		p.PaymentPaidAmountIDR = paidAmountIDR
		if paidCurrency != "" {
			cur := paidCurrency
			p.PaymentPaidCurrency = &cur
		}
	case PaymentStatusFailed:
		p.PaymentStatus = PaymentStatusFailed
		p.PaymentFailedAt = &now
	case PaymentStatusExpired:
		p.PaymentStatus = PaymentStatusExpired
	default:
		return false
	}
	p.PaymentUpdatedAt = now
	return true
}
