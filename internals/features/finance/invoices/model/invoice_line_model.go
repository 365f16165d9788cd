// file: internals/features/finance/invoices/model/invoice_line_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

/*
  invoice_lines: item tagihan per invoice.
  Line bisa bawa nominal mata uang kedua (SGD) + snapshot kurs saat
  line dibuat. Snapshot TIDAK pernah di-update lagi: perubahan kurs
  belakangan tidak boleh mengubah invoice historis.
*/

type InvoiceLine struct {
	InvoiceLineID uuid.UUID `gorm:"column:invoice_line_id;type:uuid;default:gen_random_uuid();primaryKey" json:"invoice_line_id"`

	InvoiceLineInvoiceID uuid.UUID `gorm:"column:invoice_line_invoice_id;type:uuid;not null;index" json:"invoice_line_invoice_id"`

	InvoiceLineDescription string `gorm:"column:invoice_line_description;type:varchar(160);not null" json:"invoice_line_description"`

	// Nominal dalam mata uang tagihan (IDR)
	InvoiceLineAmountIDR int64 `gorm:"column:invoice_line_amount_idr;not null;default:0;check:invoice_line_amount_idr >= 0" json:"invoice_line_amount_idr"`

	// Nominal paralel mata uang kedua + snapshot kurs (IDR per 1 SGD).
	// Dua-duanya terisi bersama atau kosong bersama.
	InvoiceLineAmountSGD     *float64 `gorm:"column:invoice_line_amount_sgd;type:numeric(18,2)" json:"invoice_line_amount_sgd,omitempty"`
	InvoiceLineRateIDRPerSGD *float64 `gorm:"column:invoice_line_rate_idr_per_sgd;type:numeric(18,4)" json:"invoice_line_rate_idr_per_sgd,omitempty"`

	InvoiceLineCreatedAt time.Time `gorm:"column:invoice_line_created_at;autoCreateTime" json:"invoice_line_created_at"`
}

func (InvoiceLine) TableName() string { return "invoice_lines" }

// HasSecondaryCurrency: line dengan nominal SGD + snapshot kurs lengkap
func (l *InvoiceLine) HasSecondaryCurrency() bool {
	return l.InvoiceLineAmountSGD != nil && l.InvoiceLineRateIDRPerSGD != nil
}
