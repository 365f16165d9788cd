package dto

import (
	"time"

	"github.com/google/uuid"

	model "kargoku_backend/internals/features/finance/invoices/model"
)

/* ===================== Request ===================== */

type DraftLineRequest struct {
	Description   string   `json:"description" validate:"required,max=200"`
	AmountIDR     int64    `json:"amount_idr"`
	AmountSGD     *float64 `json:"amount_sgd,omitempty"`
	RateIDRPerSGD *float64 `json:"rate_idr_per_sgd,omitempty"`
}

type CreateDraftInvoiceRequest struct {
	OrderID uuid.UUID          `json:"order_id" validate:"required"`
	Lines   []DraftLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// InvoiceActionRequest: satu endpoint untuk semua transisi lifecycle
type InvoiceActionRequest struct {
	Action string `json:"action" validate:"required,oneof=generate submit revert_to_draft update_unpaid"`
}

/* ===================== Response ===================== */

type InvoiceLineResponse struct {
	InvoiceLineID uuid.UUID `json:"invoice_line_id"`
	Description   string    `json:"description"`
	AmountIDR     int64     `json:"amount_idr"`
	AmountSGD     *float64  `json:"amount_sgd,omitempty"`
	RateIDRPerSGD *float64  `json:"rate_idr_per_sgd,omitempty"`
}

type InvoiceResponse struct {
	InvoiceID       uuid.UUID             `json:"invoice_id"`
	OrderID         uuid.UUID             `json:"order_id"`
	InvoiceNumber   string                `json:"invoice_number"`
	Status          string                `json:"status"`
	BilledAmountIDR int64                 `json:"billed_amount_idr"`
	BilledCurrency  string                `json:"billed_currency"`
	OutstandingIDR  int64                 `json:"outstanding_idr"`
	GeneratedAt     *time.Time            `json:"generated_at,omitempty"`
	SubmittedAt     *time.Time            `json:"submitted_at,omitempty"`
	PaidAt          *time.Time            `json:"paid_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	Lines           []InvoiceLineResponse `json:"lines,omitempty"`
}

func FromInvoiceModel(m *model.Invoice, lines []model.InvoiceLine) *InvoiceResponse {
	resp := &InvoiceResponse{
		InvoiceID:       m.InvoiceID,
		OrderID:         m.InvoiceOrderID,
		InvoiceNumber:   m.InvoiceNumber,
		Status:          m.InvoiceStatus,
		BilledAmountIDR: m.InvoiceBilledAmountIDR,
		BilledCurrency:  m.InvoiceBilledCurrency,
		OutstandingIDR:  m.InvoiceOutstandingIDR,
		GeneratedAt:     m.InvoiceGeneratedAt,
		SubmittedAt:     m.InvoiceSubmittedAt,
		PaidAt:          m.InvoicePaidAt,
		CreatedAt:       m.InvoiceCreatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, InvoiceLineResponse{
			InvoiceLineID: l.InvoiceLineID,
			Description:   l.InvoiceLineDescription,
			AmountIDR:     l.InvoiceLineAmountIDR,
			AmountSGD:     l.InvoiceLineAmountSGD,
			RateIDRPerSGD: l.InvoiceLineRateIDRPerSGD,
		})
	}
	return resp
}
