package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "kargoku_backend/internals/features/finance/invoices/model"
	orderService "kargoku_backend/internals/features/orders/orders/service"
	"kargoku_backend/internals/shared/apperr"
)

/* =========================================================
   Pembuatan & query invoice
========================================================= */

// DraftLineInput: input line saat bikin draft. Kurs di-snapshot DI SINI,
// sekali, dan tidak pernah direvisi oleh perubahan kurs belakangan.
type DraftLineInput struct {
	Description   string
	AmountIDR     int64
	AmountSGD     *float64
	RateIDRPerSGD *float64
}

// CreateDraftInvoice bikin invoice draft + lines untuk satu order.
func CreateDraftInvoice(ctx context.Context, db *gorm.DB, orderID uuid.UUID, lines []DraftLineInput) (*model.Invoice, error) {
	if len(lines) == 0 {
		return nil, apperr.InvalidErr("invoice minimal punya satu line", nil)
	}
	for i, in := range lines {
		if strings.TrimSpace(in.Description) == "" {
			return nil, apperr.InvalidErr(fmt.Sprintf("line %d: deskripsi wajib diisi", i+1), nil)
		}
		// nominal SGD dan snapshot kurs harus berpasangan
		if (in.AmountSGD == nil) != (in.RateIDRPerSGD == nil) {
			return nil, apperr.InvalidErr(fmt.Sprintf("line %d: amount_sgd dan rate harus diisi berpasangan", i+1), nil)
		}
		if in.AmountIDR <= 0 && in.AmountSGD == nil {
			return nil, apperr.InvalidErr(fmt.Sprintf("line %d: nominal tidak boleh kosong", i+1), nil)
		}
	}

	// order harus ada
	if _, err := orderService.FindOrder(ctx, db, orderID); err != nil {
		return nil, err
	}

	// satu invoice aktif per order
	var existing int64
	if err := db.WithContext(ctx).Model(&model.Invoice{}).
		Where("invoice_order_id = ? AND invoice_deleted_at IS NULL", orderID).
		Count(&existing).Error; err != nil {
		return nil, apperr.Wrap(err)
	}
	if existing > 0 {
		return nil, apperr.ConflictErr("order sudah punya invoice", map[string]string{
			"order_id": orderID.String(),
		})
	}

	inv := model.Invoice{
		InvoiceNumber:         newInvoiceNumber(),
		InvoiceOrderID:        orderID,
		InvoiceStatus:         model.InvoiceStatusDraft,
		InvoiceBilledCurrency: "IDR",
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inv).Error; err != nil {
			return apperr.Wrap(err)
		}
		for _, in := range lines {
			line := model.InvoiceLine{
				InvoiceLineInvoiceID:     inv.InvoiceID,
				InvoiceLineDescription:   strings.TrimSpace(in.Description),
				InvoiceLineAmountIDR:     in.AmountIDR,
				InvoiceLineAmountSGD:     in.AmountSGD,
				InvoiceLineRateIDRPerSGD: in.RateIDRPerSGD,
			}
			if err := tx.Create(&line).Error; err != nil {
				return apperr.Wrap(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindInvoice ambil invoice + lines
func FindInvoice(ctx context.Context, db *gorm.DB, invoiceID uuid.UUID) (*model.Invoice, []model.InvoiceLine, error) {
	var inv model.Invoice
	if err := db.WithContext(ctx).
		First(&inv, "invoice_id = ? AND invoice_deleted_at IS NULL", invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFoundErr("invoice tidak ditemukan")
		}
		return nil, nil, apperr.Wrap(err)
	}
	var lines []model.InvoiceLine
	if err := db.WithContext(ctx).
		Where("invoice_line_invoice_id = ?", inv.InvoiceID).
		Order("invoice_line_created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, nil, apperr.Wrap(err)
	}
	return &inv, lines, nil
}

// newInvoiceNumber: "INV/KGX/YYYY/MM/XXXXXXXX"
func newInvoiceNumber() string {
	now := time.Now()
	suffix := strings.ToUpper(strings.Split(uuid.NewString(), "-")[0])
	return fmt.Sprintf("INV/KGX/%04d/%02d/%s", now.Year(), int(now.Month()), suffix)
}
