package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "kargoku_backend/internals/features/finance/invoices/model"
	helperLock "kargoku_backend/internals/helpers/lock"
	"kargoku_backend/internals/shared/apperr"
)

/* =========================================================
   Invoice State Machine
   draft → generated → submitted
   submitted → reverted_to_draft (aksi manual, butuh actor)
   generated|submitted → paid | unpaid (sinyal dari payment)
   Transisi di luar tabel guard = conflict, tidak pernah
   dikoreksi diam-diam.
========================================================= */

const (
	ActionGenerate      = "generate"
	ActionSubmit        = "submit"
	ActionRevertToDraft = "revert_to_draft"
	ActionUpdateUnpaid  = "update_unpaid"
)

// invoiceLocks serialisasi transisi per invoice, terpisah dari lock payment
var invoiceLocks = helperLock.NewKeyedMutex()

// GuardInvoiceAction: validasi aksi terhadap status sekarang. Murni.
func GuardInvoiceAction(current, action string) error {
	allowed := false
	switch action {
	case ActionGenerate:
		allowed = current == model.InvoiceStatusDraft || current == model.InvoiceStatusRevertedToDraft
	case ActionSubmit:
		allowed = current == model.InvoiceStatusGenerated
	case ActionRevertToDraft:
		allowed = current == model.InvoiceStatusSubmitted
	case ActionUpdateUnpaid:
		allowed = current == model.InvoiceStatusGenerated ||
			current == model.InvoiceStatusSubmitted ||
			current == model.InvoiceStatusUnpaid
	default:
		return apperr.InvalidErr("aksi invoice tidak dikenali: "+action, map[string]string{
			"action": action,
		})
	}
	if !allowed {
		return apperr.ConflictErr(
			fmt.Sprintf("aksi %s tidak diizinkan dari status %s", action, current),
			map[string]string{
				"action":         action,
				"current_status": current,
			})
	}
	return nil
}

// InvoiceActionResult: status akhir + deskripsi perubahan untuk caller
type InvoiceActionResult struct {
	InvoiceID      uuid.UUID `json:"invoice_id"`
	InvoiceStatus  string    `json:"invoice_status"`
	OutstandingIDR int64     `json:"outstanding_idr"`
	Updates        []string  `json:"updates"`
}

// ApplyInvoiceAction jalankan satu aksi lifecycle atas invoice.
func ApplyInvoiceAction(ctx context.Context, db *gorm.DB, invoiceID uuid.UUID, action string, actorID uuid.UUID) (*InvoiceActionResult, error) {
	if action == ActionRevertToDraft && actorID == uuid.Nil {
		return nil, apperr.InvalidErr("revert_to_draft butuh actor yang jelas", nil)
	}

	unlock := invoiceLocks.Lock(invoiceID.String())
	defer unlock()

	var result *InvoiceActionResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv model.Invoice
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&inv, "invoice_id = ? AND invoice_deleted_at IS NULL", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundErr("invoice tidak ditemukan")
			}
			return apperr.Wrap(err)
		}

		if err := GuardInvoiceAction(inv.InvoiceStatus, action); err != nil {
			return err
		}

		now := time.Now()
		updates := []string{}

		switch action {
		case ActionGenerate:
			ledger, err := ledgerForInvoice(ctx, tx, &inv)
			if err != nil {
				return err
			}
			billed := ledger.BilledIDR()
			if billed <= 0 {
				return apperr.InvalidErr("total tagihan harus lebih dari 0 untuk generate", map[string]string{
					"invoice_id": inv.InvoiceID.String(),
				})
			}
			inv.InvoiceStatus = model.InvoiceStatusGenerated
			inv.InvoiceBilledAmountIDR = billed
			inv.InvoiceOutstandingIDR = billed - ledger.PaidIDR
			inv.InvoiceGeneratedAt = &now
			updates = append(updates,
				fmt.Sprintf("invoice digenerate, total tagihan Rp%d", billed))

		case ActionSubmit:
			inv.InvoiceStatus = model.InvoiceStatusSubmitted
			inv.InvoiceSubmittedAt = &now
			updates = append(updates, "invoice disubmit")

		case ActionRevertToDraft:
			inv.InvoiceStatus = model.InvoiceStatusRevertedToDraft
			inv.InvoiceSubmittedAt = nil
			updates = append(updates,
				"invoice dikembalikan ke draft oleh "+actorID.String())

		case ActionUpdateUnpaid:
			ledger, err := ledgerForInvoice(ctx, tx, &inv)
			if err != nil {
				return err
			}
			outstanding := ledger.OutstandingIDR()
			inv.InvoiceOutstandingIDR = outstanding
			if outstanding > 0 {
				inv.InvoiceStatus = model.InvoiceStatusUnpaid
			} else {
				inv.InvoiceStatus = model.InvoiceStatusPaid
				inv.InvoicePaidAt = &now
			}
			updates = append(updates,
				fmt.Sprintf("sisa tagihan dihitung ulang: Rp%d", outstanding))
		}

		inv.InvoiceUpdatedAt = now
		if err := tx.Save(&inv).Error; err != nil {
			return apperr.Wrap(err)
		}

		result = &InvoiceActionResult{
			InvoiceID:      inv.InvoiceID,
			InvoiceStatus:  inv.InvoiceStatus,
			OutstandingIDR: inv.InvoiceOutstandingIDR,
			Updates:        updates,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

/* =========================================================
   Sinyal dari Payment State Machine.
   Dipanggil SINKRON di transaksi webhook yang sama: tidak
   boleh ada jendela "payment settled tapi invoice masih
   generated" yang terlihat dari luar.
========================================================= */

// ApplyPaymentSettled: payment order jadi paid → invoice ikut paid.
// Sisa tagihan dihitung dari ledger (SUM semua payment paid), bukan dari
// nominal event barusan saja: pelunasan bisa datang lebih dari sekali.
// Idempotent: invoice yang sudah paid tidak diubah lagi.
func ApplyPaymentSettled(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (string, error) {
	inv, err := lockInvoiceByOrder(ctx, tx, orderID)
	if err != nil {
		return "", err
	}
	if inv == nil {
		log.Printf("[INFO] order %s belum punya invoice, sinyal paid dilewati", orderID)
		return "", nil
	}
	if inv.InvoiceStatus == model.InvoiceStatusPaid {
		return inv.InvoiceStatus, nil
	}

	switch inv.InvoiceStatus {
	case model.InvoiceStatusGenerated, model.InvoiceStatusSubmitted, model.InvoiceStatusUnpaid:
		ledger, err := ledgerForInvoice(ctx, tx, inv)
		if err != nil {
			return "", err
		}
		now := time.Now()
		inv.InvoiceStatus = model.InvoiceStatusPaid
		inv.InvoiceOutstandingIDR = settledOutstanding(ledger)
		inv.InvoicePaidAt = &now
		inv.InvoiceUpdatedAt = now
		if err := tx.Save(inv).Error; err != nil {
			return "", apperr.Wrap(err)
		}
		return inv.InvoiceStatus, nil
	default:
		// draft/reverted: belum ada tagihan resmi yang bisa dilunasi
		log.Printf("[WARN] sinyal paid untuk invoice %s di status %s diabaikan", inv.InvoiceID, inv.InvoiceStatus)
		return inv.InvoiceStatus, nil
	}
}

// ApplyPaymentUnresolved: payment failed/expired → tagihan jadi unpaid.
func ApplyPaymentUnresolved(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (string, error) {
	inv, err := lockInvoiceByOrder(ctx, tx, orderID)
	if err != nil {
		return "", err
	}
	if inv == nil {
		return "", nil
	}

	switch inv.InvoiceStatus {
	case model.InvoiceStatusGenerated, model.InvoiceStatusSubmitted:
		now := time.Now()
		inv.InvoiceStatus = model.InvoiceStatusUnpaid
		inv.InvoiceUpdatedAt = now
		if err := tx.Save(inv).Error; err != nil {
			return "", apperr.Wrap(err)
		}
	}
	return inv.InvoiceStatus, nil
}

/* =========================================================
   Rollback untuk pembatalan order.
   Tetap lewat state machine ini supaya invariannya kepegang;
   koordinator tidak boleh set kolom status langsung.
========================================================= */

// cancellationTarget: status tujuan rollback. Murni, gampang dites.
// Return ("", false) kalau tidak ada yang perlu diubah.
func cancellationTarget(current string, hadSettlement bool) (string, bool) {
	switch current {
	case model.InvoiceStatusGenerated, model.InvoiceStatusSubmitted:
		if hadSettlement {
			return model.InvoiceStatusUnpaid, true
		}
		return model.InvoiceStatusDraft, true
	default:
		return "", false
	}
}

// RollbackForCancellation dipanggil koordinator pembatalan.
// hadSettlement=true kalau sempat ada uang masuk untuk order ini.
func RollbackForCancellation(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, hadSettlement bool) (string, error) {
	inv, err := lockInvoiceByOrder(ctx, tx, orderID)
	if err != nil {
		return "", err
	}
	if inv == nil {
		return "", nil
	}

	target, ok := cancellationTarget(inv.InvoiceStatus, hadSettlement)
	if !ok {
		return inv.InvoiceStatus, nil
	}

	now := time.Now()
	inv.InvoiceStatus = target
	inv.InvoiceSubmittedAt = nil
	if target == model.InvoiceStatusDraft {
		inv.InvoiceGeneratedAt = nil
	}
	inv.InvoiceUpdatedAt = now
	if err := tx.Save(inv).Error; err != nil {
		return "", apperr.Wrap(err)
	}
	return inv.InvoiceStatus, nil
}

/* =========================================================
   Internal helpers
========================================================= */

// lockInvoiceByOrder: invoice order FOR UPDATE; nil kalau tidak ada
func lockInvoiceByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, "invoice_order_id = ? AND invoice_deleted_at IS NULL", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(err)
	}
	return &inv, nil
}

// ledgerForInvoice: lines + total pembayaran masuk untuk order invoice.
// Payment dan invoice koordinasi lewat order_id, bukan relasi langsung.
func ledgerForInvoice(ctx context.Context, tx *gorm.DB, inv *model.Invoice) (AmountLedger, error) {
	var lines []model.InvoiceLine
	if err := tx.WithContext(ctx).
		Where("invoice_line_invoice_id = ?", inv.InvoiceID).
		Order("invoice_line_created_at ASC").
		Find(&lines).Error; err != nil {
		return AmountLedger{}, apperr.Wrap(err)
	}

	var paid int64
	row := tx.WithContext(ctx).
		Table("payments").
		Select("COALESCE(SUM(payment_paid_amount_idr), 0)").
		Where("payment_order_id = ? AND payment_status = ? AND payment_deleted_at IS NULL",
			inv.InvoiceOrderID, "paid").
		Row()
	if err := row.Scan(&paid); err != nil && !strings.Contains(err.Error(), "no rows") {
		return AmountLedger{}, apperr.Wrap(err)
	}

	return NewLedger(lines, paid), nil
}
