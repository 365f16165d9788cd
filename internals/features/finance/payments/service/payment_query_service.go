package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "kargoku_backend/internals/features/finance/payments/model"
	"kargoku_backend/internals/shared/apperr"
)

/* ---------- Query ---------- */

func FindPayment(ctx context.Context, db *gorm.DB, paymentID uuid.UUID) (*model.Payment, error) {
	var p model.Payment
	if err := db.WithContext(ctx).
		First(&p, "payment_id = ? AND payment_deleted_at IS NULL", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundErr("payment tidak ditemukan")
		}
		return nil, apperr.Wrap(err)
	}
	return &p, nil
}

// GatewayEventFilter: filter listing buat triage manual
type GatewayEventFilter struct {
	OrderID   string
	Status    string
	TxnStatus string
}

func ListGatewayEvents(ctx context.Context, db *gorm.DB, f GatewayEventFilter, limit, offset int) ([]model.PaymentGatewayEvent, int64, error) {
	q := db.WithContext(ctx).Model(&model.PaymentGatewayEvent{})
	if f.OrderID != "" {
		q = q.Where("gateway_event_order_id = ?", f.OrderID)
	}
	if f.Status != "" {
		q = q.Where("gateway_event_status = ?", f.Status)
	}
	if f.TxnStatus != "" {
		q = q.Where("gateway_event_txn_status = ?", f.TxnStatus)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Wrap(err)
	}

	var rows []model.PaymentGatewayEvent
	if err := q.Order("gateway_event_received_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, apperr.Wrap(err)
	}
	return rows, total, nil
}

/* ---------- Hook pembatalan ---------- */

// LockOrderPayments: serialisasi mutasi payment satu order dari luar
// package ini (koordinator pembatalan pakai mutex yang sama dengan
// issuer + webhook supaya tidak saling selip).
func LockOrderPayments(orderID uuid.UUID) (unlock func()) {
	return orderLocks.Lock(orderID.String())
}

// ForceFailOpenPayments: transisi semua payment pending milik order ke
// failed (langkah rollback pembatalan). Idempotent: tanpa payment
// pending = no-op. Payment paid TIDAK disentuh: uang yang sudah masuk
// diurus refund manual, bukan state machine ini.
func ForceFailOpenPayments(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (changed bool, err error) {
	var open []model.Payment
	if err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payment_order_id = ? AND payment_status = ? AND payment_deleted_at IS NULL",
			orderID, model.PaymentStatusPending).
		Find(&open).Error; err != nil {
		return false, apperr.Wrap(err)
	}

	now := time.Now()
	for i := range open {
		p := &open[i]
		if !p.ApplyOutcome(model.PaymentStatusFailed, 0, "", now) {
			continue
		}
		if err := tx.Save(p).Error; err != nil {
			return changed, apperr.Wrap(err)
		}
		log.Printf("[INFO] payment %s (order %s) digagalkan karena pembatalan order", p.PaymentID, orderID)
		changed = true
	}
	return changed, nil
}

// HasSettledPayment: order pernah punya pembayaran sukses?
// Dipakai koordinator pembatalan buat nentuin arah rollback invoice.
func HasSettledPayment(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (bool, error) {
	var n int64
	if err := tx.WithContext(ctx).Model(&model.Payment{}).
		Where("payment_order_id = ? AND payment_status = ? AND payment_deleted_at IS NULL",
			orderID, model.PaymentStatusPaid).
		Count(&n).Error; err != nil {
		return false, apperr.Wrap(err)
	}
	return n > 0, nil
}
