package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kargoku_backend/internals/constants"
	invoiceService "kargoku_backend/internals/features/finance/invoices/service"
	paymentService "kargoku_backend/internals/features/finance/payments/service"
	"kargoku_backend/internals/features/orders/cancellations/dto"
	model "kargoku_backend/internals/features/orders/cancellations/model"
	orderService "kargoku_backend/internals/features/orders/orders/service"
	"kargoku_backend/internals/shared/apperr"
)

/* =========================================================
   Koordinator pembatalan order.
   Approve menjalankan rollback berurutan:
     1. order  → canceled (kedua leg)
     2. payment → pending digagalkan
     3. invoice → rollback via state machine invoice
   Urutan lock ikut urutan ini juga (order → payment → invoice)
   supaya tidak deadlock dengan jalur webhook.
   Semua langkah idempotent: approve yang gagal di tengah bisa
   diulang dan nerusin dari langkah yang belum jalan.
========================================================= */

// ApprovalPolicy: siapa yang boleh approve/reject. Default cek role
// dari token; bisa diganti di test atau deployment lain.
type ApprovalPolicy func(role string) bool

var CanApproveCancellation ApprovalPolicy = func(role string) bool {
	for _, allowed := range constants.AllowedToApproveCancellation {
		if role == allowed {
			return true
		}
	}
	return false
}

/* ---------- Create ---------- */

func CreateCancellationRequest(ctx context.Context, db *gorm.DB, orderID uuid.UUID, req *dto.CreateCancellationRequest, requestedBy uuid.UUID) (*model.CancellationRequest, error) {
	order, err := orderService.FindOrder(ctx, db, orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderIsCanceled {
		return nil, apperr.ConflictErr("order sudah dibatalkan", map[string]string{
			"order_id": orderID.String(),
		})
	}

	// Satu request pending per order; yang sudah resolved tidak ngeblok
	var open int64
	if err := db.WithContext(ctx).Model(&model.CancellationRequest{}).
		Where("cancellation_order_id = ? AND cancellation_status = ? AND cancellation_deleted_at IS NULL",
			orderID, model.CancellationStatusPending).
		Count(&open).Error; err != nil {
		return nil, apperr.Wrap(err)
	}
	if open > 0 {
		return nil, apperr.ConflictErr("masih ada permintaan pembatalan yang menunggu keputusan", map[string]string{
			"order_id": orderID.String(),
		})
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = model.DefaultCancellationReason
	}

	r := model.CancellationRequest{
		CancellationOrderID:     orderID,
		CancellationRequestedBy: requestedBy,
		CancellationReason:      reason,
		CancellationStatus:      model.CancellationStatusPending,
	}
	if err := db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, apperr.Wrap(err)
	}
	return &r, nil
}

/* ---------- Approve ---------- */

func ApproveCancellation(ctx context.Context, db *gorm.DB, cancellationID, resolvedBy uuid.UUID, resolverRole string) (*model.CancellationRequest, *dto.RollbackSummary, error) {
	if !CanApproveCancellation(resolverRole) {
		return nil, nil, apperr.ForbiddenErr("role Anda tidak boleh menyetujui pembatalan")
	}

	r, err := findCancellation(ctx, db, cancellationID)
	if err != nil {
		return nil, nil, err
	}
	if r.CancellationStatus == model.CancellationStatusRejected {
		return nil, nil, apperr.ConflictErr("permintaan sudah ditolak, tidak bisa di-approve", nil)
	}
	// approved yang diulang tetap lanjut: rollback-nya idempotent,
	// jadi retry setelah kegagalan parsial aman

	// Mutex payment per order dipegang dari luar transaksi,
	// sama seperti jalur issuer/webhook
	unlock := paymentService.LockOrderPayments(r.CancellationOrderID)
	defer unlock()

	var summary dto.RollbackSummary
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock row request-nya dulu biar dua approver tidak balapan
		var locked model.CancellationRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, "cancellation_id = ?", cancellationID).Error; err != nil {
			return apperr.Wrap(err)
		}
		if locked.CancellationStatus == model.CancellationStatusRejected {
			return apperr.ConflictErr("permintaan sudah ditolak, tidak bisa di-approve", nil)
		}

		// Langkah 1: order
		order, err := orderService.LockOrder(ctx, tx, locked.CancellationOrderID)
		if err != nil {
			return apperr.PartialCancellationErr("order", err)
		}
		changed, err := orderService.MarkOrderCanceled(ctx, tx, order)
		if err != nil {
			return apperr.PartialCancellationErr("order", err)
		}
		summary.OrderCanceled = changed

		// hadSettlement dicek SEBELUM payment digagalkan, karena
		// arah rollback invoice tergantung pernah ada uang masuk
		hadSettlement, err := paymentService.HasSettledPayment(ctx, tx, locked.CancellationOrderID)
		if err != nil {
			return apperr.PartialCancellationErr("payment", err)
		}

		// Langkah 2: payment
		failedAny, err := paymentService.ForceFailOpenPayments(ctx, tx, locked.CancellationOrderID)
		if err != nil {
			return apperr.PartialCancellationErr("payment", err)
		}
		summary.PaymentsFailed = failedAny

		// Langkah 3: invoice
		invStatus, err := invoiceService.RollbackForCancellation(ctx, tx, locked.CancellationOrderID, hadSettlement)
		if err != nil {
			return apperr.PartialCancellationErr("invoice", err)
		}
		summary.InvoiceStatus = invStatus

		// Terakhir: resolusi request-nya sendiri
		if locked.CancellationStatus != model.CancellationStatusApproved {
			now := time.Now()
			locked.CancellationStatus = model.CancellationStatusApproved
			locked.CancellationResolvedBy = &resolvedBy
			locked.CancellationResolvedAt = &now
			if err := tx.Save(&locked).Error; err != nil {
				return apperr.Wrap(err)
			}
		}
		*r = locked
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] rollback pembatalan %s gagal: %v", cancellationID, err)
		return nil, nil, err
	}
	return r, &summary, nil
}

/* ---------- Reject ---------- */

func RejectCancellation(ctx context.Context, db *gorm.DB, cancellationID, resolvedBy uuid.UUID, resolverRole string) (*model.CancellationRequest, error) {
	if !CanApproveCancellation(resolverRole) {
		return nil, apperr.ForbiddenErr("role Anda tidak boleh menolak pembatalan")
	}

	var r model.CancellationRequest
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&r, "cancellation_id = ?", cancellationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundErr("permintaan pembatalan tidak ditemukan")
			}
			return apperr.Wrap(err)
		}
		if r.IsResolved() {
			if r.CancellationStatus == model.CancellationStatusRejected {
				return nil // reject ulang = no-op
			}
			return apperr.ConflictErr("permintaan sudah di-approve, tidak bisa ditolak", nil)
		}

		now := time.Now()
		r.CancellationStatus = model.CancellationStatusRejected
		r.CancellationResolvedBy = &resolvedBy
		r.CancellationResolvedAt = &now
		if err := tx.Save(&r).Error; err != nil {
			return apperr.Wrap(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

/* ---------- Query ---------- */

func findCancellation(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.CancellationRequest, error) {
	var r model.CancellationRequest
	if err := db.WithContext(ctx).
		First(&r, "cancellation_id = ? AND cancellation_deleted_at IS NULL", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundErr("permintaan pembatalan tidak ditemukan")
		}
		return nil, apperr.Wrap(err)
	}
	return &r, nil
}

func FindCancellation(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.CancellationRequest, error) {
	return findCancellation(ctx, db, id)
}
