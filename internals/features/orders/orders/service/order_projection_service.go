package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	orderModel "kargoku_backend/internals/features/orders/orders/model"
	"kargoku_backend/internals/shared/apperr"
)

/* =========================================================
   Akses proyeksi order. Hanya kolom status/cancel yang ditulis
   dari sini: workflow order punya servicenya sendiri.
========================================================= */

// FindOrder ambil order by id (tanpa lock)
func FindOrder(ctx context.Context, db *gorm.DB, orderID uuid.UUID) (*orderModel.Order, error) {
	var o orderModel.Order
	if err := db.WithContext(ctx).
		First(&o, "order_id = ? AND order_deleted_at IS NULL", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundErr("order tidak ditemukan")
		}
		return nil, apperr.Wrap(err)
	}
	return &o, nil
}

// LockOrder ambil order FOR UPDATE (dipanggil di dalam transaksi)
func LockOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*orderModel.Order, error) {
	var o orderModel.Order
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, "order_id = ? AND order_deleted_at IS NULL", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundErr("order tidak ditemukan")
		}
		return nil, apperr.Wrap(err)
	}
	return &o, nil
}

// MarkOrderCanceled set flag cancel + status kedua leg ke canceled.
// Idempotent: order yang sudah canceled tidak di-update ulang.
func MarkOrderCanceled(ctx context.Context, tx *gorm.DB, o *orderModel.Order) (changed bool, err error) {
	if o.OrderIsCanceled {
		return false, nil
	}
	now := time.Now()
	res := tx.WithContext(ctx).Model(&orderModel.Order{}).
		Where("order_id = ?", o.OrderID).
		Updates(map[string]any{
			"order_is_canceled":    true,
			"order_status_pickup":  orderModel.OrderLegStatusCanceled,
			"order_status_deliver": orderModel.OrderLegStatusCanceled,
			"order_updated_at":     now,
		})
	if res.Error != nil {
		return false, apperr.Wrap(res.Error)
	}
	o.OrderIsCanceled = true
	o.OrderStatusPickup = orderModel.OrderLegStatusCanceled
	o.OrderStatusDeliver = orderModel.OrderLegStatusCanceled
	o.OrderUpdatedAt = now
	return true, nil
}
