package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kargoku_backend/internals/constants"
	model "kargoku_backend/internals/features/finance/payments/model"
	invoiceModel "kargoku_backend/internals/features/finance/invoices/model"
	orderService "kargoku_backend/internals/features/orders/orders/service"
	helperLock "kargoku_backend/internals/helpers/lock"
	"kargoku_backend/internals/shared/apperr"
)

/* =========================================================
   Virtual Account Issuer
   - satu payment 'pending' per order (dijaga lock + partial
     unique index di DB)
   - charge ke gateway dulu, persist setelah gateway konfirmasi:
     tidak ada record setengah jadi kalau gateway gagal
========================================================= */

// orderLocks serialisasi semua mutasi payment per order
// (dipakai issuer DAN webhook handler).
var orderLocks = helperLock.NewKeyedMutex()

func IssueVirtualAccount(ctx context.Context, db *gorm.DB, orderID uuid.UUID, channel string, requestedBy uuid.UUID) (*model.Payment, error) {
	// 1) Validasi input sebelum sentuh state apa pun
	if !constants.IsAllowedVAChannel(channel) {
		return nil, apperr.InvalidErr("channel pembayaran tidak dikenali: "+channel, map[string]string{
			"channel": channel,
		})
	}

	// 2) Order harus ada dan belum dibatalkan
	order, err := orderService.FindOrder(ctx, db, orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderIsCanceled {
		return nil, apperr.ConflictErr("order sudah dibatalkan, tidak bisa terbitkan VA", map[string]string{
			"order_id": orderID.String(),
		})
	}

	unlock := orderLocks.Lock(orderID.String())
	defer unlock()

	// 3) Tolak kalau masih ada payment pending
	var open int64
	if err := db.WithContext(ctx).Model(&model.Payment{}).
		Where("payment_order_id = ? AND payment_status = ? AND payment_deleted_at IS NULL",
			orderID, model.PaymentStatusPending).
		Count(&open).Error; err != nil {
		return nil, apperr.Wrap(err)
	}
	if open > 0 {
		return nil, apperr.ConflictErr("masih ada payment pending untuk order ini", map[string]string{
			"order_id": orderID.String(),
		})
	}

	// 4) Nominal diambil dari invoice order (sisa tagihan terakhir;
	//    fallback ke total kalau belum pernah dihitung)
	amount, err := billedAmountForOrder(ctx, db, orderID)
	if err != nil {
		return nil, err
	}

	trackingNumber := newTrackingNumber()

	// 5) Charge gateway dengan timeout terbatas
	chargeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	res, err := ChargeVirtualAccount(chargeCtx, trackingNumber, amount, channel)
	if err != nil {
		return nil, err
	}

	// 6) Persist pending payment (setelah gateway konfirmasi)
	now := time.Now()
	expires := now.Add(VAExpiryWindow())
	p := model.Payment{
		PaymentOrderID:        orderID,
		PaymentTrackingNumber: trackingNumber,
		PaymentChannel:        channel,
		PaymentStatus:         model.PaymentStatusPending,
		PaymentAmountIDR:      amount,
		PaymentCurrency:       "IDR",
		PaymentRequestedBy:    &requestedBy,
		PaymentExpiresAt:      &expires,
	}
	if res.VANumber != "" {
		va := res.VANumber
		p.PaymentVANumber = &va
	}
	if res.TransactionID != "" {
		txn := res.TransactionID
		p.PaymentGatewayTxnID = &txn
	}

	if err := db.WithContext(ctx).Create(&p).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperr.ConflictErr("masih ada payment pending untuk order ini", map[string]string{
				"order_id": orderID.String(),
			})
		}
		return nil, apperr.Wrap(err)
	}
	return &p, nil
}

// billedAmountForOrder: nominal VA = outstanding invoice order
// (atau total billed kalau outstanding belum dihitung).
func billedAmountForOrder(ctx context.Context, db *gorm.DB, orderID uuid.UUID) (int64, error) {
	var inv invoiceModel.Invoice
	if err := db.WithContext(ctx).
		First(&inv, "invoice_order_id = ? AND invoice_deleted_at IS NULL", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperr.InvalidErr("order belum punya invoice, generate tagihan dulu", map[string]string{
				"order_id": orderID.String(),
			})
		}
		return 0, apperr.Wrap(err)
	}
	amount := inv.InvoiceOutstandingIDR
	if amount <= 0 {
		amount = inv.InvoiceBilledAmountIDR
	}
	if amount <= 0 {
		return 0, apperr.InvalidErr("nominal tagihan masih 0, tidak bisa terbitkan VA", map[string]string{
			"invoice_id": inv.InvoiceID.String(),
		})
	}
	return amount, nil
}

// newTrackingNumber: "KGX-YYYYMMDD-XXXXXXXX", unik global (index DB yang jaga)
func newTrackingNumber() string {
	suffix := strings.ToUpper(strings.Split(uuid.NewString(), "-")[0])
	return fmt.Sprintf("KGX-%s-%s", time.Now().Format("20060102"), suffix)
}

func isDuplicate(err error) bool {
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "uq_payments_order_pending") ||
		strings.Contains(lc, "uq_payments_tracking_number")
}
