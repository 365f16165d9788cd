package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	invoiceService "kargoku_backend/internals/features/finance/invoices/service"
	dto "kargoku_backend/internals/features/finance/payments/dto"
	model "kargoku_backend/internals/features/finance/payments/model"
	"kargoku_backend/internals/shared/apperr"
)

/* =========================================================
   Webhook Midtrans → Payment State Machine
   Urutan wajib:
     1. verifikasi signature (sebelum sentuh DB apa pun:
        request palsu tidak boleh ninggalin jejak idempotency)
     2. lock per order
     3. satu transaksi: dedupe event + transisi payment +
        sinyal ke invoice
========================================================= */

/* ---------- Signature ---------- */

// VerifyMidtransSignature: SHA512(order_id + status_code + gross_amount + ServerKey)
func VerifyMidtransSignature(n *dto.MidtransNotification, key string) error {
	want := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	raw := n.OrderID + n.StatusCode + n.GrossAmount + key
	got := sha512sum(raw)
	if want == "" || got != want {
		return apperr.UnauthorizedErr("signature webhook tidak valid")
	}
	return nil
}

func sha512sum(s string) string {
	h := sha512.Sum512([]byte(s))
	return hex.EncodeToString(h[:])
}

/* ---------- Status mapping ---------- */

// MapGatewayStatus: transaction_status Midtrans → outcome internal.
// echo=true artinya status dikenal tapi bukan transisi (notif pending).
// Status yang tidak ada di tabel = unmapped, fail closed.
func MapGatewayStatus(transactionStatus, fraudStatus string) (outcome string, echo bool, err error) {
	ts := strings.ToLower(strings.TrimSpace(transactionStatus))
	fraud := strings.ToLower(strings.TrimSpace(fraudStatus))

	switch ts {
	case "capture":
		// cc: capture + fraud=accept -> paid, fraud=challenge -> tunggu notif berikutnya
		if fraud == "accept" || fraud == "" {
			return model.PaymentStatusPaid, false, nil
		}
		if fraud == "challenge" {
			return "", true, nil
		}
		return model.PaymentStatusFailed, false, nil

	case "settlement":
		return model.PaymentStatusPaid, false, nil

	case "pending":
		// echo dari gateway saat VA dibuat; bukan transisi
		return "", true, nil

	case "deny", "cancel", "failure":
		return model.PaymentStatusFailed, false, nil

	case "expire":
		return model.PaymentStatusExpired, false, nil
	}

	return "", false, apperr.UnmappedStatusErr(transactionStatus)
}

/* ---------- Dedupe ---------- */

// replayedEventIsNoop: dedupe cuma berlaku untuk pengiriman ulang yang
// identik. Midtrans memakai transaction_id yang sama untuk echo pending
// DAN settlement sesudahnya; txn_id sama dengan transaction_status beda
// adalah delivery baru dan wajib diproses, bukan di-skip.
func replayedEventIsNoop(ev *model.PaymentGatewayEvent, incomingTxnStatus string) bool {
	return ev.IsCompleted() &&
		strings.EqualFold(strings.TrimSpace(ev.GatewayEventTxnStatus), strings.TrimSpace(incomingTxnStatus))
}

/* ---------- Handler ---------- */

// WebhookResult: ringkasan buat controller (dan log)
type WebhookResult struct {
	PaymentID     *uuid.UUID `json:"payment_id,omitempty"`
	PaymentStatus string     `json:"payment_status,omitempty"`
	InvoiceStatus string     `json:"invoice_status,omitempty"`
	Duplicate     bool       `json:"duplicate"`
	Ignored       string     `json:"ignored,omitempty"` // alasan event diterima tapi tidak diapply
}

// HandleMidtransNotification proses satu notifikasi gateway.
// Idempotent: notifikasi yang sama boleh datang berulang kali,
// hasil akhirnya sama dengan sekali proses.
func HandleMidtransNotification(ctx context.Context, db *gorm.DB, notif *dto.MidtransNotification) (*WebhookResult, error) {
	// 1) Signature dulu, sebelum state apa pun disentuh
	if err := VerifyMidtransSignature(notif, MidtransServerKey()); err != nil {
		return nil, err
	}
	if strings.TrimSpace(notif.TransactionID) == "" {
		return nil, apperr.InvalidErr("transaction_id kosong di payload webhook", nil)
	}

	// 2) Serialisasi per order (OrderID gateway = tracking number payment)
	unlock := orderLocks.Lock(notif.OrderID)
	defer unlock()

	var result WebhookResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 3) Idempotency store: insert event; conflict = txn_id sudah dikenal
		ev, dup, err := recordGatewayEvent(ctx, tx, notif)
		if err != nil {
			return err
		}
		if dup && replayedEventIsNoop(ev, notif.TransactionStatus) {
			// pengiriman ulang identik yang sudah tuntas → no-op,
			// balas sukses supaya gateway berhenti retry
			result.Duplicate = true
			result.PaymentID = ev.GatewayEventPaymentID
			return nil
		}
		// dup dengan transaction_status beda (echo pending lalu
		// settlement) atau proses sebelumnya keburu mati: masuk lagi
		// ke state machine dengan payload yang sekarang

		// 4) Cari payment by tracking number, FOR UPDATE
		var p model.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "payment_tracking_number = ? AND payment_deleted_at IS NULL", notif.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// order tidak dikenal; simpan jejak, balas sukses supaya
				// gateway tidak retry terus
				if err := finishGatewayEvent(tx, ev, model.GatewayEventStatusFailed,
					"payment tidak ditemukan untuk order_id="+notif.OrderID); err != nil {
					return err
				}
				result.Ignored = "payment not found"
				return nil
			}
			return apperr.Wrap(err)
		}
		result.PaymentID = &p.PaymentID

		// 5) Map status gateway; unmapped → non-200, nongol buat triage
		//    manual (jejak failed ditulis setelah rollback, lihat bawah)
		outcome, echo, err := MapGatewayStatus(notif.TransactionStatus, notif.FraudStatus)
		if err != nil {
			return err
		}
		if echo {
			result.PaymentStatus = p.PaymentStatus
			return finishGatewayEvent(tx, ev, model.GatewayEventStatusSuccess, "")
		}

		now := time.Now()

		// 6) Status terminal beku: event telat di-log lalu dibuang
		if p.IsTerminal() {
			if p.PaymentStatus == outcome {
				result.Duplicate = true
			} else {
				log.Printf("[WARN] event %s utk payment %s diabaikan: status sudah terminal %s",
					notif.TransactionStatus, p.PaymentID, p.PaymentStatus)
				result.Ignored = "payment already terminal"
			}
			result.PaymentStatus = p.PaymentStatus
			return finishGatewayEvent(tx, ev, model.GatewayEventStatusSuccess, "")
		}

		// 7) Terapkan transisi + rekonsiliasi nominal
		paidIDR := parseGrossAmount(notif.GrossAmount)
		currency := notif.Currency
		if currency == "" {
			currency = "IDR"
		}
		if changed := p.ApplyOutcome(outcome, paidIDR, currency, now); changed {
			if notif.TransactionID != "" {
				txn := notif.TransactionID
				p.PaymentGatewayTxnID = &txn
			}
			if err := tx.Save(&p).Error; err != nil {
				return apperr.Wrap(err)
			}
		}
		result.PaymentStatus = p.PaymentStatus

		// 8) Sinyal sinkron ke Invoice State Machine (transaksi sama;
		//    payment sudah di-save, jadi SUM pembayaran di ledger ikut
		//    ngitung pelunasan barusan)
		var invStatus string
		switch outcome {
		case model.PaymentStatusPaid:
			invStatus, err = invoiceService.ApplyPaymentSettled(ctx, tx, p.PaymentOrderID)
		case model.PaymentStatusFailed, model.PaymentStatusExpired:
			invStatus, err = invoiceService.ApplyPaymentUnresolved(ctx, tx, p.PaymentOrderID)
		}
		if err != nil {
			return err
		}
		result.InvoiceStatus = invStatus

		// 9) Tandai event tuntas: commit bareng status payment
		if ev.GatewayEventPaymentID == nil {
			ev.GatewayEventPaymentID = &p.PaymentID
		}
		return finishGatewayEvent(tx, ev, model.GatewayEventStatusSuccess, "")
	})
	if err != nil {
		// Rollback ikut membuang insert event di atas; tulis jejak
		// failed di commit terpisah supaya listing triage tetap punya
		// row-nya (stdout saja tidak cukup buat triage manual).
		recordFailedEvent(ctx, db, notif, err)
		return nil, err
	}
	return &result, nil
}

/* ---------- Idempotency store ---------- */

// recordGatewayEvent insert event baru; kalau (provider, txn_id) sudah
// ada → dup=true + row-nya. Delivery baru untuk txn_id lama (status
// transaksi beda, atau proses sebelumnya belum tuntas) disegarkan ke
// processing dengan payload terbaru sebelum diproses ulang.
func recordGatewayEvent(ctx context.Context, tx *gorm.DB, notif *dto.MidtransNotification) (*model.PaymentGatewayEvent, bool, error) {
	payload, _ := json.Marshal(notif)
	sig := notif.SignatureKey

	ev := model.PaymentGatewayEvent{
		GatewayEventProvider:   model.GatewayProviderMidtrans,
		GatewayEventTxnID:      notif.TransactionID,
		GatewayEventOrderID:    notif.OrderID,
		GatewayEventTxnStatus:  notif.TransactionStatus,
		GatewayEventPayload:    datatypes.JSON(payload),
		GatewayEventSignature:  &sig,
		GatewayEventStatus:     model.GatewayEventStatusProcessing,
		GatewayEventReceivedAt: time.Now(),
	}
	if err := tx.WithContext(ctx).Create(&ev).Error; err != nil {
		if isDuplicate(err) || strings.Contains(strings.ToLower(err.Error()), "uq_gw_event_provider_txn") {
			var existing model.PaymentGatewayEvent
			if err2 := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&existing, "gateway_event_provider = ? AND gateway_event_txn_id = ?",
					model.GatewayProviderMidtrans, notif.TransactionID).Error; err2 != nil {
				return nil, false, apperr.Wrap(err2)
			}
			if !replayedEventIsNoop(&existing, notif.TransactionStatus) {
				now := time.Now()
				updates := map[string]any{
					"gateway_event_txn_status":   notif.TransactionStatus,
					"gateway_event_payload":      datatypes.JSON(payload),
					"gateway_event_signature":    sig,
					"gateway_event_status":       model.GatewayEventStatusProcessing,
					"gateway_event_received_at":  now,
					"gateway_event_processed_at": nil,
					"gateway_event_error":        nil,
				}
				if err3 := tx.Model(&model.PaymentGatewayEvent{}).
					Where("gateway_event_id = ?", existing.GatewayEventID).
					Updates(updates).Error; err3 != nil {
					return nil, false, apperr.Wrap(err3)
				}
				existing.GatewayEventTxnStatus = notif.TransactionStatus
				existing.GatewayEventStatus = model.GatewayEventStatusProcessing
				existing.GatewayEventProcessedAt = nil
				existing.GatewayEventError = nil
			}
			return &existing, true, nil
		}
		return nil, false, apperr.Wrap(err)
	}
	return &ev, false, nil
}

func finishGatewayEvent(tx *gorm.DB, ev *model.PaymentGatewayEvent, status, errMsg string) error {
	now := time.Now()
	updates := map[string]any{
		"gateway_event_status":       status,
		"gateway_event_processed_at": &now,
	}
	if errMsg != "" {
		updates["gateway_event_error"] = errMsg
	} else {
		updates["gateway_event_error"] = nil
	}
	if ev.GatewayEventPaymentID != nil {
		updates["gateway_event_payment_id"] = *ev.GatewayEventPaymentID
	}
	if err := tx.Model(&model.PaymentGatewayEvent{}).
		Where("gateway_event_id = ?", ev.GatewayEventID).
		Updates(updates).Error; err != nil {
		return apperr.Wrap(err)
	}
	ev.GatewayEventStatus = status
	ev.GatewayEventProcessedAt = &now
	return nil
}

// recordFailedEvent nyimpen jejak event yang gagal diproses DI LUAR
// transaksi utama (yang sudah di-rollback). Best effort: kegagalan di
// sini cuma di-log, balasan non-200 ke gateway tetap jalan.
func recordFailedEvent(ctx context.Context, db *gorm.DB, notif *dto.MidtransNotification, procErr error) {
	payload, _ := json.Marshal(notif)
	sig := notif.SignatureKey
	msg := procErr.Error()
	now := time.Now()

	ev := model.PaymentGatewayEvent{
		GatewayEventProvider:    model.GatewayProviderMidtrans,
		GatewayEventTxnID:       notif.TransactionID,
		GatewayEventOrderID:     notif.OrderID,
		GatewayEventTxnStatus:   notif.TransactionStatus,
		GatewayEventPayload:     datatypes.JSON(payload),
		GatewayEventSignature:   &sig,
		GatewayEventStatus:      model.GatewayEventStatusFailed,
		GatewayEventError:       &msg,
		GatewayEventReceivedAt:  now,
		GatewayEventProcessedAt: &now,
	}
	if err := db.WithContext(ctx).Create(&ev).Error; err == nil {
		return
	}
	// txn_id sudah punya row dari delivery sebelumnya: update jejaknya
	if err := db.WithContext(ctx).Model(&model.PaymentGatewayEvent{}).
		Where("gateway_event_provider = ? AND gateway_event_txn_id = ?",
			model.GatewayProviderMidtrans, notif.TransactionID).
		Updates(map[string]any{
			"gateway_event_txn_status":   notif.TransactionStatus,
			"gateway_event_status":       model.GatewayEventStatusFailed,
			"gateway_event_error":        msg,
			"gateway_event_processed_at": &now,
		}).Error; err != nil {
		log.Printf("[ERROR] gagal nyimpen jejak event webhook txn=%s: %v", notif.TransactionID, err)
	}
}

// parseGrossAmount: "500000.00" → 500000 (bulatkan setengah ke atas)
func parseGrossAmount(s string) int64 {
	amt, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int64(amt + 0.5)
}
