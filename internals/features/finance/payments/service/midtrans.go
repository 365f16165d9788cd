package service

import (
	"context"
	"strings"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"

	"kargoku_backend/internals/constants"
	"kargoku_backend/internals/shared/apperr"
)

/* =========================================================
   Midtrans Core API Client
========================================================= */

var (
	CoreClient coreapi.Client

	// serverKey dipakai juga untuk verifikasi signature webhook
	serverKey string
)

// InitMidtrans harus dipanggil saat bootstrap app.
// useProduction=true untuk Production, false untuk Sandbox.
func InitMidtrans(key string, useProduction bool) {
	serverKey = key
	if useProduction {
		CoreClient.New(key, midtrans.Production)
	} else {
		CoreClient.New(key, midtrans.Sandbox)
	}
}

// MidtransServerKey buat verifikasi signature di webhook service
func MidtransServerKey() string { return serverKey }

/* =========================================================
   Charge VA (bank_transfer)
========================================================= */

// mapping kode channel internal → bank Midtrans
var channelToBank = map[string]midtrans.Bank{
	constants.ChannelBCAVA:     midtrans.BankBca,
	constants.ChannelBNIVA:     midtrans.BankBni,
	constants.ChannelBRIVA:     midtrans.BankBri,
	constants.ChannelCIMBVA:    midtrans.BankCimb,
	constants.ChannelPermataVA: midtrans.BankPermata,
}

// VAChargeResult: hasil charge yang dipakai issuer
type VAChargeResult struct {
	TransactionID string
	VANumber      string
}

type chargeReply struct {
	resp *coreapi.ChargeResponse
	err  *midtrans.Error
}

// ChargeVirtualAccount panggil Core API charge bank_transfer.
// Timeout dibatasi ctx; timeout/err jaringan = upstream_unavailable,
// BUKAN failed: payment tidak boleh dianggap gagal hanya karena
// gateway tidak bisa dihubungi.
func ChargeVirtualAccount(ctx context.Context, trackingNumber string, amountIDR int64, channel string) (VAChargeResult, error) {
	bank, ok := channelToBank[channel]
	if !ok {
		return VAChargeResult{}, apperr.InvalidErr("channel pembayaran tidak dikenali: "+channel, map[string]string{
			"channel": channel,
		})
	}

	req := &coreapi.ChargeReq{
		PaymentType: coreapi.PaymentTypeBankTransfer,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  trackingNumber,
			GrossAmt: amountIDR,
		},
		BankTransfer: &coreapi.BankTransferDetails{
			Bank: bank,
		},
	}

	// SDK tidak menerima ctx; jalankan di goroutine supaya timeout tetap terjaga
	ch := make(chan chargeReply, 1)
	go func() {
		resp, err := CoreClient.ChargeTransaction(req)
		ch <- chargeReply{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return VAChargeResult{}, apperr.UpstreamErr("gateway pembayaran tidak merespons", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return VAChargeResult{}, apperr.UpstreamErr("gagal membuat virtual account di gateway", r.err)
		}
		return VAChargeResult{
			TransactionID: r.resp.TransactionID,
			VANumber:      extractVANumber(r.resp),
		}, nil
	}
}

// extractVANumber: permata pakai field sendiri, bank lain di va_numbers
func extractVANumber(resp *coreapi.ChargeResponse) string {
	if resp == nil {
		return ""
	}
	if len(resp.VaNumbers) > 0 {
		return resp.VaNumbers[0].VANumber
	}
	return strings.TrimSpace(resp.PermataVaNumber)
}

// VAExpiryWindow: masa berlaku VA (default Midtrans 24 jam)
func VAExpiryWindow() time.Duration { return 24 * time.Hour }
