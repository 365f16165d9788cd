// file: internals/features/finance/invoices/service/ledger.go
package service

import (
	model "kargoku_backend/internals/features/finance/invoices/model"
)

/* =========================================================
   Amount Ledger: value object, murni hitung, tanpa I/O.
   Line SGD dikonversi pakai snapshot kurs milik line itu
   sendiri (kurs saat line dibuat), BUKAN kurs live.
========================================================= */

type LedgerLine struct {
	AmountIDR     int64
	AmountSGD     *float64
	RateIDRPerSGD *float64
}

type AmountLedger struct {
	BilledCurrency string
	Lines          []LedgerLine
	PaidIDR        int64
}

// NewLedger bangun ledger dari lines invoice + total pembayaran masuk
func NewLedger(lines []model.InvoiceLine, paidIDR int64) AmountLedger {
	ll := make([]LedgerLine, 0, len(lines))
	for i := range lines {
		ll = append(ll, LedgerLine{
			AmountIDR:     lines[i].InvoiceLineAmountIDR,
			AmountSGD:     lines[i].InvoiceLineAmountSGD,
			RateIDRPerSGD: lines[i].InvoiceLineRateIDRPerSGD,
		})
	}
	return AmountLedger{
		BilledCurrency: "IDR",
		Lines:          ll,
		PaidIDR:        paidIDR,
	}
}

// BilledIDR: total tagihan. Line IDR dipakai apa adanya; line SGD
// dikonversi dengan snapshot kursnya sendiri.
func (l AmountLedger) BilledIDR() int64 {
	var total int64
	for _, line := range l.Lines {
		if line.AmountIDR > 0 {
			total += line.AmountIDR
			continue
		}
		if line.AmountSGD != nil && line.RateIDRPerSGD != nil {
			total += convertSGDToIDR(*line.AmountSGD, *line.RateIDRPerSGD)
		}
	}
	return total
}

// OutstandingIDR: billed − paid. Bisa negatif kalau overpay;
// caller yang memutuskan mau clamp atau tidak.
func (l AmountLedger) OutstandingIDR() int64 {
	return l.BilledIDR() - l.PaidIDR
}

// settledOutstanding: sisa tagihan setelah pelunasan. Overpay tidak
// bikin saldo invoice negatif, sisanya dianggap 0.
func settledOutstanding(l AmountLedger) int64 {
	if out := l.OutstandingIDR(); out > 0 {
		return out
	}
	return 0
}

// convertSGDToIDR: pembulatan setengah ke atas ke rupiah utuh
func convertSGDToIDR(amountSGD, rateIDRPerSGD float64) int64 {
	return int64(amountSGD*rateIDRPerSGD + 0.5)
}
