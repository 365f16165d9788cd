package service

import (
	"testing"

	model "kargoku_backend/internals/features/finance/invoices/model"
)

func f64(v float64) *float64 { return &v }

func TestLedger_BilledIDR_MixedCurrencies(t *testing.T) {
	lines := []model.InvoiceLine{
		{InvoiceLineAmountIDR: 300000},
		{InvoiceLineAmountSGD: f64(100), InvoiceLineRateIDRPerSGD: f64(11500)},
		{InvoiceLineAmountIDR: 50000},
	}
	l := NewLedger(lines, 0)

	// 300000 + 100*11500 + 50000
	if got, want := l.BilledIDR(), int64(1500000); got != want {
		t.Fatalf("BilledIDR = %d, mau %d", got, want)
	}
}

func TestLedger_SGDSnapshotRatePerLine(t *testing.T) {
	// dua line SGD dengan kurs snapshot berbeda; masing-masing konversi
	// pakai kursnya sendiri, bukan kurs terakhir
	lines := []model.InvoiceLine{
		{InvoiceLineAmountSGD: f64(50), InvoiceLineRateIDRPerSGD: f64(11000)},
		{InvoiceLineAmountSGD: f64(50), InvoiceLineRateIDRPerSGD: f64(12000)},
	}
	l := NewLedger(lines, 0)

	if got, want := l.BilledIDR(), int64(50*11000+50*12000); got != want {
		t.Fatalf("BilledIDR = %d, mau %d", got, want)
	}
}

func TestLedger_RoundingHalfUp(t *testing.T) {
	cases := []struct {
		sgd  float64
		rate float64
		want int64
	}{
		{1.005, 1000, 1005},
		{0.333, 10000, 3330},
		{10.5551, 10000, 105551},
		{0.00005, 10000, 1}, // 0.5 dibulatkan ke atas
	}
	for _, tc := range cases {
		if got := convertSGDToIDR(tc.sgd, tc.rate); got != tc.want {
			t.Errorf("convertSGDToIDR(%v, %v) = %d, mau %d", tc.sgd, tc.rate, got, tc.want)
		}
	}
}

func TestLedger_OutstandingIDR(t *testing.T) {
	lines := []model.InvoiceLine{{InvoiceLineAmountIDR: 500000}}

	if got := NewLedger(lines, 0).OutstandingIDR(); got != 500000 {
		t.Fatalf("outstanding tanpa pembayaran = %d", got)
	}
	if got := NewLedger(lines, 500000).OutstandingIDR(); got != 0 {
		t.Fatalf("outstanding lunas = %d", got)
	}
	// overpay: negatif, tidak di-clamp di level ledger
	if got := NewLedger(lines, 600000).OutstandingIDR(); got != -100000 {
		t.Fatalf("outstanding overpay = %d, mau -100000", got)
	}
}

func TestSettledOutstanding_SumsAllPaidPayments(t *testing.T) {
	lines := []model.InvoiceLine{{InvoiceLineAmountIDR: 500000}}

	// satu pembayaran parsial: sisa masih ada
	if got := settledOutstanding(NewLedger(lines, 200000)); got != 300000 {
		t.Fatalf("sisa setelah pembayaran parsial = %d, mau 300000", got)
	}
	// dua pembayaran paid (200000 + 300000) menutup tagihan; ledger
	// memakai SUM seluruh pembayaran, bukan nominal event terakhir saja
	if got := settledOutstanding(NewLedger(lines, 200000+300000)); got != 0 {
		t.Fatalf("sisa setelah dua pembayaran = %d, mau 0", got)
	}
	// overpay: saldo invoice tidak boleh minus
	if got := settledOutstanding(NewLedger(lines, 600000)); got != 0 {
		t.Fatalf("sisa saat overpay = %d, mau 0", got)
	}
}

func TestLedger_EmptyLines(t *testing.T) {
	l := NewLedger(nil, 0)
	if l.BilledIDR() != 0 || l.OutstandingIDR() != 0 {
		t.Fatal("ledger kosong harus 0")
	}
}
