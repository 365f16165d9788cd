package model

import (
	"testing"
	"time"
)

func newPendingPayment() *Payment {
	return &Payment{
		PaymentStatus:    PaymentStatusPending,
		PaymentAmountIDR: 500000,
		PaymentCurrency:  "IDR",
	}
}

func TestApplyOutcome_PendingToPaid(t *testing.T) {
	p := newPendingPayment()
	now := time.Now()

	if !p.ApplyOutcome(PaymentStatusPaid, 500000, "IDR", now) {
		t.Fatal("transisi pending→paid harusnya dianggap perubahan")
	}
	if p.PaymentStatus != PaymentStatusPaid {
		t.Fatalf("status = %s, mau paid", p.PaymentStatus)
	}
	if p.PaymentPaidAt == nil || !p.PaymentPaidAt.Equal(now) {
		t.Fatal("paid_at harus terisi waktu transisi")
	}
	if p.PaymentPaidAmountIDR != 500000 {
		t.Fatalf("paid_amount = %d, mau 500000", p.PaymentPaidAmountIDR)
	}
	if p.PaymentPaidCurrency == nil || *p.PaymentPaidCurrency != "IDR" {
		t.Fatal("paid_currency harus IDR")
	}
}

func TestApplyOutcome_SameOutcomeIsNoop(t *testing.T) {
	p := newPendingPayment()
	now := time.Now()
	p.ApplyOutcome(PaymentStatusPaid, 500000, "IDR", now)
	firstPaidAt := *p.PaymentPaidAt

	if p.ApplyOutcome(PaymentStatusPaid, 500000, "IDR", now.Add(time.Hour)) {
		t.Fatal("outcome yang sama diulang harusnya no-op")
	}
	if !p.PaymentPaidAt.Equal(firstPaidAt) {
		t.Fatal("paid_at tidak boleh geser saat event duplikat")
	}
}

func TestApplyOutcome_UnknownOutcomeIgnored(t *testing.T) {
	p := newPendingPayment()
	if p.ApplyOutcome("refunded", 0, "", time.Now()) {
		t.Fatal("outcome tak dikenal tidak boleh mengubah state")
	}
	if p.PaymentStatus != PaymentStatusPending {
		t.Fatalf("status berubah jadi %s", p.PaymentStatus)
	}
}

func TestTerminalHelpers(t *testing.T) {
	cases := []struct {
		status       string
		wantOpen     bool
		wantTerminal bool
	}{
		{PaymentStatusPending, true, false},
		{PaymentStatusPaid, false, true},
		{PaymentStatusFailed, false, true},
		{PaymentStatusExpired, false, true},
	}
	for _, tc := range cases {
		p := &Payment{PaymentStatus: tc.status}
		if p.IsOpen() != tc.wantOpen {
			t.Errorf("IsOpen(%s) = %v", tc.status, p.IsOpen())
		}
		if p.IsTerminal() != tc.wantTerminal {
			t.Errorf("IsTerminal(%s) = %v", tc.status, p.IsTerminal())
		}
	}
}
