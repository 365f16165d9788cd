package service

import (
	"testing"
	"time"

	dto "kargoku_backend/internals/features/finance/payments/dto"
	model "kargoku_backend/internals/features/finance/payments/model"
	"kargoku_backend/internals/shared/apperr"
)

const testServerKey = "SB-Mid-server-testkey-123"

func validNotification() *dto.MidtransNotification {
	n := &dto.MidtransNotification{
		OrderID:           "KGX-20260829-AB12CD34",
		StatusCode:        "200",
		GrossAmount:       "500000.00",
		TransactionStatus: "settlement",
		TransactionID:     "txn-001",
	}
	n.SignatureKey = sha512sum(n.OrderID + n.StatusCode + n.GrossAmount + testServerKey)
	return n
}

func TestVerifyMidtransSignature_Valid(t *testing.T) {
	n := validNotification()
	if err := VerifyMidtransSignature(n, testServerKey); err != nil {
		t.Fatalf("signature valid ditolak: %v", err)
	}
}

func TestVerifyMidtransSignature_Tampered(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(n *dto.MidtransNotification)
	}{
		{"gross amount diubah", func(n *dto.MidtransNotification) { n.GrossAmount = "1.00" }},
		{"order id diubah", func(n *dto.MidtransNotification) { n.OrderID = "KGX-20260829-LAIN" }},
		{"status code diubah", func(n *dto.MidtransNotification) { n.StatusCode = "201" }},
		{"signature kosong", func(n *dto.MidtransNotification) { n.SignatureKey = "" }},
		{"signature acak", func(n *dto.MidtransNotification) { n.SignatureKey = "deadbeef" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := validNotification()
			tc.mutate(n)
			err := VerifyMidtransSignature(n, testServerKey)
			if err == nil {
				t.Fatal("payload yang diubah harusnya ditolak")
			}
			if !apperr.IsKind(err, apperr.Unauthorized) {
				t.Fatalf("kind = %v, mau Unauthorized", err)
			}
		})
	}
}

func TestVerifyMidtransSignature_WrongKey(t *testing.T) {
	n := validNotification()
	if err := VerifyMidtransSignature(n, "server-key-lain"); err == nil {
		t.Fatal("signature dengan key berbeda harusnya ditolak")
	}
}

func TestMapGatewayStatus(t *testing.T) {
	cases := []struct {
		txnStatus   string
		fraudStatus string
		wantOutcome string
		wantEcho    bool
		wantErr     bool
	}{
		{"settlement", "", model.PaymentStatusPaid, false, false},
		{"capture", "accept", model.PaymentStatusPaid, false, false},
		{"capture", "", model.PaymentStatusPaid, false, false},
		{"capture", "challenge", "", true, false},
		{"capture", "deny", model.PaymentStatusFailed, false, false},
		{"pending", "", "", true, false},
		{"deny", "", model.PaymentStatusFailed, false, false},
		{"cancel", "", model.PaymentStatusFailed, false, false},
		{"failure", "", model.PaymentStatusFailed, false, false},
		{"expire", "", model.PaymentStatusExpired, false, false},
		{"SETTLEMENT", "", model.PaymentStatusPaid, false, false}, // case-insensitive
		{"refund", "", "", false, true},                           // belum dikenal → fail closed
		{"", "", "", false, true},
	}
	for _, tc := range cases {
		outcome, echo, err := MapGatewayStatus(tc.txnStatus, tc.fraudStatus)
		if tc.wantErr {
			if err == nil {
				t.Errorf("MapGatewayStatus(%q,%q): mau error, dapat outcome=%q", tc.txnStatus, tc.fraudStatus, outcome)
			} else if !apperr.IsKind(err, apperr.UnmappedStatus) {
				t.Errorf("MapGatewayStatus(%q,%q): kind salah: %v", tc.txnStatus, tc.fraudStatus, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("MapGatewayStatus(%q,%q): error tak terduga: %v", tc.txnStatus, tc.fraudStatus, err)
			continue
		}
		if outcome != tc.wantOutcome || echo != tc.wantEcho {
			t.Errorf("MapGatewayStatus(%q,%q) = (%q,%v), mau (%q,%v)",
				tc.txnStatus, tc.fraudStatus, outcome, echo, tc.wantOutcome, tc.wantEcho)
		}
	}
}

func completedEvent(txnStatus string) *model.PaymentGatewayEvent {
	now := time.Now()
	return &model.PaymentGatewayEvent{
		GatewayEventProvider:    model.GatewayProviderMidtrans,
		GatewayEventTxnID:       "txn-001",
		GatewayEventTxnStatus:   txnStatus,
		GatewayEventStatus:      model.GatewayEventStatusSuccess,
		GatewayEventProcessedAt: &now,
	}
}

func TestReplayedEventIsNoop(t *testing.T) {
	// settlement dikirim ulang persis → boleh di-skip
	if !replayedEventIsNoop(completedEvent("settlement"), "settlement") {
		t.Error("pengiriman ulang settlement yang identik harusnya no-op")
	}
	if !replayedEventIsNoop(completedEvent("SETTLEMENT"), "settlement") {
		t.Error("perbandingan txn_status harusnya case-insensitive")
	}

	// echo pending sudah tuntas, lalu settlement datang dengan
	// transaction_id yang SAMA: itu delivery baru, wajib diproses
	if replayedEventIsNoop(completedEvent("pending"), "settlement") {
		t.Error("settlement setelah echo pending tidak boleh dianggap replay")
	}

	// proses sebelumnya belum tuntas → masuk lagi ke state machine
	inflight := &model.PaymentGatewayEvent{
		GatewayEventTxnStatus: "settlement",
		GatewayEventStatus:    model.GatewayEventStatusProcessing,
	}
	if replayedEventIsNoop(inflight, "settlement") {
		t.Error("event yang belum tuntas harusnya diproses ulang, bukan di-skip")
	}
	failed := completedEvent("settlement")
	failed.GatewayEventStatus = model.GatewayEventStatusFailed
	if replayedEventIsNoop(failed, "settlement") {
		t.Error("event yang gagal harusnya diproses ulang, bukan di-skip")
	}
}

// Skenario VA lengkap: echo pending saat VA dibuat, settlement dengan
// transaction_id yang sama, lalu settlement dikirim ulang.
func TestNotificationSequence_EchoThenSettlementThenReplay(t *testing.T) {
	now := time.Now()
	p := &model.Payment{PaymentStatus: model.PaymentStatusPending}

	// 1) echo pending: dikenal tapi bukan transisi
	outcome, echo, err := MapGatewayStatus("pending", "")
	if err != nil || !echo || outcome != "" {
		t.Fatalf("pending = (%q,%v,%v), mau echo tanpa outcome", outcome, echo, err)
	}
	if p.PaymentStatus != model.PaymentStatusPending {
		t.Fatalf("echo tidak boleh mengubah status, dapat %s", p.PaymentStatus)
	}

	// 2) settlement setelah echo: row event txn-001 sudah ada dan tuntas
	//    dengan txn_status pending, tapi status yang datang beda, jadi
	//    bukan replay dan transisi paid tetap jalan
	if replayedEventIsNoop(completedEvent("pending"), "settlement") {
		t.Fatal("settlement setelah echo pending harusnya tetap diproses")
	}
	outcome, echo, err = MapGatewayStatus("settlement", "")
	if err != nil || echo {
		t.Fatalf("settlement = (%q,%v,%v), mau outcome paid", outcome, echo, err)
	}
	if !p.ApplyOutcome(outcome, 500000, "IDR", now) {
		t.Fatal("settlement pertama harusnya mengubah payment")
	}
	if p.PaymentStatus != model.PaymentStatusPaid || p.PaymentPaidAmountIDR != 500000 {
		t.Fatalf("setelah settlement: status=%s paid=%d", p.PaymentStatus, p.PaymentPaidAmountIDR)
	}

	// 3) settlement dikirim ulang: kena dedupe (row tuntas + status sama)...
	if !replayedEventIsNoop(completedEvent("settlement"), "settlement") {
		t.Fatal("settlement kedua yang identik harusnya no-op")
	}
	// ...dan kalaupun lolos ke state machine, transisinya tetap no-op
	if p.ApplyOutcome(model.PaymentStatusPaid, 500000, "IDR", now.Add(time.Minute)) {
		t.Fatal("settlement ulang tidak boleh mengubah payment lagi")
	}

	// 4) deny yang telat: status terminal beku, handler membuang event
	//    sebelum ApplyOutcome dipanggil
	if !p.IsTerminal() {
		t.Fatal("payment paid harusnya terminal, event telat wajib dibuang")
	}
	if p.PaymentStatus != model.PaymentStatusPaid {
		t.Fatalf("status akhir %s, mau tetap paid", p.PaymentStatus)
	}
}

func TestParseGrossAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"500000.00", 500000},
		{"500000", 500000},
		{"1250000.49", 1250000},
		{"1250000.50", 1250001},
		{" 99000.00 ", 99000},
		{"bukan-angka", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := parseGrossAmount(tc.in); got != tc.want {
			t.Errorf("parseGrossAmount(%q) = %d, mau %d", tc.in, got, tc.want)
		}
	}
}
