package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{InvalidErr("input salah", nil), fiber.StatusBadRequest},
		{NotFoundErr("tidak ada"), fiber.StatusNotFound},
		{UnauthorizedErr("signature salah"), fiber.StatusUnauthorized},
		{ForbiddenErr("role tidak cukup"), fiber.StatusForbidden},
		{ConflictErr("status tidak cocok", nil), fiber.StatusConflict},
		{PartialCancellationErr("payment", errors.New("db down")), fiber.StatusConflict},
		{UnmappedStatusErr("refund"), fiber.StatusUnprocessableEntity},
		{UpstreamErr("gateway mati", errors.New("timeout")), fiber.StatusBadGateway},
		{Wrap(errors.New("kolom tidak ada")), fiber.StatusInternalServerError},
		{errors.New("error polos"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, mau %d", tc.err, got, tc.want)
		}
	}
}

func TestAs_UnwrapsThroughFmtErrorf(t *testing.T) {
	inner := ConflictErr("status tidak cocok", map[string]string{"action": "submit"})
	wrapped := fmt.Errorf("apply action: %w", inner)

	ae, ok := As(wrapped)
	if !ok {
		t.Fatal("As harus nembus %w")
	}
	if ae.Kind != Conflict {
		t.Fatalf("kind = %s", ae.Kind)
	}
	if ae.Fields["action"] != "submit" {
		t.Fatal("fields hilang saat unwrap")
	}
}

func TestIsKind(t *testing.T) {
	err := UnmappedStatusErr("chargeback")
	if !IsKind(err, UnmappedStatus) {
		t.Fatal("IsKind(UnmappedStatus) harus true")
	}
	if IsKind(err, Conflict) {
		t.Fatal("IsKind kind lain harus false")
	}
	if IsKind(nil, Conflict) {
		t.Fatal("IsKind(nil) harus false")
	}
}

func TestPartialCancellationErr_CarriesFailedStep(t *testing.T) {
	err := PartialCancellationErr("invoice", errors.New("lock timeout"))
	ae, ok := As(err)
	if !ok {
		t.Fatal("bukan AppError")
	}
	if ae.Fields["failed_step"] != "invoice" {
		t.Fatalf("failed_step = %q", ae.Fields["failed_step"])
	}
	if !errors.Is(err, ae.Err) {
		t.Fatal("error asli harus bisa di-unwrap")
	}
}

func TestPublicMessage_HidesInternalDetail(t *testing.T) {
	err := Wrap(errors.New("pq: column payment_x does not exist"))
	msg := PublicMessage(err)
	if msg == "" {
		t.Fatal("pesan publik kosong")
	}
	if msg == err.Err.Error() {
		t.Fatal("detail internal bocor ke pesan publik")
	}
}
