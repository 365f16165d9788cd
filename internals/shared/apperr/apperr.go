package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind string

const (
	Invalid             Kind = "invalid"
	NotFound            Kind = "not_found"
	Unauthorized        Kind = "unauthorized"
	Forbidden           Kind = "forbidden"
	Conflict            Kind = "conflict"
	UnmappedStatus      Kind = "unmapped_status"
	UpstreamUnavailable Kind = "upstream_unavailable"
	PartialCancellation Kind = "partial_cancellation"
	Internal            Kind = "internal"
)

type AppError struct {
	Kind      Kind
	PublicMsg string            // pesan yang aman ditampilkan ke caller
	Fields    map[string]string // detail entitas/aksi/status (opsional)
	Err       error             // internal error (untuk log)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.PublicMsg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.PublicMsg)
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error { return e.Err }

/* ======== Constructors ======== */

func InvalidErr(publicMsg string, fields map[string]string) *AppError {
	return &AppError{Kind: Invalid, PublicMsg: publicMsg, Fields: fields}
}

func NotFoundErr(publicMsg string) *AppError {
	return &AppError{Kind: NotFound, PublicMsg: publicMsg}
}

func UnauthorizedErr(publicMsg string) *AppError {
	return &AppError{Kind: Unauthorized, PublicMsg: publicMsg}
}

func ForbiddenErr(publicMsg string) *AppError {
	return &AppError{Kind: Forbidden, PublicMsg: publicMsg}
}

func ConflictErr(publicMsg string, fields map[string]string) *AppError {
	return &AppError{Kind: Conflict, PublicMsg: publicMsg, Fields: fields}
}

func UnmappedStatusErr(statusCode string) *AppError {
	return &AppError{
		Kind:      UnmappedStatus,
		PublicMsg: "status gateway tidak dikenali: " + statusCode,
		Fields:    map[string]string{"transaction_status": statusCode},
	}
}

func UpstreamErr(publicMsg string, err error) *AppError {
	return &AppError{Kind: UpstreamUnavailable, PublicMsg: publicMsg, Err: err}
}

// PartialCancellationErr menyebut step mana yang gagal supaya approval bisa diulang.
func PartialCancellationErr(step string, err error) *AppError {
	return &AppError{
		Kind:      PartialCancellation,
		PublicMsg: "pembatalan belum tuntas, gagal di step: " + step,
		Fields:    map[string]string{"failed_step": step},
		Err:       err,
	}
}

// Wrap: internal error tanpa pesan publik (default 500)
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Kind: Internal, PublicMsg: "Terjadi kesalahan tak terduga.", Err: err}
}

/* ======== Inspectors ======== */

func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsKind(err error, k Kind) bool {
	if ae, ok := As(err); ok {
		return ae.Kind == k
	}
	return false
}

func HTTPStatus(err error) int {
	if ae, ok := As(err); ok {
		switch ae.Kind {
		case Invalid:
			return fiber.StatusBadRequest
		case Unauthorized:
			return fiber.StatusUnauthorized
		case Forbidden:
			return fiber.StatusForbidden
		case NotFound:
			return fiber.StatusNotFound
		case Conflict, PartialCancellation:
			return fiber.StatusConflict
		case UnmappedStatus:
			return fiber.StatusUnprocessableEntity
		case UpstreamUnavailable:
			return fiber.StatusBadGateway
		default:
			return fiber.StatusInternalServerError
		}
	}
	return fiber.StatusInternalServerError
}

func PublicMessage(err error) string {
	if ae, ok := As(err); ok && ae.PublicMsg != "" {
		return ae.PublicMsg
	}
	return "Terjadi kesalahan tak terduga."
}
