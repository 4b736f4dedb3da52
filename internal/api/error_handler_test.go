package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/stashspace/booking-system/internal/core/domain"
)

func render(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrSpaceNotFound, http.StatusNotFound},
		{domain.ErrBookingNotFound, http.StatusNotFound},
		{domain.ErrConversationNotFound, http.StatusNotFound},
		{domain.ErrInvalidWindow, http.StatusUnprocessableEntity},
		{domain.ErrSpaceUnavailable, http.StatusConflict},
		{domain.ErrSlotConflict, http.StatusConflict},
		{domain.ErrIdempotencyConflict, http.StatusConflict},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrUserExists, http.StatusConflict},
	}
	for _, tc := range cases {
		// wrapped the way services return them
		code, _ := render(t, fmt.Errorf("create booking: %w", tc.err))
		if code != tc.code {
			t.Errorf("%v: expected status %d, got %d", tc.err, tc.code, code)
		}
	}
}

func TestErrorHandler_PaymentErrorIs402(t *testing.T) {
	err := fmt.Errorf("create booking: %w", &domain.PaymentError{Reason: domain.ReasonCardDeclined})

	code, body := render(t, err)
	if code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", code)
	}
	if body.PaymentRef != "" {
		t.Error("a declined charge has no payment ref to acknowledge")
	}
}

func TestErrorHandler_PersistFailureAcknowledgesCharge(t *testing.T) {
	err := &domain.PostChargePersistError{ReceiptID: "ch_2", Err: errors.New("replica set unavailable")}

	code, body := render(t, err)
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.PaymentRef != "ch_2" {
		t.Errorf("expected payment ref ch_2 in the response, got %q", body.PaymentRef)
	}
}

func TestErrorHandler_UnknownErrorIsOpaque500(t *testing.T) {
	code, body := render(t, errors.New("something with internals in it"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Error != "internal server error" {
		t.Errorf("internal detail leaked: %q", body.Error)
	}
}

func TestErrorHandler_EchoHTTPErrorPassesThrough(t *testing.T) {
	code, body := render(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if body.Error != "Not Found" {
		t.Errorf("unexpected message %q", body.Error)
	}
}
