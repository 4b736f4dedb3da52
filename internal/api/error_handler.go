package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/stashspace/booking-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	// PaymentRef acknowledges a charge that went through even though the
	// request as a whole failed. Only set for post-charge persist failures.
	PaymentRef string `json:"payment_ref,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// The charge succeeded but the booking was never written. The request
	// must be acknowledged, never presented as a retryable validation
	// error: money has moved.
	var persistErr *domain.PostChargePersistError
	if errors.As(err, &persistErr) {
		log.Error().
			Err(err).
			Str("payment_id", persistErr.ReceiptID).
			Str("path", c.Path()).
			Msg("post-charge persist failure surfaced to API")
		return http.StatusInternalServerError, errorResponse{
			Error:      "booking could not be saved; your payment was received and will be reconciled",
			PaymentRef: persistErr.ReceiptID,
		}
	}

	var payErr *domain.PaymentError
	if errors.As(err, &payErr) {
		return http.StatusPaymentRequired, errorResponse{Error: payErr.Error()}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrSpaceNotFound):
		return http.StatusNotFound, errorResponse{Error: "space not found"}
	case errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound, errorResponse{Error: "booking not found"}
	case errors.Is(err, domain.ErrConversationNotFound):
		return http.StatusNotFound, errorResponse{Error: "conversation not found"}
	case errors.Is(err, domain.ErrInvalidWindow):
		return http.StatusUnprocessableEntity, errorResponse{Error: "from slot cannot be greater than to slot"}
	case errors.Is(err, domain.ErrSpaceUnavailable):
		return http.StatusConflict, errorResponse{Error: "space not available"}
	case errors.Is(err, domain.ErrSlotConflict):
		return http.StatusConflict, errorResponse{Error: "booking window overlaps an existing booking"}
	case errors.Is(err, domain.ErrIdempotencyConflict):
		return http.StatusConflict, errorResponse{Error: "idempotency key was already used with different booking parameters"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user already exists"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
