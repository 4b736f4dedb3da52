package handler

import (
	"time"

	"github.com/stashspace/booking-system/internal/core/ports"
)

func toBookingResponse(b ports.BookingSummary) bookingResponse {
	return bookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		OwnerID:     b.OwnerID,
		SpaceID:     b.SpaceID,
		CategoryID:  b.CategoryID,
		Managers:    b.Managers,
		From:        b.From.Format(time.RFC3339),
		To:          b.To.Format(time.RFC3339),
		Price:       b.Price,
		AmountCents: b.AmountCents,
		PaymentID:   b.PaymentID,
		Payment:     b.Payment,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
}

func toListBookingsResponse(res *ports.ListBookingsResult) listBookingsResponse {
	items := make([]bookingResponse, 0, len(res.Items))
	for _, b := range res.Items {
		items = append(items, toBookingResponse(b))
	}
	return listBookingsResponse{
		Bookings:     items,
		Page:         res.Page,
		TotalRecords: res.TotalRecords,
		TotalPages:   res.TotalPages,
		Limit:        res.Limit,
	}
}
