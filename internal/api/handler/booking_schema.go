package handler

import "time"

type createBookingRequest struct {
	SpaceID    string    `json:"space_id" validate:"required"`
	CategoryID string    `json:"category_id" validate:"required"`
	From       time.Time `json:"from" validate:"required"`
	To         time.Time `json:"to" validate:"required"`
	RateHour   float64   `json:"rate_hour" validate:"required,gt=0"`
	Card       string    `json:"card" validate:"required"`
}

type createBookingResponse struct {
	Message        string  `json:"message"`
	BookingID      string  `json:"booking_id"`
	ConversationID string  `json:"conversation_id"`
	PaymentID      string  `json:"payment_id"`
	Price          float64 `json:"price"`
	AmountCents    int64   `json:"amount_cents"`
	CreatedAt      string  `json:"created_at"`
}

type bookingResponse struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	OwnerID     string   `json:"owner_id"`
	SpaceID     string   `json:"space_id"`
	CategoryID  string   `json:"category_id"`
	Managers    []string `json:"managers"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Price       float64  `json:"price"`
	AmountCents int64    `json:"amount_cents"`
	PaymentID   string   `json:"payment_id"`
	Payment     bool     `json:"payment"`
	CreatedAt   string   `json:"created_at"`
}

type listBookingsResponse struct {
	Bookings     []bookingResponse `json:"bookings"`
	Page         int               `json:"page"`
	TotalRecords int64             `json:"totalRecords"`
	TotalPages   int               `json:"totalPages"`
	Limit        int               `json:"limit"`
}
