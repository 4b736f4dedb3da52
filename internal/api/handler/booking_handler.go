package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stashspace/booking-system/internal/core/ports"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create handles POST /v1/bookings.
//
// @Summary      Create a booking (charges the payment source)
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Key to make charge retries safe"
// @Param        body             body      createBookingRequest  true   "Booking details"
// @Success      201              {object}  createBookingResponse
// @Failure      402              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Failure      422              {object}  map[string]string
// @Failure      500              {object}  map[string]string
// @Router       /v1/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	result, err := h.service.CreateBooking(c.Request().Context(), ports.CreateBookingInput{
		UserID:         userID,
		SpaceID:        req.SpaceID,
		CategoryID:     req.CategoryID,
		From:           req.From,
		To:             req.To,
		RateHour:       req.RateHour,
		Card:           req.Card,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createBookingResponse{
		Message:        "Booking created successfully",
		BookingID:      result.BookingID,
		ConversationID: result.ConversationID,
		PaymentID:      result.PaymentID,
		Price:          result.Price,
		AmountCents:    result.AmountCents,
		CreatedAt:      result.CreatedAt.Format(time.RFC3339),
	})
}

// Get handles GET /v1/bookings/:id.
//
// @Summary      Get a booking by id
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  bookingResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	booking, err := h.service.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingResponse(*booking))
}

// ListAll handles GET /v1/bookings, the unscoped admin listing.
//
// @Summary      List all bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page (1-based)"
// @Param        filter_by  query     string  false  "Category id filter"
// @Success      200        {object}  listBookingsResponse
// @Failure      403        {object}  map[string]string
// @Router       /v1/bookings [get]
func (h *BookingHandler) ListAll(c echo.Context) error {
	return h.list(c, ports.ListBookingsInput{})
}

// ListByUser handles GET /v1/users/:userId/bookings.
//
// @Summary      List a requester's bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        userId     path      string  true   "Requester user id"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        filter_by  query     string  false  "Category id filter"
// @Success      200        {object}  listBookingsResponse
// @Router       /v1/users/{userId}/bookings [get]
func (h *BookingHandler) ListByUser(c echo.Context) error {
	return h.list(c, ports.ListBookingsInput{UserID: c.Param("userId")})
}

// ListByOwner handles GET /v1/owners/:ownerId/bookings.
//
// @Summary      List bookings against an owner's spaces
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        ownerId    path      string  true   "Owner user id"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        filter_by  query     string  false  "Category id filter"
// @Success      200        {object}  listBookingsResponse
// @Router       /v1/owners/{ownerId}/bookings [get]
func (h *BookingHandler) ListByOwner(c echo.Context) error {
	return h.list(c, ports.ListBookingsInput{OwnerID: c.Param("ownerId")})
}

// ListByManager handles GET /v1/managers/:managerId/bookings. The manager
// scope matches the snapshot taken at booking time, not the space's current
// manager set.
//
// @Summary      List bookings a manager was delegated on
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        managerId  path      string  true   "Manager user id"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        filter_by  query     string  false  "Category id filter"
// @Success      200        {object}  listBookingsResponse
// @Router       /v1/managers/{managerId}/bookings [get]
func (h *BookingHandler) ListByManager(c echo.Context) error {
	return h.list(c, ports.ListBookingsInput{ManagerID: c.Param("managerId")})
}

// ListBySpace handles GET /v1/spaces/:spaceId/bookings.
//
// @Summary      List bookings for a space
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        spaceId    path      string  true   "Space id"
// @Param        page       query     int     false  "Page (1-based)"
// @Success      200        {object}  listBookingsResponse
// @Router       /v1/spaces/{spaceId}/bookings [get]
func (h *BookingHandler) ListBySpace(c echo.Context) error {
	return h.list(c, ports.ListBookingsInput{SpaceID: c.Param("spaceId")})
}

func (h *BookingHandler) list(c echo.Context, input ports.ListBookingsInput) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	input.Page = page
	input.CategoryID = c.QueryParam("filter_by")

	result, err := h.service.ListBookings(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListBookingsResponse(result))
}
