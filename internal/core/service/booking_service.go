package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stashspace/booking-system/internal/core/domain"
	"github.com/stashspace/booking-system/internal/core/ports"
	"github.com/stashspace/booking-system/internal/metrics"
)

const defaultPageSize = 10

// BookingConfig tunes the coordinator.
type BookingConfig struct {
	// Currency is the ISO code charges are made in.
	Currency string
	// PageSize is the fixed page size for listings.
	PageSize int
	// RejectOverlap enables the double-booking check. Off by default:
	// spaces are not exclusively held unless the operator opts in.
	RejectOverlap bool
}

// BookingService orchestrates the reservation flow: validate, price,
// charge, and commit the booking together with its conversation in one
// transaction. It also serves read access to committed bookings.
type BookingService struct {
	users        ports.UserRepository
	spaces       ports.SpaceRepository
	bookings     ports.BookingRepository
	convs        ports.ConversationRepository
	bootstrapper ports.ConversationBootstrapper
	gateway      ports.PaymentGateway
	receipts     ports.ReceiptStore
	tx           ports.TxRunner
	notifier     ports.BookingNotifier
	cfg          BookingConfig
	logger       zerolog.Logger
}

func NewBookingService(
	users ports.UserRepository,
	spaces ports.SpaceRepository,
	bookings ports.BookingRepository,
	convs ports.ConversationRepository,
	bootstrapper ports.ConversationBootstrapper,
	gateway ports.PaymentGateway,
	receipts ports.ReceiptStore,
	tx ports.TxRunner,
	notifier ports.BookingNotifier,
	cfg BookingConfig,
	logger zerolog.Logger,
) *BookingService {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	return &BookingService{
		users:        users,
		spaces:       spaces,
		bookings:     bookings,
		convs:        convs,
		bootstrapper: bootstrapper,
		gateway:      gateway,
		receipts:     receipts,
		tx:           tx,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
	}
}

// CreateBooking runs one reservation attempt through the state machine
// validating → pricing → charging → persisting → committed.
//
// Everything before the charge fails with no side effects. The charge is
// issued exactly once; it is never retried here because a client-side
// timeout leaves the outcome unknown. After a successful charge the
// booking, its conversation, and the announcement message are persisted as
// one transaction; if that transaction aborts the attempt ends in the
// failed state and a *domain.PostChargePersistError carrying the receipt is
// returned for reconciliation.
func (s *BookingService) CreateBooking(ctx context.Context, input ports.CreateBookingInput) (*ports.BookingResult, error) {
	state := domain.StateValidating

	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, s.reject(state, "user_not_found", err)
	}
	space, err := s.spaces.FindByID(ctx, input.SpaceID)
	if err != nil {
		return nil, s.reject(state, "space_not_found", err)
	}
	if !space.Available {
		return nil, s.reject(state, "space_unavailable", domain.ErrSpaceUnavailable)
	}
	if s.cfg.RejectOverlap {
		conflict, err := s.bookings.FindOverlapping(ctx, space.ID, input.From, input.To)
		if err != nil {
			return nil, fmt.Errorf("create booking: overlap check: %w", err)
		}
		if conflict {
			return nil, s.reject(state, "slot_conflict", domain.ErrSlotConflict)
		}
	}

	state = s.advance(state, domain.StatePricing)
	quote, err := PriceWindow(input.RateHour, input.From, input.To)
	if err != nil {
		return nil, s.reject(state, "invalid_window", err)
	}

	state = s.advance(state, domain.StateCharging)
	receipt, err := s.charge(ctx, user, input, quote)
	if err != nil {
		if errors.Is(err, domain.ErrIdempotencyConflict) {
			return nil, s.reject(state, "idempotency_conflict", err)
		}
		metrics.BookingErrorsTotal.WithLabelValues("payment_failed").Inc()
		return nil, fmt.Errorf("create booking: %w", err)
	}

	now := time.Now().UTC()
	booking := &domain.Booking{
		ID:          primitive.NewObjectID().Hex(),
		UserID:      user.ID,
		OwnerID:     space.UserID,
		SpaceID:     space.ID,
		CategoryID:  input.CategoryID,
		Managers:    append([]string(nil), space.Managers...),
		From:        input.From,
		To:          input.To,
		Price:       quote.Price,
		AmountCents: receipt.AmountCents,
		PaymentID:   receipt.ID,
		Payment:     true,
		CreatedAt:   now,
	}

	conv, reused, err := s.bootstrapper.Bootstrap(ctx, user.ID, space.UserID, space.Managers)
	if err != nil {
		return nil, s.persistFailure(state, receipt.ID, err)
	}

	msg := &domain.Message{
		ID:             primitive.NewObjectID().Hex(),
		ConversationID: conv.ID,
		Sender:         space.UserID,
		Body:           fmt.Sprintf("%s your booking has been created", user.FullName),
		CreatedAt:      now,
	}

	state = s.advance(state, domain.StatePersisting)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if !reused {
			if err := s.convs.Create(ctx, conv); err != nil {
				return fmt.Errorf("persist conversation: %w", err)
			}
		}
		if err := s.convs.CreateMessage(ctx, msg); err != nil {
			return fmt.Errorf("persist message: %w", err)
		}
		if err := s.bookings.Create(ctx, booking); err != nil {
			return fmt.Errorf("persist booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.persistFailure(state, receipt.ID, err)
	}

	state = s.advance(state, domain.StateCommitted)
	metrics.BookingsCreatedTotal.WithLabelValues(booking.CategoryID).Inc()
	s.logger.Info().
		Str("booking_id", booking.ID).
		Str("space_id", space.ID).
		Str("payment_id", receipt.ID).
		Float64("price", booking.Price).
		Msg("booking committed")

	if s.notifier != nil {
		s.notifier.BookingCreated(ports.BookingCreatedEvent{
			EventID:        uuid.NewString(),
			BookingID:      booking.ID,
			ConversationID: conv.ID,
			UserID:         user.ID,
			OwnerID:        space.UserID,
			Managers:       booking.Managers,
			OccurredAt:     now,
		})
	}

	return &ports.BookingResult{
		BookingID:      booking.ID,
		ConversationID: conv.ID,
		PaymentID:      receipt.ID,
		Price:          booking.Price,
		AmountCents:    booking.AmountCents,
		CreatedAt:      booking.CreatedAt,
	}, nil
}

// charge issues the gateway call, at most once per idempotency key. When a
// key is supplied and a receipt is already on file (a retry after a persist
// failure), the stored receipt is reused instead of charging again. Reuse is
// only valid for an identical charge: the booking record must carry the
// amount the gateway actually took, so a retry whose recomputed quote
// disagrees with the stored receipt fails with ErrIdempotencyConflict
// rather than booking an amount that was never charged.
func (s *BookingService) charge(ctx context.Context, user *domain.User, input ports.CreateBookingInput, quote Quote) (*ports.ChargeReceipt, error) {
	if input.IdempotencyKey != "" && s.receipts != nil {
		stored, err := s.receipts.Get(ctx, input.IdempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Msg("receipt store lookup failed, charging anyway")
		} else if stored != nil {
			if stored.AmountCents != quote.AmountCents || stored.Currency != s.cfg.Currency {
				s.logger.Error().
					Str("payment_id", stored.ID).
					Str("idempotency_key", input.IdempotencyKey).
					Int64("charged_cents", stored.AmountCents).
					Int64("requested_cents", quote.AmountCents).
					Msg("idempotency key replayed with different charge parameters")
				return nil, domain.ErrIdempotencyConflict
			}
			s.logger.Info().Str("payment_id", stored.ID).Str("idempotency_key", input.IdempotencyKey).Msg("reusing receipt for replayed booking")
			return stored, nil
		}
	}

	start := time.Now()
	receipt, err := s.gateway.Charge(ctx, ports.ChargeInput{
		CustomerRef:    user.CustomerRef,
		AmountCents:    quote.AmountCents,
		Currency:       s.cfg.Currency,
		Source:         input.Card,
		Description:    fmt.Sprintf("%s space reservation", user.Email),
		IdempotencyKey: input.IdempotencyKey,
	})
	metrics.ChargeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	if input.IdempotencyKey != "" && s.receipts != nil {
		if err := s.receipts.Put(ctx, input.IdempotencyKey, *receipt); err != nil {
			s.logger.Warn().Err(err).Str("payment_id", receipt.ID).Msg("failed to record receipt for idempotency key")
		}
	}
	return receipt, nil
}

// reject ends an attempt before any external side effect.
func (s *BookingService) reject(from domain.AttemptState, reason string, err error) error {
	s.advance(from, domain.StateRejected)
	metrics.BookingErrorsTotal.WithLabelValues(reason).Inc()
	return fmt.Errorf("create booking: %w", err)
}

// persistFailure ends an attempt after money has moved. The receipt rides
// on the error so an operator or reconciliation job can refund or replay.
func (s *BookingService) persistFailure(from domain.AttemptState, receiptID string, err error) error {
	s.advance(from, domain.StateFailed)
	metrics.PostChargePersistFailuresTotal.Inc()
	s.logger.Error().
		Err(err).
		Str("payment_id", receiptID).
		Msg("booking persist failed after successful charge, reconciliation required")
	return &domain.PostChargePersistError{ReceiptID: receiptID, Err: err}
}

func (s *BookingService) advance(from, to domain.AttemptState) domain.AttemptState {
	if !from.CanTransitionTo(to) {
		s.logger.Warn().Str("from", string(from)).Str("to", string(to)).Msg("unexpected attempt state transition")
	}
	return to
}

// GetBooking returns a single committed booking by id.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*ports.BookingSummary, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	summary := toBookingSummary(b)
	return &summary, nil
}

// ListBookings returns one page of committed bookings for the requested
// scope. An empty page is a valid result.
func (s *BookingService) ListBookings(ctx context.Context, input ports.ListBookingsInput) (*ports.ListBookingsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}

	items, total, err := s.bookings.List(ctx, ports.ListBookingsFilter{
		UserID:     input.UserID,
		OwnerID:    input.OwnerID,
		ManagerID:  input.ManagerID,
		SpaceID:    input.SpaceID,
		CategoryID: input.CategoryID,
		Page:       page,
		Limit:      s.cfg.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	summaries := make([]ports.BookingSummary, 0, len(items))
	for _, b := range items {
		summaries = append(summaries, toBookingSummary(b))
	}

	totalPages := int((total + int64(s.cfg.PageSize) - 1) / int64(s.cfg.PageSize))
	return &ports.ListBookingsResult{
		Items:        summaries,
		Page:         page,
		TotalRecords: total,
		TotalPages:   totalPages,
		Limit:        s.cfg.PageSize,
	}, nil
}

func toBookingSummary(b *domain.Booking) ports.BookingSummary {
	return ports.BookingSummary{
		ID:          b.ID,
		UserID:      b.UserID,
		OwnerID:     b.OwnerID,
		SpaceID:     b.SpaceID,
		CategoryID:  b.CategoryID,
		Managers:    b.Managers,
		From:        b.From,
		To:          b.To,
		Price:       b.Price,
		AmountCents: b.AmountCents,
		PaymentID:   b.PaymentID,
		Payment:     b.Payment,
		CreatedAt:   b.CreatedAt,
	}
}
