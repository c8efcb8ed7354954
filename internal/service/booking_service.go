package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/roomstay/bookings/internal/domain"
	"github.com/roomstay/bookings/internal/inventory"
	"github.com/roomstay/bookings/internal/lock"
	"github.com/roomstay/bookings/internal/repository"
	"github.com/roomstay/bookings/pkg/events"
	"github.com/roomstay/bookings/pkg/logger"
)

type BookingService interface {
	CreateBooking(ctx context.Context, req *domain.CreateBookingReq) (*domain.CreateBookingRes, error)
	CheckAvailability(ctx context.Context, req *domain.AvailabilityReq) ([]domain.RoomAvailability, error)
	ConfirmBooking(ctx context.Context, idempotencyKey string) (*domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id int64) (*domain.Booking, error)
}

type bookingService struct {
	bookingRepo     repository.BookingRepository
	idempotencyRepo repository.IdempotencyRepository
	locks           lock.Coordinator
	pricing         *PricingResolver
	inventory       inventory.Client
	eventBus        events.Publisher
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	idempotencyRepo repository.IdempotencyRepository,
	locks lock.Coordinator,
	pricing *PricingResolver,
	inventoryClient inventory.Client,
	eventBus events.Publisher,
) BookingService {
	return &bookingService{
		bookingRepo:     bookingRepo,
		idempotencyRepo: idempotencyRepo,
		locks:           locks,
		pricing:         pricing,
		inventory:       inventoryClient,
		eventBus:        eventBus,
	}
}

// CreateBooking runs the create flow: acquire the room lock, check the
// date range against active bookings, price the stay, persist a PENDING
// booking and mint its confirmation key. The room lock serializes
// creates per room; the guarded insert in the store is the
// authoritative exclusion guard if the lock TTL is outlived.
func (s *bookingService) CreateBooking(ctx context.Context, req *domain.CreateBookingReq) (*domain.CreateBookingRes, error) {
	checkIn, checkOut, issues := req.Validate(time.Now())
	if len(issues) > 0 {
		return nil, domain.ValidationError(issues...)
	}

	handle, err := s.locks.Acquire(ctx, lock.RoomResource(req.HotelID, req.RoomID))
	if err != nil {
		if errors.Is(err, lock.ErrContended) {
			return nil, domain.ConflictError("room is being booked by another request, try again")
		}
		return nil, domain.InternalError("failed to acquire room lock", err)
	}
	defer func() {
		// Best-effort; the TTL reclaims the lock if this fails.
		if err := s.locks.Release(context.WithoutCancel(ctx), handle); err != nil {
			logger.WarnContext(ctx, "Failed to release room lock", "resource", handle.Resource(), "error", err)
		}
	}()

	conflict, err := s.bookingRepo.HasDateConflict(ctx, req.RoomID, checkIn, checkOut)
	if err != nil {
		return nil, domain.InternalError("failed to check room availability", err)
	}
	if conflict {
		return nil, domain.ConflictError("room is not available for the selected dates")
	}

	quote, err := s.pricing.Quote(ctx, req.RoomID, checkIn, checkOut)
	if err != nil {
		if _, ok := domain.AsError(err); ok {
			return nil, err
		}
		return nil, domain.InternalError("failed to price booking", err)
	}

	booking, err := s.bookingRepo.Create(ctx, &domain.NewBooking{
		UserID:        req.UserID,
		HotelID:       req.HotelID,
		RoomID:        req.RoomID,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		TotalNights:   quote.TotalNights,
		PricePerNight: quote.PricePerNight,
		TotalAmount:   quote.TotalAmount,
		TotalGuests:   req.TotalGuests,
	})
	if err != nil {
		if _, ok := domain.AsError(err); ok {
			return nil, err
		}
		return nil, domain.InternalError("failed to create booking", err)
	}

	key, err := s.idempotencyRepo.Mint(ctx, booking.ID)
	if err != nil {
		return nil, domain.InternalError("failed to mint idempotency key", err)
	}

	event := events.BookingCreatedEvent{
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		HotelID:      booking.HotelID,
		RoomID:       booking.RoomID,
		CheckInDate:  booking.CheckInDate.Format(domain.DateLayout),
		CheckOutDate: booking.CheckOutDate.Format(domain.DateLayout),
		TotalAmount:  booking.TotalAmount,
		CreatedAt:    booking.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.BookingCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", booking.ID)
	}

	return &domain.CreateBookingRes{
		BookingID:      booking.ID,
		IdempotencyKey: key,
		TotalAmount:    booking.TotalAmount,
		TotalNights:    booking.TotalNights,
		PricePerNight:  booking.PricePerNight,
	}, nil
}

// CheckAvailability lists the hotel's rooms from the inventory service
// minus rooms with a conflicting active booking. The two lookups are
// independent and run concurrently.
func (s *bookingService) CheckAvailability(ctx context.Context, req *domain.AvailabilityReq) ([]domain.RoomAvailability, error) {
	checkIn, checkOut, issues := req.Validate(time.Now())
	if len(issues) > 0 {
		return nil, domain.ValidationError(issues...)
	}

	var (
		rooms     []inventory.Room
		bookedIDs []int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rooms, err = s.inventory.GetAvailableRooms(gctx, req.HotelID, checkIn, checkOut, req.RoomType)
		return err
	})
	g.Go(func() error {
		var err error
		bookedIDs, err = s.bookingRepo.BookedRoomIDs(gctx, req.HotelID, checkIn, checkOut)
		return err
	})
	if err := g.Wait(); err != nil {
		if _, ok := domain.AsError(err); ok {
			return nil, err
		}
		return nil, domain.InternalError("failed to check availability", err)
	}

	booked := make(map[int64]struct{}, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = struct{}{}
	}

	available := make([]domain.RoomAvailability, 0, len(rooms))
	for _, room := range rooms {
		if _, taken := booked[room.ID]; taken {
			continue
		}
		available = append(available, domain.RoomAvailability{
			RoomID:        room.ID,
			HotelID:       room.HotelID,
			RoomType:      room.RoomType,
			PricePerNight: room.PricePerNight,
			Available:     true,
		})
	}
	return available, nil
}

// ConfirmBooking finalizes the idempotency key and confirms its booking
// atomically. Retries against a finalized key are rejected, never
// replayed.
func (s *bookingService) ConfirmBooking(ctx context.Context, idempotencyKey string) (*domain.Booking, error) {
	if uuid.Validate(idempotencyKey) != nil {
		return nil, domain.ValidationError(domain.Issue{
			Field:   "idempotencyKey",
			Message: "idempotency key must be a valid UUID",
		})
	}

	booking, err := s.idempotencyRepo.ConfirmByKey(ctx, idempotencyKey)
	if err != nil {
		if _, ok := domain.AsError(err); ok {
			return nil, err
		}
		return nil, domain.InternalError("failed to confirm booking", err)
	}

	event := events.BookingConfirmedEvent{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		HotelID:     booking.HotelID,
		RoomID:      booking.RoomID,
		TotalAmount: booking.TotalAmount,
		ConfirmedAt: booking.UpdatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.BookingConfirmed, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking confirmed event", "error", err, "booking_id", booking.ID)
	}

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.InternalError("failed to get booking", err)
	}
	if booking == nil {
		return nil, domain.NotFoundError("booking not found")
	}
	return booking, nil
}

// CancelBooking moves a PENDING booking to CANCELLED. Confirmed
// bookings stay confirmed; there is no refund flow here.
func (s *bookingService) CancelBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.InternalError("failed to get booking", err)
	}
	if booking == nil {
		return nil, domain.NotFoundError("booking not found")
	}

	cancelled, err := s.bookingRepo.Cancel(ctx, id)
	if err != nil {
		return nil, domain.InternalError("failed to cancel booking", err)
	}
	if !cancelled {
		return nil, domain.ConflictError("only pending bookings can be cancelled")
	}
	booking.Status = domain.BookingCancelled

	event := events.BookingCancelledEvent{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		CancelledAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.BookingCancelled, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking cancelled event", "error", err, "booking_id", booking.ID)
	}

	return booking, nil
}
