package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voltkart/internal/domain"
	"voltkart/internal/repository"
)

var ErrContactRequired = errors.New("booking requires an address and a phone number")

// BookingInput carries the fields of a new service booking. An empty
// BookingNumber asks the service to generate one.
type BookingInput struct {
	UserID        *int64
	ServiceID     *int64
	BookingNumber string
	PreferredDate *time.Time
	PreferredTime string
	Address       string
	Phone         string
	Notes         string
	TotalAmount   float64
}

// BookingService defines the interface for booking business logic
type BookingService interface {
	CreateBooking(ctx context.Context, in BookingInput) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID *int64) ([]domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
}

type bookingService struct {
	bookings repository.BookingRepository
}

// NewBookingService creates a new instance of BookingService
func NewBookingService(bookings repository.BookingRepository) BookingService {
	return &bookingService{bookings: bookings}
}

// CreateBooking validates and persists a new booking in the pending status.
// A technician needs somewhere to go and someone to call, so address and
// phone are required. ServiceID is kept as given even if the service has
// since been removed from the catalog.
func (s *bookingService) CreateBooking(ctx context.Context, in BookingInput) (*domain.Booking, error) {
	if in.Address == "" || in.Phone == "" {
		return nil, ErrContactRequired
	}

	booking := &domain.Booking{
		UserID:        in.UserID,
		ServiceID:     in.ServiceID,
		BookingNumber: in.BookingNumber,
		Status:        domain.BookingStatusPending,
		PreferredDate: in.PreferredDate,
		PreferredTime: in.PreferredTime,
		Address:       in.Address,
		Phone:         in.Phone,
		Notes:         in.Notes,
		TotalAmount:   in.TotalAmount,
	}

	generated := booking.BookingNumber == ""
	for attempt := 0; ; attempt++ {
		if generated {
			booking.BookingNumber = generateNumber("BKG")
		}

		err := s.bookings.Create(ctx, booking)
		if err == nil {
			break
		}
		if err == repository.ErrBookingNumberExists {
			if generated && attempt < numberAttempts-1 {
				continue
			}
			return nil, err
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, userID *int64) ([]domain.Booking, error) {
	return s.bookings.List(ctx, userID)
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.FindByID(ctx, id)
}

// UpdateStatus advances a booking through its lifecycle, rejecting unknown
// statuses and transitions the lifecycle does not allow
func (s *bookingService) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, ErrUnknownStatus
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, status)
	}

	return s.bookings.UpdateStatus(ctx, id, status)
}
