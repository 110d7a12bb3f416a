package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"voltkart/internal/domain"
)

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrBookingNumberExists = errors.New("booking with this booking number already exists")
)

// BookingRepository defines the interface for booking data access. Bookings
// are historical records: never deleted, only transitioned through status.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	List(ctx context.Context, userID *int64) ([]domain.Booking, error)
	FindByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
}

type bookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new instance of BookingRepository
func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, user_id, service_id, booking_number, status, preferred_date,
	preferred_time, address, phone, notes, total_amount, created_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (*domain.Booking, error) {
	booking := &domain.Booking{}
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ServiceID,
		&booking.BookingNumber,
		&booking.Status,
		&booking.PreferredDate,
		&booking.PreferredTime,
		&booking.Address,
		&booking.Phone,
		&booking.Notes,
		&booking.TotalAmount,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Create inserts a new booking and fills in its assigned id and created_at
func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (user_id, service_id, booking_number, status, preferred_date,
			preferred_time, address, phone, notes, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		booking.UserID,
		booking.ServiceID,
		booking.BookingNumber,
		booking.Status,
		booking.PreferredDate,
		booking.PreferredTime,
		booking.Address,
		booking.Phone,
		booking.Notes,
		booking.TotalAmount,
	).Scan(&booking.ID, &booking.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrBookingNumberExists
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// List retrieves bookings, optionally restricted to one user
func (r *bookingRepository) List(ctx context.Context, userID *int64) ([]domain.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings`, bookingColumns)
	args := []interface{}{}

	if userID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *userID)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

// FindByID retrieves a booking by ID
func (r *bookingRepository) FindByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}

	return booking, nil
}

// UpdateStatus writes a new status; legality is checked by the booking service
func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	query := fmt.Sprintf(`
		UPDATE bookings
		SET status = $1
		WHERE id = $2
		RETURNING %s
	`, bookingColumns)

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	return booking, nil
}
