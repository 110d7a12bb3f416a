package domain

import "time"

// BookingStatus is the lifecycle state of a service booking
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// pending -> confirmed -> in_progress -> completed, cancellable until work starts.
var bookingTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusPending:    {BookingStatusConfirmed: true, BookingStatusCancelled: true},
	BookingStatusConfirmed:  {BookingStatusInProgress: true, BookingStatusCancelled: true},
	BookingStatusInProgress: {BookingStatusCompleted: true},
	BookingStatusCompleted:  {},
	BookingStatusCancelled:  {},
}

// Valid reports whether s is a known booking status
func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is legal
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return bookingTransitions[s][next]
}

// Booking is a scheduled service visit. It is a historical record: ServiceID
// is a weak reference that may dangle once the service is removed from the
// catalog. TotalAmount is caller-supplied, like an order's.
type Booking struct {
	ID            int64         `json:"id"`
	UserID        *int64        `json:"userId,omitempty"`
	ServiceID     *int64        `json:"serviceId,omitempty"`
	BookingNumber string        `json:"bookingNumber"`
	Status        BookingStatus `json:"status"`
	PreferredDate *time.Time    `json:"preferredDate,omitempty"`
	PreferredTime string        `json:"preferredTime,omitempty"`
	Address       string        `json:"address"`
	Phone         string        `json:"phone"`
	Notes         string        `json:"notes,omitempty"`
	TotalAmount   float64       `json:"totalAmount"`
	CreatedAt     time.Time     `json:"createdAt"`
}
