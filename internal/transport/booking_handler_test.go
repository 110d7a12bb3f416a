package transport

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"voltkart/internal/domain"
)

func createBooking(t *testing.T, env *testEnv, userID *int64) domain.Booking {
	t.Helper()

	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	w := env.do(t, http.MethodPost, "/api/bookings", CreateBookingRequest{
		UserID:        userID,
		ServiceID:     i64ptr(1),
		PreferredDate: &date,
		PreferredTime: "10:00-12:00",
		Address:       "42 Residency Road, Bangalore",
		Phone:         "9876543210",
		TotalAmount:   2999.00,
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created domain.Booking
	decodeSuccess(t, w, &created)
	return created
}

func TestCreateBookingAsGuest(t *testing.T) {
	env := newTestEnv(t)

	created := createBooking(t, env, nil)
	if created.ID == 0 {
		t.Fatal("created booking has no id")
	}
	if created.UserID != nil {
		t.Errorf("guest booking should have no user, got %v", *created.UserID)
	}
	if created.Status != domain.BookingStatusPending {
		t.Errorf("expected pending, got %s", created.Status)
	}
	if created.BookingNumber == "" {
		t.Error("expected a generated booking number")
	}
	if created.PreferredDate == nil || created.PreferredDate.Day() != 15 {
		t.Errorf("preferred date lost: %v", created.PreferredDate)
	}
}

func TestCreateBookingRequiresContactFields(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing address", map[string]interface{}{"phone": "9876543210"}},
		{"missing phone", map[string]interface{}{"address": "42 Residency Road"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/bookings", tc.body, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			envelope := decodeError(t, w)
			if len(envelope.Errors) == 0 {
				t.Error("expected field errors in the envelope")
			}
		})
	}
}

func TestCreateBookingDuplicateNumberConflicts(t *testing.T) {
	env := newTestEnv(t)

	body := CreateBookingRequest{
		BookingNumber: "BKG-REPLAYED",
		Address:       "42 Residency Road",
		Phone:         "9876543210",
	}

	w := env.do(t, http.MethodPost, "/api/bookings", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	w = env.do(t, http.MethodPost, "/api/bookings", body, "")
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for a replayed booking number, got %d", w.Code)
	}
}

func TestBookingVisibility(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, aliceID := env.login(t, "alice@example.com", false)
	_, bobID := env.login(t, "bob@example.com", false)
	adminToken, _ := env.login(t, "admin@example.com", true)

	aliceBooking := createBooking(t, env, &aliceID)
	createBooking(t, env, &bobID)
	createBooking(t, env, nil)

	w := env.do(t, http.MethodGet, "/api/bookings", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", w.Code)
	}

	var bookings []domain.Booking
	w = env.do(t, http.MethodGet, "/api/bookings", nil, aliceToken)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	decodeSuccess(t, w, &bookings)
	if len(bookings) != 1 || bookings[0].ID != aliceBooking.ID {
		t.Errorf("expected only alice's booking, got %+v", bookings)
	}

	w = env.do(t, http.MethodGet, "/api/bookings", nil, adminToken)
	decodeSuccess(t, w, &bookings)
	if len(bookings) != 3 {
		t.Errorf("expected 3 bookings for admin, got %d", len(bookings))
	}

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/bookings?userId=%d", bobID), nil, adminToken)
	decodeSuccess(t, w, &bookings)
	if len(bookings) != 1 || bookings[0].UserID == nil || *bookings[0].UserID != bobID {
		t.Errorf("expected only bob's booking, got %+v", bookings)
	}
}

func TestBookingStatusTransitionsOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	userToken, userID := env.login(t, "user@example.com", false)
	adminToken, _ := env.login(t, "admin@example.com", true)

	booking := createBooking(t, env, &userID)
	statusPath := fmt.Sprintf("/api/bookings/%d/status", booking.ID)

	w := env.do(t, http.MethodPut, statusPath, UpdateBookingStatusRequest{Status: "confirmed"}, userToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a non-admin, got %d", w.Code)
	}

	for _, status := range []string{"confirmed", "in_progress", "completed"} {
		w = env.do(t, http.MethodPut, statusPath, UpdateBookingStatusRequest{Status: status}, adminToken)
		if w.Code != http.StatusOK {
			t.Fatalf("transition to %s: expected 200, got %d: %s", status, w.Code, w.Body.String())
		}
	}

	// Completed work cannot be cancelled
	w = env.do(t, http.MethodPut, statusPath, UpdateBookingStatusRequest{Status: "cancelled"}, adminToken)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 after completion, got %d", w.Code)
	}

	w = env.do(t, http.MethodPut, statusPath, UpdateBookingStatusRequest{Status: "rescheduled"}, adminToken)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown status, got %d", w.Code)
	}

	w = env.do(t, http.MethodPut, "/api/bookings/9999/status", UpdateBookingStatusRequest{Status: "confirmed"}, adminToken)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown booking, got %d", w.Code)
	}
}
