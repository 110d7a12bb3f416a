package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"voltkart/internal/domain"
	"voltkart/internal/middleware"
	"voltkart/internal/repository"
	"voltkart/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateBookingRequest represents the booking creation payload. Like orders,
// bookings allow guest checkout, but a technician needs an address and a
// phone number.
type CreateBookingRequest struct {
	UserID        *int64     `json:"userId"`
	ServiceID     *int64     `json:"serviceId"`
	BookingNumber string     `json:"bookingNumber"`
	PreferredDate *time.Time `json:"preferredDate"`
	PreferredTime string     `json:"preferredTime"`
	Address       string     `json:"address" validate:"required"`
	Phone         string     `json:"phone" validate:"required"`
	Notes         string     `json:"notes"`
	TotalAmount   float64    `json:"totalAmount" validate:"gte=0"`
}

// UpdateBookingStatusRequest represents the status transition payload
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// BookingHandler handles HTTP requests for booking operations
type BookingHandler struct {
	bookings service.BookingService
	logger   *zap.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings service.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		logger:   logger,
	}
}

// RegisterRoutes registers the booking routes, mirroring the order surface
func (h *BookingHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/bookings", func(r chi.Router) {
		r.Post("/", h.CreateBooking)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/", h.ListBookings)
			r.Get("/{id}", h.GetBooking)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Put("/{id}/status", h.UpdateStatus)
		})
	})
}

// CreateBooking handles booking creation
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), service.BookingInput{
		UserID:        req.UserID,
		ServiceID:     req.ServiceID,
		BookingNumber: req.BookingNumber,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Address:       req.Address,
		Phone:         req.Phone,
		Notes:         req.Notes,
		TotalAmount:   req.TotalAmount,
	})
	if err != nil {
		switch {
		case err == service.ErrContactRequired:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case err == repository.ErrBookingNumberExists:
			middleware.RespondWithError(w, http.StatusConflict, "booking with this booking number already exists")
		default:
			h.logger.Error("Failed to create booking", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create booking")
		}
		return
	}

	h.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.String("booking_number", booking.BookingNumber),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, booking)
}

// ListBookings returns the caller's bookings, or every booking for admins.
// Admins may narrow to one user with ?userId.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filterUser := &userID
	if isAdmin, _ := middleware.GetIsAdmin(r.Context()); isAdmin {
		filterUser = nil
		if v := r.URL.Query().Get("userId"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, "invalid userId")
				return
			}
			filterUser = &id
		}
	}

	bookings, err := h.bookings.ListBookings(r.Context(), filterUser)
	if err != nil {
		h.logger.Error("Failed to list bookings", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, bookings)
}

// GetBooking returns one booking. Non-admins only see their own.
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := h.bookings.GetBooking(r.Context(), id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "booking not found")
			return
		}
		h.logger.Error("Failed to get booking", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get booking")
		return
	}

	if isAdmin, _ := middleware.GetIsAdmin(r.Context()); !isAdmin {
		userID, _ := middleware.GetUserID(r.Context())
		if booking.UserID == nil || *booking.UserID != userID {
			middleware.RespondWithError(w, http.StatusNotFound, "booking not found")
			return
		}
	}

	middleware.RespondWithJSON(w, http.StatusOK, booking)
}

// UpdateStatus advances a booking through its lifecycle
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req UpdateBookingStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	booking, err := h.bookings.UpdateStatus(r.Context(), id, domain.BookingStatus(req.Status))
	if err != nil {
		switch {
		case err == repository.ErrBookingNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "booking not found")
		case err == service.ErrUnknownStatus:
			middleware.RespondWithError(w, http.StatusBadRequest, "unknown status")
		case errors.Is(err, service.ErrInvalidTransition):
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("Failed to update booking status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update booking status")
		}
		return
	}

	h.logger.Info("Booking status updated",
		zap.Int64("booking_id", booking.ID),
		zap.String("status", string(booking.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, booking)
}
