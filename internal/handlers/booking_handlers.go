package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/roomstay/bookings/internal/domain"
	"github.com/roomstay/bookings/internal/http/response"
)

// CreateBooking handles POST /. Returns 201 with the pending booking's
// pricing and its one-time confirmation key.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBookingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(r.Context(), w, domain.ValidationError(domain.Issue{Field: "body", Message: "invalid JSON payload"}))
		return
	}

	res, err := h.bookingService.CreateBooking(r.Context(), &req)
	if err != nil {
		response.Error(r.Context(), w, err)
		return
	}

	response.JSON(w, http.StatusCreated, res)
}

// CheckAvailability handles GET /availability.
func (h *Handlers) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := domain.AvailabilityReq{
		CheckInDate:  q.Get("checkInDate"),
		CheckOutDate: q.Get("checkOutDate"),
		RoomType:     q.Get("roomType"),
	}
	if raw := q.Get("hotelId"); raw != "" {
		req.HotelID, _ = strconv.ParseInt(raw, 10, 64)
	}

	rooms, err := h.bookingService.CheckAvailability(r.Context(), &req)
	if err != nil {
		response.Error(r.Context(), w, err)
		return
	}

	response.JSON(w, http.StatusOK, domain.AvailabilityRes{
		AvailableRooms: rooms,
		TotalAvailable: len(rooms),
	})
}

// ConfirmBooking handles POST /confirm/{idempotencyKey}.
func (h *Handlers) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "idempotencyKey")

	booking, err := h.bookingService.ConfirmBooking(r.Context(), key)
	if err != nil {
		response.Error(r.Context(), w, err)
		return
	}

	response.JSON(w, http.StatusOK, domain.ConfirmBookingRes{
		BookingID:     booking.ID,
		Status:        booking.Status,
		TotalAmount:   booking.TotalAmount,
		TotalNights:   booking.TotalNights,
		PricePerNight: booking.PricePerNight,
	})
}

// GetBooking handles GET /{id}.
func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.Error(r.Context(), w, domain.ValidationError(domain.Issue{Field: "id", Message: "booking ID must be a positive integer"}))
		return
	}

	booking, err := h.bookingService.GetBooking(r.Context(), id)
	if err != nil {
		response.Error(r.Context(), w, err)
		return
	}

	response.JSON(w, http.StatusOK, booking)
}

// CancelBooking handles DELETE /{id}. Cancellation is a terminal state
// transition for pending bookings only.
func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.Error(r.Context(), w, domain.ValidationError(domain.Issue{Field: "id", Message: "booking ID must be a positive integer"}))
		return
	}

	booking, err := h.bookingService.CancelBooking(r.Context(), id)
	if err != nil {
		response.Error(r.Context(), w, err)
		return
	}

	response.JSON(w, http.StatusOK, booking)
}
