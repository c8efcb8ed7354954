package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/roomstay/bookings/internal/service"
)

type Handlers struct {
	bookingService service.BookingService
}

func New(bookingService service.BookingService) *Handlers {
	return &Handlers{bookingService: bookingService}
}

// Routes returns the booking API router, mounted under /api/v1/bookings.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateBooking)
	r.Get("/availability", h.CheckAvailability)
	r.Post("/confirm/{idempotencyKey}", h.ConfirmBooking)
	r.Get("/{id}", h.GetBooking)
	r.Delete("/{id}", h.CancelBooking)
	return r
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
