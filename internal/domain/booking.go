package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// DateLayout is the wire format for check-in/check-out dates.
const DateLayout = "2006-01-02"

type Booking struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"userId"`
	HotelID       int64         `json:"hotelId"`
	RoomID        int64         `json:"roomId"`
	CheckInDate   time.Time     `json:"checkInDate"`
	CheckOutDate  time.Time     `json:"checkOutDate"`
	TotalNights   int           `json:"totalNights"`
	PricePerNight float64       `json:"pricePerNight"`
	TotalAmount   float64       `json:"totalAmount"`
	TotalGuests   int           `json:"totalGuests"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// IsActive reports whether the booking still holds its room. Active
// bookings are the ones a conflict check must count.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// NewBooking carries a fully-priced booking into the store. Pricing is
// resolved before the insert so a half-priced row can never exist.
type NewBooking struct {
	UserID        int64
	HotelID       int64
	RoomID        int64
	CheckInDate   time.Time
	CheckOutDate  time.Time
	TotalNights   int
	PricePerNight float64
	TotalAmount   float64
	TotalGuests   int
}

// Overlaps applies the half-open interval intersection test. Stays are
// [checkIn, checkOut), so a check-out on another stay's check-in day
// does not collide.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

type CreateBookingReq struct {
	UserID       int64  `json:"userId"`
	HotelID      int64  `json:"hotelId"`
	RoomID       int64  `json:"roomId"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	TotalGuests  int    `json:"totalGuests"`
}

// Validate checks the request and parses its dates. The returned issues
// are itemized per field and safe to return to the client verbatim.
func (r *CreateBookingReq) Validate(now time.Time) (checkIn, checkOut time.Time, issues []Issue) {
	if r.UserID <= 0 {
		issues = append(issues, Issue{Field: "userId", Message: "user ID must be a positive integer"})
	}
	if r.HotelID <= 0 {
		issues = append(issues, Issue{Field: "hotelId", Message: "hotel ID must be a positive integer"})
	}
	if r.RoomID <= 0 {
		issues = append(issues, Issue{Field: "roomId", Message: "room ID must be a positive integer"})
	}
	if r.TotalGuests < 1 {
		issues = append(issues, Issue{Field: "totalGuests", Message: "total guests must be at least 1"})
	}

	checkIn, checkOut, dateIssues := validateStayDates(r.CheckInDate, r.CheckOutDate, now)
	issues = append(issues, dateIssues...)
	return checkIn, checkOut, issues
}

type AvailabilityReq struct {
	HotelID      int64
	CheckInDate  string
	CheckOutDate string
	RoomType     string
}

func (r *AvailabilityReq) Validate(now time.Time) (checkIn, checkOut time.Time, issues []Issue) {
	if r.HotelID <= 0 {
		issues = append(issues, Issue{Field: "hotelId", Message: "hotel ID must be a positive integer"})
	}
	dateIn, dateOut, dateIssues := validateStayDates(r.CheckInDate, r.CheckOutDate, now)
	issues = append(issues, dateIssues...)
	return dateIn, dateOut, issues
}

func validateStayDates(checkInRaw, checkOutRaw string, now time.Time) (checkIn, checkOut time.Time, issues []Issue) {
	checkIn, inErr := time.Parse(DateLayout, checkInRaw)
	if inErr != nil {
		issues = append(issues, Issue{Field: "checkInDate", Message: fmt.Sprintf("check-in date must be a valid ISO date (%s)", DateLayout)})
	} else if !checkIn.After(now) {
		issues = append(issues, Issue{Field: "checkInDate", Message: "check-in date must be a future date"})
	}

	checkOut, outErr := time.Parse(DateLayout, checkOutRaw)
	if outErr != nil {
		issues = append(issues, Issue{Field: "checkOutDate", Message: fmt.Sprintf("check-out date must be a valid ISO date (%s)", DateLayout)})
	} else if inErr == nil && !checkOut.After(checkIn) {
		issues = append(issues, Issue{Field: "checkOutDate", Message: "check-out date must be after check-in date"})
	}

	return checkIn, checkOut, issues
}

type CreateBookingRes struct {
	BookingID      int64   `json:"bookingId"`
	IdempotencyKey string  `json:"idempotencyKey"`
	TotalAmount    float64 `json:"totalAmount"`
	TotalNights    int     `json:"totalNights"`
	PricePerNight  float64 `json:"pricePerNight"`
}

type ConfirmBookingRes struct {
	BookingID     int64         `json:"bookingId"`
	Status        BookingStatus `json:"status"`
	TotalAmount   float64       `json:"totalAmount"`
	TotalNights   int           `json:"totalNights"`
	PricePerNight float64       `json:"pricePerNight"`
}

type RoomAvailability struct {
	RoomID        int64   `json:"roomId"`
	HotelID       int64   `json:"hotelId"`
	RoomType      string  `json:"roomType"`
	PricePerNight float64 `json:"pricePerNight"`
	Available     bool    `json:"available"`
}

type AvailabilityRes struct {
	AvailableRooms []RoomAvailability `json:"availableRooms"`
	TotalAvailable int                `json:"totalAvailable"`
}
