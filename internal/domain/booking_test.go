package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/roomstay/bookings/internal/domain"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"candidate inside existing", "2026-10-15", "2026-10-20", "2026-10-16", "2026-10-18", true},
		{"adjacent ranges do not overlap", "2026-10-15", "2026-10-20", "2026-10-20", "2026-10-22", false},
		{"candidate straddles start", "2026-10-15", "2026-10-20", "2026-10-13", "2026-10-16", true},
		{"candidate straddles end", "2026-10-15", "2026-10-20", "2026-10-19", "2026-10-25", true},
		{"candidate covers existing", "2026-10-15", "2026-10-20", "2026-10-10", "2026-10-25", true},
		{"identical ranges", "2026-10-15", "2026-10-20", "2026-10-15", "2026-10-20", true},
		{"candidate before existing", "2026-10-15", "2026-10-20", "2026-10-10", "2026-10-15", false},
		{"disjoint ranges", "2026-10-15", "2026-10-20", "2026-11-01", "2026-11-05", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.Overlaps(date(t, tt.aStart), date(t, tt.aEnd), date(t, tt.bStart), date(t, tt.bEnd))
			if got != tt.want {
				t.Fatalf("Overlaps(%s..%s, %s..%s) = %v, want %v", tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.want)
			}
		})
	}
}

func TestCreateBookingReq_Validate(t *testing.T) {
	now := date(t, "2026-09-01")

	valid := domain.CreateBookingReq{
		UserID:       5,
		HotelID:      1,
		RoomID:       1,
		CheckInDate:  "2026-10-15",
		CheckOutDate: "2026-10-20",
		TotalGuests:  2,
	}

	t.Run("valid request", func(t *testing.T) {
		checkIn, checkOut, issues := valid.Validate(now)
		if len(issues) != 0 {
			t.Fatalf("expected no issues, got %v", issues)
		}
		if !checkIn.Equal(date(t, "2026-10-15")) || !checkOut.Equal(date(t, "2026-10-20")) {
			t.Fatalf("unexpected parsed dates: %v, %v", checkIn, checkOut)
		}
	})

	tests := []struct {
		name     string
		mutate   func(r *domain.CreateBookingReq)
		field    string
		contains string
	}{
		{"past check-in", func(r *domain.CreateBookingReq) { r.CheckInDate = "2026-08-01" }, "checkInDate", "future date"},
		{"check-in equals now", func(r *domain.CreateBookingReq) { r.CheckInDate = "2026-09-01" }, "checkInDate", "future date"},
		{"check-out before check-in", func(r *domain.CreateBookingReq) { r.CheckOutDate = "2026-10-10" }, "checkOutDate", "after check-in"},
		{"check-out equals check-in", func(r *domain.CreateBookingReq) { r.CheckOutDate = "2026-10-15" }, "checkOutDate", "after check-in"},
		{"malformed check-in", func(r *domain.CreateBookingReq) { r.CheckInDate = "15/10/2026" }, "checkInDate", "valid ISO date"},
		{"malformed check-out", func(r *domain.CreateBookingReq) { r.CheckOutDate = "soon" }, "checkOutDate", "valid ISO date"},
		{"zero guests", func(r *domain.CreateBookingReq) { r.TotalGuests = 0 }, "totalGuests", "at least 1"},
		{"missing user", func(r *domain.CreateBookingReq) { r.UserID = 0 }, "userId", "positive"},
		{"missing hotel", func(r *domain.CreateBookingReq) { r.HotelID = 0 }, "hotelId", "positive"},
		{"missing room", func(r *domain.CreateBookingReq) { r.RoomID = -3 }, "roomId", "positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			_, _, issues := req.Validate(now)
			if len(issues) == 0 {
				t.Fatal("expected validation issues")
			}

			found := false
			for _, issue := range issues {
				if issue.Field == tt.field && strings.Contains(issue.Message, tt.contains) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected issue on %q containing %q, got %v", tt.field, tt.contains, issues)
			}
		})
	}
}

func TestCreateBookingReq_Validate_CollectsAllIssues(t *testing.T) {
	now := date(t, "2026-09-01")
	req := domain.CreateBookingReq{
		CheckInDate:  "2026-08-01",
		CheckOutDate: "2026-07-01",
	}

	_, _, issues := req.Validate(now)
	if len(issues) < 5 {
		t.Fatalf("expected issues for every invalid field, got %d: %v", len(issues), issues)
	}
}

func TestBooking_IsActive(t *testing.T) {
	tests := []struct {
		status domain.BookingStatus
		want   bool
	}{
		{domain.BookingPending, true},
		{domain.BookingConfirmed, true},
		{domain.BookingCancelled, false},
	}

	for _, tt := range tests {
		b := domain.Booking{Status: tt.status}
		if b.IsActive() != tt.want {
			t.Fatalf("IsActive() with status %s = %v, want %v", tt.status, b.IsActive(), tt.want)
		}
	}
}
