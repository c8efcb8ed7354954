package service

import (
	"context"
	"math"
	"time"

	"github.com/roomstay/bookings/internal/inventory"
)

// Quote is the priced stay for a room and date range.
type Quote struct {
	TotalNights   int
	PricePerNight float64
	TotalAmount   float64
}

// PricingResolver computes the stay cost from the nightly rate held by
// the inventory service.
type PricingResolver struct {
	inventory inventory.Client
}

func NewPricingResolver(inv inventory.Client) *PricingResolver {
	return &PricingResolver{inventory: inv}
}

// TotalNights counts billable nights in [checkIn, checkOut), rounding
// partial days up. Callers validate checkOut > checkIn first, so the
// result is always positive.
func TotalNights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

func (p *PricingResolver) Quote(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (*Quote, error) {
	room, err := p.inventory.GetRoomInfo(ctx, roomID)
	if err != nil {
		return nil, err
	}

	nights := TotalNights(checkIn, checkOut)
	return &Quote{
		TotalNights:   nights,
		PricePerNight: room.PricePerNight,
		TotalAmount:   float64(nights) * room.PricePerNight,
	}, nil
}
