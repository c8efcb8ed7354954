// Package inventory talks to the hotel inventory service, the
// read-only oracle for rooms and nightly rates. Transport failures
// surface as typed unavailable errors; this client never substitutes
// fabricated room data.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/roomstay/bookings/internal/domain"
)

// Room mirrors the room payload served by the inventory service.
type Room struct {
	ID            int64   `json:"id"`
	HotelID       int64   `json:"hotelId"`
	RoomType      string  `json:"roomType"`
	PricePerNight float64 `json:"pricePerNight"`
	RoomCount     int     `json:"roomCount"`
}

type Client interface {
	GetRoomInfo(ctx context.Context, roomID int64) (*Room, error)
	GetAvailableRooms(ctx context.Context, hotelID int64, checkIn, checkOut time.Time, roomType string) ([]Room, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// envelope is the inventory service's response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Data    []Room `json:"data"`
}

func (c *HTTPClient) GetRoomInfo(ctx context.Context, roomID int64) (*Room, error) {
	url := fmt.Sprintf("%s/api/v1/hotels/rooms/%d", c.baseURL, roomID)

	var env envelope
	if err := c.getJSON(ctx, url, &env); err != nil {
		return nil, err
	}
	if !env.Success || len(env.Data) == 0 {
		return nil, domain.NotFoundError("room not found")
	}
	return &env.Data[0], nil
}

type availableRoomsQuery struct {
	HotelID      int64  `url:"hotelId"`
	CheckInDate  string `url:"checkInDate"`
	CheckOutDate string `url:"checkOutDate"`
	RoomType     string `url:"roomType,omitempty"`
}

func (c *HTTPClient) GetAvailableRooms(ctx context.Context, hotelID int64, checkIn, checkOut time.Time, roomType string) ([]Room, error) {
	params, err := query.Values(availableRoomsQuery{
		HotelID:      hotelID,
		CheckInDate:  checkIn.Format(domain.DateLayout),
		CheckOutDate: checkOut.Format(domain.DateLayout),
		RoomType:     roomType,
	})
	if err != nil {
		return nil, fmt.Errorf("encode availability query: %w", err)
	}
	url := fmt.Sprintf("%s/api/v1/hotels/%d/rooms/available?%s", c.baseURL, hotelID, params.Encode())

	var env envelope
	if err := c.getJSON(ctx, url, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, nil
	}
	return env.Data, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build inventory request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.UnavailableError("inventory service unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.NotFoundError("room not found")
	case resp.StatusCode != http.StatusOK:
		return domain.UnavailableError(fmt.Sprintf("inventory service returned status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.UnavailableError("invalid inventory service response", err)
	}
	return nil
}
