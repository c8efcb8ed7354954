package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roomstay/bookings/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, data *domain.NewBooking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	HasDateConflict(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error)
	BookedRoomIDs(ctx context.Context, hotelID int64, checkIn, checkOut time.Time) ([]int64, error)
	Cancel(ctx context.Context, id int64) (bool, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingCols = `id, user_id, hotel_id, room_id,
check_in_date, check_out_date,
total_nights, price_per_night, total_amount, total_guests,
status, created_at, updated_at`

// pgErrCode reports whether err carries the given SQLSTATE code.
func pgErrCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.HotelID, &b.RoomID,
		&b.CheckInDate, &b.CheckOutDate,
		&b.TotalNights, &b.PricePerNight, &b.TotalAmount, &b.TotalGuests,
		&b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a fully-priced PENDING booking. The insert is guarded
// by an overlap subquery so the database stays the authoritative
// exclusion guard even if the room lock expired mid-flow; the guard and
// the insert are one statement, hence atomic.
func (r *bookingRepository) Create(ctx context.Context, data *domain.NewBooking) (*domain.Booking, error) {
	const q = `INSERT INTO bookings (
		user_id, hotel_id, room_id,
		check_in_date, check_out_date,
		total_nights, price_per_night, total_amount, total_guests,
		status
	)
	SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, 'PENDING'
	WHERE NOT EXISTS (
		SELECT 1 FROM bookings
		WHERE room_id = $3
		  AND status IN ('PENDING', 'CONFIRMED')
		  AND check_in_date < $5
		  AND check_out_date > $4
	)
	RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBooking(r.pool.QueryRow(ctx, q,
		data.UserID, data.HotelID, data.RoomID,
		data.CheckInDate, data.CheckOutDate,
		data.TotalNights, data.PricePerNight, data.TotalAmount, data.TotalGuests,
	))
	// ErrNoRows means the guard subquery saw an overlap. SQLSTATE 23P01
	// means the bookings_no_overlap constraint caught a race the guard's
	// snapshot missed; both are the same room-taken outcome.
	if err == pgx.ErrNoRows || pgErrCode(err, "23P01") {
		return nil, domain.ConflictError("room is not available for the selected dates")
	}
	return b, err
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBooking(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}

// HasDateConflict applies the interval intersection test against the
// room's active bookings: existing.checkIn < candidate.checkOut AND
// existing.checkOut > candidate.checkIn.
func (r *bookingRepository) HasDateConflict(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE room_id = $1
		  AND status IN ('PENDING', 'CONFIRMED')
		  AND check_in_date < $3
		  AND check_out_date > $2
	)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var conflict bool
	err := r.pool.QueryRow(ctx, q, roomID, checkIn, checkOut).Scan(&conflict)
	return conflict, err
}

// BookedRoomIDs lists rooms in the hotel with an active booking
// overlapping the candidate range.
func (r *bookingRepository) BookedRoomIDs(ctx context.Context, hotelID int64, checkIn, checkOut time.Time) ([]int64, error) {
	const q = `SELECT DISTINCT room_id FROM bookings
		WHERE hotel_id = $1
		  AND status IN ('PENDING', 'CONFIRMED')
		  AND check_in_date < $3
		  AND check_out_date > $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, hotelID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Cancel moves a PENDING booking to its terminal CANCELLED state.
// Confirmed bookings are never cancelled here.
func (r *bookingRepository) Cancel(ctx context.Context, id int64) (bool, error) {
	const q = `UPDATE bookings SET status='CANCELLED', updated_at=now()
		WHERE id = $1 AND status = 'PENDING'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
