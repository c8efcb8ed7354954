package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roomstay/bookings/internal/domain"
)

// IdempotencyRepository owns the confirmation ledger: one opaque key per
// booking, finalized at most once. ConfirmByKey is the confirmation
// transaction; the row lock it takes serializes concurrent confirms on
// the same key.
type IdempotencyRepository interface {
	Mint(ctx context.Context, bookingID int64) (string, error)
	ConfirmByKey(ctx context.Context, key string) (*domain.Booking, error)
}

type idempotencyRepository struct {
	pool *pgxpool.Pool
}

func NewIdempotencyRepository(pool *pgxpool.Pool) IdempotencyRepository {
	return &idempotencyRepository{pool: pool}
}

// Mint generates an unguessable key and binds it to the booking.
func (r *idempotencyRepository) Mint(ctx context.Context, bookingID int64) (string, error) {
	const q = `INSERT INTO idempotency_keys (idem_key, booking_id, finalized)
		VALUES ($1, $2, false)`

	key := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := r.pool.Exec(ctx, q, key, bookingID); err != nil {
		// 23505 on the booking_id unique index: the booking already has
		// its key, a second one must not be minted.
		if pgErrCode(err, "23505") {
			return "", domain.ConflictError("booking already has an idempotency key")
		}
		return "", err
	}
	return key, nil
}

// ConfirmByKey finalizes the key and confirms its booking in one
// transaction. A concurrent caller blocks on the row lock; once granted
// it observes finalized=true and gets a conflict. Both writes commit
// together or not at all.
func (r *idempotencyRepository) ConfirmByKey(ctx context.Context, key string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin confirmation transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var bookingID int64
	var finalized bool
	err = tx.QueryRow(ctx,
		`SELECT booking_id, finalized FROM idempotency_keys WHERE idem_key = $1 FOR UPDATE`,
		key,
	).Scan(&bookingID, &finalized)
	if err == pgx.ErrNoRows {
		return nil, domain.NotFoundError("idempotency key not found")
	}
	if err != nil {
		return nil, fmt.Errorf("lock idempotency key: %w", err)
	}
	if finalized {
		return nil, domain.ConflictError("idempotency key already finalized")
	}

	booking, err := scanBooking(tx.QueryRow(ctx,
		`UPDATE bookings SET status='CONFIRMED', updated_at=now()
			WHERE id = $1 AND status = 'PENDING' RETURNING `+bookingCols,
		bookingID,
	))
	if err == pgx.ErrNoRows {
		// The booking left PENDING through another path, e.g. it was
		// cancelled after the key was minted. CANCELLED is terminal.
		return nil, domain.ConflictError("only pending bookings can be confirmed")
	}
	if err != nil {
		return nil, fmt.Errorf("confirm booking %d: %w", bookingID, err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE idempotency_keys SET finalized=true WHERE idem_key = $1`,
		key,
	); err != nil {
		return nil, fmt.Errorf("finalize idempotency key: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit confirmation transaction: %w", err)
	}
	return booking, nil
}
