package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGErrCode(t *testing.T) {
	exclusion := &pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"}

	if !pgErrCode(exclusion, "23P01") {
		t.Fatal("exclusion violation not recognized")
	}
	if !pgErrCode(fmt.Errorf("insert booking: %w", exclusion), "23P01") {
		t.Fatal("wrapped exclusion violation not recognized")
	}
	if pgErrCode(exclusion, "23505") {
		t.Fatal("code 23P01 must not match 23505")
	}
	if pgErrCode(errors.New("connection reset"), "23P01") {
		t.Fatal("non-Postgres error must not match")
	}
	if pgErrCode(nil, "23P01") {
		t.Fatal("nil error must not match")
	}
}
