package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// ConflictError reports that the requested interval overlaps an existing
// appointment for the same doctor. It carries enough detail for the caller
// to act: the blocking appointment's id and its [start, end) range.
type ConflictError struct {
	AppointmentID uuid.UUID
	Start         time.Time
	End           time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("doctor has a conflicting appointment from %s to %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// ReferentialIntegrityError reports that a doctor or patient cannot be
// deleted because appointments still reference it.
type ReferentialIntegrityError struct {
	Entity string
	ID     uuid.UUID
	Count  int64
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s %s is referenced by %d appointment(s) and cannot be deleted",
		e.Entity, e.ID, e.Count)
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
