package services

import (
	"errors"

	"tankbill/internal/common"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNoBillableTransactions is returned when invoice generation finds
	// nothing unbilled in the requested period.
	ErrNoBillableTransactions = errors.New("no billable transactions in period")

	// ErrOverlap is returned when a candidate trip is attached to a
	// non-cancelled invoice covering a different period, which means an
	// earlier generation went wrong.
	ErrOverlap = errors.New("period overlaps an existing invoice")

	// ErrOverpaymentRejected is returned when a payment would push an
	// invoice's settled total past its amount.
	ErrOverpaymentRejected = errors.New("payment exceeds invoice balance")

	// ErrInvalidExpenseState is returned when an expense transition is not
	// legal from its current status.
	ErrInvalidExpenseState = errors.New("invalid expense state transition")

	// ErrConcurrentModification is returned when a row changed under a
	// transaction and the operation should be retried.
	ErrConcurrentModification = errors.New("record was modified concurrently")
)

// classifyLockError maps Postgres serialization and lock failures to
// ErrConcurrentModification so callers can retry; anything else is wrapped
// with the sanitized operation message.
func classifyLockError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return ErrConcurrentModification
		}
	}
	return common.SecureErrorMessage(operation, err)
}
