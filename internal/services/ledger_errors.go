package services

import (
	"context"
	"errors"
	"fmt"
	"log"
)

var (
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrEmailNotVerified       = errors.New("email not verified")
	ErrInvalidCategory        = errors.New("invalid category")
	ErrInsufficientCredits    = errors.New("insufficient credits")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidLedgerRequest   = errors.New("invalid ledger request")
	ErrIdempotencyConflict    = errors.New("idempotency key reused for a different request")

	// ErrLedgerPersistence and ErrLedgerTimeout are retryable. Nothing from a
	// failed operation is left committed.
	ErrLedgerPersistence = errors.New("ledger persistence failed")
	ErrLedgerTimeout     = errors.New("ledger operation timed out")
)

// IsRetryableLedgerError reports whether the caller may repeat the same request.
func IsRetryableLedgerError(err error) bool {
	return errors.Is(err, ErrLedgerPersistence) || errors.Is(err, ErrLedgerTimeout)
}

// storageError classifies an infrastructure failure. A spent context budget
// always wins, since drivers do not consistently wrap context errors.
func storageError(ctx context.Context, operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrLedgerPersistence) || errors.Is(err, ErrLedgerTimeout) {
		return err
	}

	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Printf("ledger: %s timed out: %v", operation, err)
		return fmt.Errorf("%s: %w: %w", operation, ErrLedgerTimeout, err)
	}

	log.Printf("ledger: %s failed: %v", operation, err)
	return fmt.Errorf("%s: %w: %w", operation, ErrLedgerPersistence, err)
}
