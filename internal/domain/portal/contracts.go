package portal

import (
	"context"
	"errors"
)

// ErrResultsWrite matches every ResultsWriteError so callers can tell store
// failures apart from validation errors.
var ErrResultsWrite = errors.New("results write failed")

// ResultsWriteError carries a results store failure. Its message is the store's own.
type ResultsWriteError struct {
	Err error
}

func (e *ResultsWriteError) Error() string { return e.Err.Error() }

// Unwrap returns the store error
func (e *ResultsWriteError) Unwrap() error { return e.Err }

// Is reports whether target is ErrResultsWrite
func (e *ResultsWriteError) Is(target error) bool { return target == ErrResultsWrite }

// PortalValidationService validates portal fields and stores the verdicts.
type PortalValidationService interface {
	// ValidatePortalFields runs the portal field checks without storing anything.
	ValidatePortalFields(ctx context.Context, supplierID string, fields map[string]any) (*SupplierValidationResponse, error)

	// ValidateAndStore validates the payload and writes one row per field.
	// A store failure is returned as a *ResultsWriteError.
	ValidateAndStore(ctx context.Context, payload *SupplierPayload) (*SupplierValidationResponse, error)
}

// FieldResultQueryService reads stored verdicts back.
type FieldResultQueryService interface {
	List(ctx context.Context, query *FieldResultQuery) ([]*FieldResultRecord, error)
}

// FieldResultRepository persists field verdicts
type FieldResultRepository interface {
	// CreateBatch stores the records of one validation run in a single call
	CreateBatch(ctx context.Context, records []*FieldResultRecord) error
	// List returns stored records of one supplier, newest first
	List(ctx context.Context, query *FieldResultQuery) ([]*FieldResultRecord, error)
}
