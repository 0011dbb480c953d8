package portal

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Failure reasons stored with invalid fields
const (
	ReasonMissingRequired = "MISSING_REQUIRED"
	ReasonPatternMismatch = "PATTERN_MISMATCH"
	ReasonInvalidValue    = "INVALID_VALUE"
	ReasonMinLength       = "MIN_LENGTH"
	ReasonMaxLength       = "MAX_LENGTH"
	ReasonGenericFail     = "GENERIC_FAIL"
)

// SupplierPayload is the portal submission of one supplier
type SupplierPayload struct {
	SupplierID string         `json:"supplier_id" binding:"required,max=255"`
	Fields     map[string]any `json:"fields" binding:"required"`
}

// FieldValidationResult is the verdict for one portal field
type FieldValidationResult struct {
	FieldName     string  `json:"field_name"`
	Value         *string `json:"value"`
	IsValid       bool    `json:"is_valid"`
	FailureReason *string `json:"failure_reason"`
}

// SupplierValidationResponse lists the field verdicts of one supplier
type SupplierValidationResponse struct {
	SupplierID string                  `json:"supplier_id"`
	Results    []FieldValidationResult `json:"results"`
}

// FieldResultRecord is one stored row: a field verdict stamped with the supplier,
// the run that produced it and the time it was written.
type FieldResultRecord struct {
	ID            string    `validate:"required,uuid4"`
	RunID         string    `validate:"required,uuid4"`
	SupplierID    string    `validate:"required,max=255"`
	FieldName     string    `validate:"required,max=255"`
	FieldValue    *string   `validate:"omitempty"`
	IsValid       bool      `validate:"-"`
	FailureReason *string   `validate:"omitempty,oneof=MISSING_REQUIRED PATTERN_MISMATCH INVALID_VALUE MIN_LENGTH MAX_LENGTH GENERIC_FAIL"`
	CreatedAt     time.Time `validate:"required"`
}

// Validate for validating FieldResultRecord struct
func (r *FieldResultRecord) Validate() error {
	validate := validator.New()

	err := validate.Struct(r)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// FieldResultQuery selects stored rows of one supplier
type FieldResultQuery struct {
	SupplierID string `validate:"required"`
	Limit      int    `validate:"omitempty,gte=0,lte=1000"`
	Offset     int    `validate:"omitempty,gte=0"`
}

// NewFieldResultQuery returns a query with the default page size
func NewFieldResultQuery(supplierID string) *FieldResultQuery {
	return &FieldResultQuery{SupplierID: supplierID, Limit: 100}
}

// Validate validates the FieldResultQuery struct
func (q *FieldResultQuery) Validate() error {
	validate := validator.New()

	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
