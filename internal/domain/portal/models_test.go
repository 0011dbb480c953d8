//go:build unit
// +build unit

package portal

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestFieldResultRecord_Validate(t *testing.T) {
	valid := func() *FieldResultRecord {
		return &FieldResultRecord{
			ID:         uuid.NewString(),
			RunID:      uuid.NewString(),
			SupplierID: "S-100",
			FieldName:  "cr_number",
			FieldValue: strPtr("1010123456"),
			IsValid:    true,
			CreatedAt:  time.Now(),
		}
	}

	assert.NoError(t, valid().Validate())

	invalidReason := valid()
	invalidReason.FailureReason = strPtr("TOO_SHINY")
	assert.Error(t, invalidReason.Validate())

	knownReason := valid()
	knownReason.IsValid = false
	knownReason.FailureReason = strPtr(ReasonPatternMismatch)
	assert.NoError(t, knownReason.Validate())

	missingSupplier := valid()
	missingSupplier.SupplierID = ""
	err := missingSupplier.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SupplierID")

	badID := valid()
	badID.ID = "not-a-uuid"
	assert.Error(t, badID.Validate())
}

func TestFieldResultQuery_Validate(t *testing.T) {
	q := NewFieldResultQuery("S-1")
	assert.NoError(t, q.Validate())

	q.Limit = 5000
	assert.Error(t, q.Validate())

	assert.Error(t, (&FieldResultQuery{}).Validate())
	assert.Error(t, (&FieldResultQuery{SupplierID: "S-1", Offset: -1}).Validate())
}

func TestResultsWriteError(t *testing.T) {
	inner := errors.New("BigQuery insert failed: quota exceeded")
	var err error = fmt.Errorf("store: %w", &ResultsWriteError{Err: inner})

	assert.True(t, errors.Is(err, ErrResultsWrite))
	assert.True(t, errors.Is(err, inner))

	var writeErr *ResultsWriteError
	assert.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "BigQuery insert failed: quota exceeded", writeErr.Error())
}
