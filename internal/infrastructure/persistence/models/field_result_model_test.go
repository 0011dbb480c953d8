//go:build unit
// +build unit

package models

import (
	"testing"
	"time"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"
	"github.com/stretchr/testify/assert"
)

func TestFieldResultModel_ToDomain(t *testing.T) {
	reason := portal.ReasonPatternMismatch
	value := "12ab"
	model := &FieldResultModel{
		ID:            "id-1",
		RunID:         "run-1",
		SupplierID:    "S-1",
		FieldName:     "cr_number",
		FieldValue:    &value,
		IsValid:       false,
		FailureReason: &reason,
		CreatedAt:     time.Now(),
	}

	record := model.ToDomain()

	assert.Equal(t, model.ID, record.ID)
	assert.Equal(t, model.RunID, record.RunID)
	assert.Equal(t, model.SupplierID, record.SupplierID)
	assert.Equal(t, model.FieldName, record.FieldName)
	assert.Equal(t, "12ab", *record.FieldValue)
	assert.False(t, record.IsValid)
	assert.Equal(t, portal.ReasonPatternMismatch, *record.FailureReason)
	assert.Equal(t, model.CreatedAt, record.CreatedAt)
}

func TestFieldResultModel_FromDomain(t *testing.T) {
	record := &portal.FieldResultRecord{
		ID:         "id-2",
		RunID:      "run-2",
		SupplierID: "S-2",
		FieldName:  "company_name",
		IsValid:    true,
		CreatedAt:  time.Now(),
	}

	model := &FieldResultModel{}
	model.FromDomain(record)

	assert.Equal(t, record.ID, model.ID)
	assert.Equal(t, record.RunID, model.RunID)
	assert.Equal(t, record.SupplierID, model.SupplierID)
	assert.Equal(t, record.FieldName, model.FieldName)
	assert.Nil(t, model.FieldValue)
	assert.True(t, model.IsValid)
	assert.Nil(t, model.FailureReason)
	assert.Equal(t, record.CreatedAt, model.CreatedAt)
}

func TestFieldResultModel_TableName(t *testing.T) {
	assert.Equal(t, "portal_field_results", FieldResultModel{}.TableName())
}
