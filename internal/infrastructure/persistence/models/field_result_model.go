package models

import (
	"time"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"
)

// FieldResultTableName is the table holding one row per validated portal field
const FieldResultTableName = "portal_field_results"

// FieldResultModel is the GORM database model for field verdicts (infrastructure concern)
type FieldResultModel struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)"`
	RunID         string    `gorm:"not null;index;type:varchar(36)"`
	SupplierID    string    `gorm:"not null;index:idx_supplier_created,priority:1;type:varchar(255)"`
	FieldName     string    `gorm:"not null;type:varchar(255)"`
	FieldValue    *string   `gorm:"type:text"`
	IsValid       bool      `gorm:"not null"`
	FailureReason *string   `gorm:"type:varchar(50)"`
	CreatedAt     time.Time `gorm:"not null;index:idx_supplier_created,priority:2"`
}

// TableName specifies the table name for GORM
func (FieldResultModel) TableName() string {
	return FieldResultTableName
}

// ToDomain converts GORM model to domain entity
func (m *FieldResultModel) ToDomain() *portal.FieldResultRecord {
	return &portal.FieldResultRecord{
		ID:            m.ID,
		RunID:         m.RunID,
		SupplierID:    m.SupplierID,
		FieldName:     m.FieldName,
		FieldValue:    m.FieldValue,
		IsValid:       m.IsValid,
		FailureReason: m.FailureReason,
		CreatedAt:     m.CreatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *FieldResultModel) FromDomain(r *portal.FieldResultRecord) {
	m.ID = r.ID
	m.RunID = r.RunID
	m.SupplierID = r.SupplierID
	m.FieldName = r.FieldName
	m.FieldValue = r.FieldValue
	m.IsValid = r.IsValid
	m.FailureReason = r.FailureReason
	m.CreatedAt = r.CreatedAt
}
