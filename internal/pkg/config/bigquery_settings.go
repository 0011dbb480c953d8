package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Default BigQuery destination of field validation results
const (
	DefaultBigQueryDataset = "vrm_validation"
	DefaultBigQueryTable   = "portal_field_validation"
)

// BigQuerySettings identifies the table receiving one row per validated portal field.
type BigQuerySettings struct {
	ProjectID       string `mapstructure:"project_id" validate:"required"`
	Dataset         string `mapstructure:"dataset" validate:"required"`
	Table           string `mapstructure:"table" validate:"required"`
	CredentialsPath string `mapstructure:"credentials_path"`
}

// TableID returns the fully qualified project.dataset.table identifier.
func (s *BigQuerySettings) TableID() string {
	return fmt.Sprintf("%s.%s.%s", s.ProjectID, s.Dataset, s.Table)
}

// Validate checks that all fields in BigQuerySettings are valid
func (s *BigQuerySettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for BigQuerySettings (is BQ_PROJECT set?): %w", err)
	}

	return nil
}
