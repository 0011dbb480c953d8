package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// GCSSettings locates vendor documents inside a Cloud Storage bucket.
//
// Objects follow the same layout as the local folders:
//
//	<PortalPrefix>/<vendor_id>.json
//	<OCRPrefix>/<vendor_id>/<DOC>.json
//	<MasterPrefix>/<vendor_id>/vendor_master.json
type GCSSettings struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsPath string `mapstructure:"credentials_path"`
	Bucket          string `mapstructure:"bucket" validate:"required"`
	PortalPrefix    string `mapstructure:"portal_prefix"`
	OCRPrefix       string `mapstructure:"ocr_prefix"`
	MasterPrefix    string `mapstructure:"master_prefix"`
}

// Validate checks that all fields in GCSSettings are valid
func (s *GCSSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for GCSSettings: %w", err)
	}

	return nil
}
