// Package registry models commercial registration data fetched from the Wathq
// (Ministry of Commerce) API.
package registry

import (
	"context"
	"errors"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
)

var (
	// ErrMissingAPIKey is returned when no Wathq API key is configured
	ErrMissingAPIKey = errors.New("WATHQ_API_KEY is not set in environment variables")
	// ErrRegistryNotFound is returned when the registry does not know a CR number
	ErrRegistryNotFound = errors.New("commercial registration not found")
	// ErrRegistryUnavailable wraps transport failures and other non-200 responses
	ErrRegistryUnavailable = errors.New("commercial registry unavailable")
)

// CommercialRegistration is the basic information of one CR number
type CommercialRegistration struct {
	CRNumber           *string `json:"cr_number"`
	CompanyName        *string `json:"company_name"`
	IssueDateGregorian *string `json:"issue_date_gregorian"`
}

// Fields returns the registration as document fields
func (c *CommercialRegistration) Fields() map[string]any {
	fields := map[string]any{
		"cr_number":            nil,
		"company_name":         nil,
		"issue_date_gregorian": nil,
	}
	if c.CRNumber != nil {
		fields["cr_number"] = *c.CRNumber
	}
	if c.CompanyName != nil {
		fields["company_name"] = *c.CompanyName
	}
	if c.IssueDateGregorian != nil {
		fields["issue_date_gregorian"] = *c.IssueDateGregorian
	}
	return fields
}

// ToDocument wraps the registration as a single page moc_certificate document
func (c *CommercialRegistration) ToDocument() *documents.StructuredDocument {
	pages := 1
	return &documents.StructuredDocument{
		DocType:   documents.MocCertificateDocType,
		PageCount: &pages,
		Fields:    c.Fields(),
	}
}

// RegistryConnector fetches registration data from the registry API
type RegistryConnector interface {
	GetBasicInfo(ctx context.Context, crNumber string) (*CommercialRegistration, error)
}

// RegistryService looks up registrations and stores them as documents
type RegistryService interface {
	// GetBasicInfo returns the CR number, company name and Gregorian issue date
	GetBasicInfo(ctx context.Context, crNumber string) (*CommercialRegistration, error)
	// FetchAndSave looks up crNumber and saves it as the vendor's moc_certificate
	FetchAndSave(ctx context.Context, vendorID, crNumber string) (string, error)
}
