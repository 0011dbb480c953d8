package validation

import "context"

// RuleEngine evaluates a ValidationConfig against one supplier's data.
type RuleEngine interface {
	// Validate runs every portal field check followed by every cross source rule.
	// docsByType maps a logical document type to the document JSON.
	Validate(portal map[string]any, docsByType map[string]map[string]any) *ValidationReport
}

// VendorValidationOptions tunes ValidateVendor
type VendorValidationOptions struct {
	// WithRegistry adds the vendor's commercial registration as a moc_certificate
	// document when a CR number is found in the portal submission.
	WithRegistry bool
}

// VendorValidationService runs the full rule set for a vendor
type VendorValidationService interface {
	// ValidateVendor loads the vendor's submission and documents and validates them.
	ValidateVendor(ctx context.Context, vendorID string, opts VendorValidationOptions) (*ValidationReport, error)
	// ValidateDocuments validates documents keyed by source name. The "portal" entry,
	// or else "vendor_input", is the portal submission; the rest are documents by type.
	ValidateDocuments(ctx context.Context, documents map[string]map[string]any) (*ValidationReport, error)
}
