package v1

import (
	"time"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"
)

// ErrorResponse is the body of every non 2xx response
type ErrorResponse struct {
	Message string `json:"message"`
}

func newErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Message: message}
}

// ValidateDocumentsRequest carries an ad hoc document set keyed by doc type.
// The portal submission goes under "portal" or "vendor_input".
type ValidateDocumentsRequest struct {
	Documents map[string]map[string]any `json:"documents" binding:"required"`
}

// ValidationReportResponse is a validation report with its summary counts
type ValidationReportResponse struct {
	SummaryStatus validation.RuleStatus   `json:"summary_status"`
	Summary       validation.Summary      `json:"summary"`
	Results       []validation.RuleResult `json:"results"`
}

func newValidationReportResponse(report *validation.ValidationReport) ValidationReportResponse {
	results := report.Results
	if results == nil {
		results = []validation.RuleResult{}
	}
	return ValidationReportResponse{
		SummaryStatus: report.SummaryStatus,
		Summary:       report.Summarize(),
		Results:       results,
	}
}

// FieldResultResponse is one stored field verdict
type FieldResultResponse struct {
	ID            string    `json:"id,omitempty"`
	RunID         string    `json:"run_id,omitempty"`
	SupplierID    string    `json:"supplier_id"`
	FieldName     string    `json:"field_name"`
	FieldValue    *string   `json:"field_value"`
	IsValid       bool      `json:"is_valid"`
	FailureReason *string   `json:"failure_reason"`
	CreatedAt     time.Time `json:"created_at"`
}

func newFieldResultResponse(r *portal.FieldResultRecord) FieldResultResponse {
	return FieldResultResponse{
		ID:            r.ID,
		RunID:         r.RunID,
		SupplierID:    r.SupplierID,
		FieldName:     r.FieldName,
		FieldValue:    r.FieldValue,
		IsValid:       r.IsValid,
		FailureReason: r.FailureReason,
		CreatedAt:     r.CreatedAt,
	}
}

// SaveRegistryRequest names the CR number to fetch for a vendor
type SaveRegistryRequest struct {
	CRNumber string `json:"cr_number" binding:"required"`
}

// SaveRegistryResponse tells where the registry document was written
type SaveRegistryResponse struct {
	VendorID string `json:"vendor_id"`
	Location string `json:"location"`
}
