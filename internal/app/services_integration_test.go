//go:build integration
// +build integration

package app

import (
	"context"
	"testing"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/config"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortalValidation_StoresAndListsResults(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	resp, err := services.PortalValidationService.ValidateAndStore(ctx, &portal.SupplierPayload{
		SupplierID: "S-100",
		Fields:     map[string]any{"cr_number": "1010123456", "company_name": "Ac"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	stored, err := services.FieldResultQueryService.List(ctx, portal.NewFieldResultQuery("S-100"))
	require.NoError(t, err)
	require.Len(t, stored, 2)

	byName := map[string]*portal.FieldResultRecord{}
	for _, rec := range stored {
		byName[rec.FieldName] = rec
	}
	assert.True(t, byName["cr_number"].IsValid)
	assert.False(t, byName["company_name"].IsValid)
	require.NotNil(t, byName["company_name"].FailureReason)
	assert.Equal(t, portal.ReasonMinLength, *byName["company_name"].FailureReason)
	assert.Equal(t, byName["cr_number"].RunID, byName["company_name"].RunID)
}

func TestVendorValidation_LocalDocumentSource(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	root := services.DataRoot

	testutil.WriteJSONFile(t, root, "portal/V-1.json", map[string]any{"cr_number": "1010123456", "company_name": "Acme"})
	testutil.WriteJSONFile(t, root, "ocr/V-1/cr_certificate.json", map[string]any{"cr_number": "1010123456"})
	testutil.WriteJSONFile(t, root, "master/V-1/vendor_master.json", map[string]any{"name": "Acme Trading"})

	report, err := services.VendorValidationService.ValidateVendor(context.Background(), "V-1", validation.VendorValidationOptions{})
	require.NoError(t, err)

	byID := map[string]validation.RuleResult{}
	for _, r := range report.Results {
		byID[r.RuleID] = r
	}
	assert.Equal(t, validation.StatusPass, byID["CR_MATCH"].Status)
	assert.Equal(t, validation.StatusFail, byID["NAME_MATCH"].Status)
	assert.Equal(t, validation.StatusFail, report.SummaryStatus)
	assert.Equal(t, validation.Summary{TotalRules: len(report.Results), Errors: 0, Warnings: 1}, report.Summarize())

	_, err = services.VendorValidationService.ValidateVendor(context.Background(), "V-404", validation.VendorValidationOptions{})
	assert.ErrorIs(t, err, documents.ErrNotFound)
}
