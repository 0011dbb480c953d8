//go:build unit
// +build unit

package app

import (
	"context"
	"errors"
	"testing"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/registry"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func vendorTestConfig() *validation.ValidationConfig {
	return &validation.ValidationConfig{
		CrossSourceRules: []validation.CrossSourceRule{
			{
				ID:          "CR_MATCH",
				Description: "CR matches MoC",
				RuleType:    validation.RuleTypeEquality,
				Left:        &validation.FieldRef{Source: validation.SourcePortal, Field: "cr_number"},
				Right:       &validation.FieldRef{Source: validation.SourceDoc, DocType: documents.MocCertificateDocType, Field: "cr_number"},
			},
			{
				ID:          "NAME_MATCH",
				Description: "Name matches vendor master",
				Severity:    validation.SeverityWarning,
				RuleType:    validation.RuleTypeEquality,
				Left:        &validation.FieldRef{Source: validation.SourcePortal, Field: "company_name"},
				Right:       &validation.FieldRef{Source: validation.SourceDoc, DocType: documents.VendorMasterDocType, Field: "name"},
			},
		},
	}
}

func vendorTestContext() *documents.VendorContext {
	vc := documents.NewVendorContext("V-1")
	vc.Portal = map[string]any{"basic_info": map[string]any{"cr_number": "1010123456"}, "cr_number": "1010123456", "company_name": "Acme"}
	vc.VendorMaster = map[string]any{"name": "Acme"}
	return vc
}

func newVendorTestService(t *testing.T, source *MockDocumentSource, connector *MockRegistryConnector) validation.VendorValidationService {
	t.Helper()
	log := testutil.SetupTestLogger(t)

	var registrySvc registry.RegistryService
	if connector != nil {
		var err error
		registrySvc, err = NewRegistryService(connector, nil, log)
		require.NoError(t, err)
	}

	svc, err := NewVendorValidationService(newTestEngine(t, vendorTestConfig()), source, registrySvc, log)
	require.NoError(t, err)
	return svc
}

func TestVendorValidationService_ValidateVendor_WithoutRegistry(t *testing.T) {
	source := new(MockDocumentSource)
	source.On("LoadVendorContext", mock.Anything, "V-1").Return(vendorTestContext(), nil)
	svc := newVendorTestService(t, source, nil)

	report, err := svc.ValidateVendor(context.Background(), "V-1", validation.VendorValidationOptions{})
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, validation.StatusFail, report.Results[0].Status)
	assert.Equal(t, validation.StatusPass, report.Results[1].Status)
	assert.Equal(t, validation.StatusFail, report.SummaryStatus)
}

func TestVendorValidationService_ValidateVendor_WithRegistry(t *testing.T) {
	source := new(MockDocumentSource)
	source.On("LoadVendorContext", mock.Anything, "V-1").Return(vendorTestContext(), nil)
	connector := new(MockRegistryConnector)
	connector.On("GetBasicInfo", mock.Anything, "1010123456").Return(&registry.CommercialRegistration{
		CRNumber:    strPtr("1010123456"),
		CompanyName: strPtr("Acme"),
	}, nil)
	svc := newVendorTestService(t, source, connector)

	report, err := svc.ValidateVendor(context.Background(), "V-1", validation.VendorValidationOptions{WithRegistry: true})
	require.NoError(t, err)

	assert.Equal(t, validation.StatusPass, report.SummaryStatus)
	connector.AssertExpectations(t)
}

func TestVendorValidationService_ValidateVendor_RegistryFailureIsNotFatal(t *testing.T) {
	source := new(MockDocumentSource)
	source.On("LoadVendorContext", mock.Anything, "V-1").Return(vendorTestContext(), nil)
	connector := new(MockRegistryConnector)
	connector.On("GetBasicInfo", mock.Anything, "1010123456").Return(nil, registry.ErrRegistryUnavailable)
	svc := newVendorTestService(t, source, connector)

	report, err := svc.ValidateVendor(context.Background(), "V-1", validation.VendorValidationOptions{WithRegistry: true})
	require.NoError(t, err)
	assert.Equal(t, validation.StatusFail, report.Results[0].Status)
	assert.Contains(t, report.Results[0].Message, "Missing values")
}

func TestVendorValidationService_ValidateVendor_NoCRNumber(t *testing.T) {
	vc := documents.NewVendorContext("V-2")
	vc.Portal = map[string]any{"company_name": "Acme"}

	source := new(MockDocumentSource)
	source.On("LoadVendorContext", mock.Anything, "V-2").Return(vc, nil)
	connector := new(MockRegistryConnector)
	svc := newVendorTestService(t, source, connector)

	_, err := svc.ValidateVendor(context.Background(), "V-2", validation.VendorValidationOptions{WithRegistry: true})
	require.NoError(t, err)
	connector.AssertNotCalled(t, "GetBasicInfo", mock.Anything, mock.Anything)
}

func TestVendorValidationService_ValidateVendor_NotFound(t *testing.T) {
	source := new(MockDocumentSource)
	source.On("LoadVendorContext", mock.Anything, "V-9").Return(nil, documents.ErrNotFound)
	svc := newVendorTestService(t, source, nil)

	_, err := svc.ValidateVendor(context.Background(), "V-9", validation.VendorValidationOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, documents.ErrNotFound))
}

func TestVendorValidationService_ValidateVendor_NoSource(t *testing.T) {
	svc, err := NewVendorValidationService(newTestEngine(t, vendorTestConfig()), nil, nil, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	_, err = svc.ValidateVendor(context.Background(), "V-1", validation.VendorValidationOptions{})
	assert.Error(t, err)
}

func TestVendorValidationService_ValidateDocuments(t *testing.T) {
	svc := newVendorTestService(t, nil, nil)

	report, err := svc.ValidateDocuments(context.Background(), map[string]map[string]any{
		"vendor_input":                  {"cr_number": "1010", "company_name": "Acme"},
		documents.MocCertificateDocType: {"fields": map[string]any{"cr_number": "1010"}},
		documents.VendorMasterDocType:   {"name": "Other"},
	})
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, validation.StatusPass, report.Results[0].Status)
	assert.Equal(t, validation.StatusFail, report.Results[1].Status)
	assert.Equal(t, validation.SeverityWarning, report.Results[1].Severity)

	summary := report.Summarize()
	assert.Equal(t, validation.Summary{TotalRules: 2, Errors: 0, Warnings: 1}, summary)

	_, err = svc.ValidateDocuments(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestSplitDocuments(t *testing.T) {
	portal, docs := SplitDocuments(map[string]map[string]any{
		"portal":       {"a": "1"},
		"vendor_input": {"a": "2"},
		"nda":          {"signed": true},
	})
	assert.Equal(t, "1", portal["a"])
	assert.Len(t, docs, 2)
	assert.Contains(t, docs, "vendor_input")

	portal, docs = SplitDocuments(map[string]map[string]any{"nda": {}})
	assert.Empty(t, portal)
	assert.Len(t, docs, 1)
}
