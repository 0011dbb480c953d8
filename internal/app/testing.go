//go:build integration
// +build integration

package app

import (
	"path/filepath"
	"testing"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"
	"github.com/Artef-ca/mobily-vrm-uc/internal/infrastructure/connector"
	"github.com/Artef-ca/mobily-vrm-uc/internal/infrastructure/persistence"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/config"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/testutil"

	"github.com/stretchr/testify/require"
)

// TestRules is the rule set used by the integration tests
const TestRules = `
portal_field_validations:
  cr_number:
    pattern: '\d{10}'
  company_name:
    min_length: 3
cross_source_rules:
  - id: CR_MATCH
    description: Portal CR matches the OCR'd certificate
    rule_type: equality
    left: {source: portal, field: cr_number}
    right: {source: doc, doc_type: ocr.cr_certificate, field: cr_number}
  - id: NAME_MATCH
    description: Portal name matches vendor master
    severity: warning
    rule_type: equality
    left: {source: portal, field: company_name}
    right: {source: doc, doc_type: oracle.vendor, field: name}
`

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	PortalValidationService portal.PortalValidationService
	FieldResultQueryService portal.FieldResultQueryService
	VendorValidationService validation.VendorValidationService

	// DataRoot holds the portal, ocr and master folders of the local document source
	DataRoot  string
	DBContext *persistence.TestContext
}

// SetupTestServices wires the services over a fresh database of dbType and an
// empty local document source
func SetupTestServices(t *testing.T, dbType string) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)
	dbContext := persistence.SetupTestDB(t, dbType)

	cfg, err := ParseValidationConfig([]byte(TestRules), ".yaml")
	require.NoError(t, err)
	engine, err := NewValidationEngine(cfg)
	require.NoError(t, err)

	root := t.TempDir()
	source, err := connector.NewLocalDocumentConnector(&config.DocumentSourceSettings{
		Type:       config.LocalDocumentSource,
		PortalRoot: filepath.Join(root, connector.DefaultPortalDir),
		OCRRoot:    filepath.Join(root, connector.DefaultOCRDir),
		MasterRoot: filepath.Join(root, connector.DefaultMasterDir),
	}, logger)
	require.NoError(t, err)

	portalSvc, err := NewPortalValidationService(engine, dbContext.FieldResultRepo, logger)
	require.NoError(t, err)

	querySvc, err := NewFieldResultQueryService(dbContext.FieldResultRepo, logger)
	require.NoError(t, err)

	vendorSvc, err := NewVendorValidationService(engine, source, nil, logger)
	require.NoError(t, err)

	return &TestServices{
		PortalValidationService: portalSvc,
		FieldResultQueryService: querySvc,
		VendorValidationService: vendorSvc,
		DataRoot:                root,
		DBContext:               dbContext,
	}
}
