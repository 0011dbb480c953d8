package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/registry"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/docutil"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/logger"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/metrics"
)

// Keys of the portal submission in a ValidateDocuments request, in lookup order
const (
	PortalDocumentKey      = "portal"
	VendorInputDocumentKey = "vendor_input"
)

const (
	vendorValidationKind    = "vendor"
	documentsValidationKind = "documents"
)

// ErrNoDocuments is returned when ValidateDocuments receives nothing to validate
var ErrNoDocuments = errors.New("no documents to validate")

// vendorValidationService implements the VendorValidationService interface
type vendorValidationService struct {
	engine   validation.RuleEngine
	source   documents.DocumentSource
	registry registry.RegistryService
	logger   logger.Logger
}

// NewVendorValidationService creates a new vendorValidationService instance.
// source and registrySvc may be nil; ValidateVendor then fails and registry
// enrichment is skipped respectively.
func NewVendorValidationService(engine validation.RuleEngine, source documents.DocumentSource, registrySvc registry.RegistryService, logger logger.Logger) (validation.VendorValidationService, error) {
	if engine == nil {
		return nil, fmt.Errorf("rule engine is required")
	}
	return &vendorValidationService{
		engine:   engine,
		source:   source,
		registry: registrySvc,
		logger:   logger,
	}, nil
}

// ValidateVendor loads the vendor context from the document source, optionally
// adds registry data and runs the full rule set.
func (s *vendorValidationService) ValidateVendor(ctx context.Context, vendorID string, opts validation.VendorValidationOptions) (*validation.ValidationReport, error) {
	if s.source == nil {
		return nil, fmt.Errorf("no document source configured")
	}

	vendorCtx, err := s.source.LoadVendorContext(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor %s: %w", vendorID, err)
	}

	docs := vendorCtx.DocsByType()
	if opts.WithRegistry {
		s.addRegistryDocument(ctx, vendorCtx, docs)
	}

	report := s.engine.Validate(vendorCtx.Portal, docs)
	metrics.RecordValidation(vendorValidationKind, string(report.SummaryStatus))

	summary := report.Summarize()
	s.logger.Info(fmt.Sprintf("Vendor %s validated: status=%s rules=%d errors=%d warnings=%d",
		vendorID, report.SummaryStatus, summary.TotalRules, summary.Errors, summary.Warnings))

	return report, nil
}

// addRegistryDocument looks up the vendor's CR number and stores the result under
// the moc_certificate doc type. Lookup failures are logged; the affected rules
// then fail on the missing document.
func (s *vendorValidationService) addRegistryDocument(ctx context.Context, vendorCtx *documents.VendorContext, docs map[string]map[string]any) {
	if s.registry == nil {
		s.logger.Warn("Registry enrichment requested but no registry service is configured")
		return
	}

	crNumber := docutil.ExtractCRFromPortal(vendorCtx.Portal)
	if crNumber == "" {
		s.logger.Warn(fmt.Sprintf("Could not find CR number field in portal JSON of vendor %s", vendorCtx.VendorID))
		return
	}

	reg, err := s.registry.GetBasicInfo(ctx, crNumber)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("Registry lookup for vendor %s (CR %s) failed: %v", vendorCtx.VendorID, crNumber, err))
		return
	}

	docs[documents.MocCertificateDocType] = reg.ToDocument().AsMap()
}

// ValidateDocuments validates an ad hoc document set
func (s *vendorValidationService) ValidateDocuments(ctx context.Context, docs map[string]map[string]any) (*validation.ValidationReport, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	portal, docsByType := SplitDocuments(docs)

	report := s.engine.Validate(portal, docsByType)
	metrics.RecordValidation(documentsValidationKind, string(report.SummaryStatus))
	return report, nil
}

// SplitDocuments separates the portal submission from the other documents
func SplitDocuments(docs map[string]map[string]any) (map[string]any, map[string]map[string]any) {
	portalKey := ""
	for _, key := range []string{PortalDocumentKey, VendorInputDocumentKey} {
		if _, ok := docs[key]; ok {
			portalKey = key
			break
		}
	}

	portal := map[string]any{}
	if portalKey != "" && docs[portalKey] != nil {
		portal = docs[portalKey]
	}

	docsByType := make(map[string]map[string]any, len(docs))
	for docType, doc := range docs {
		if docType == portalKey {
			continue
		}
		docsByType[docType] = doc
	}
	return portal, docsByType
}
