package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/logger"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/metrics"
	"github.com/google/uuid"
)

const portalValidationKind = "portal"

var failureReasons = map[string]string{
	PortalFieldRequiredPrefix: portal.ReasonMissingRequired,
	PortalFieldPatternPrefix:  portal.ReasonPatternMismatch,
	PortalFieldInSetPrefix:    portal.ReasonInvalidValue,
	PortalFieldMinLenPrefix:   portal.ReasonMinLength,
	PortalFieldMaxLenPrefix:   portal.ReasonMaxLength,
}

// portalValidationService implements the PortalValidationService interface
type portalValidationService struct {
	engine     validation.RuleEngine
	resultRepo portal.FieldResultRepository
	logger     logger.Logger
	now        func() time.Time
}

// NewPortalValidationService creates a new portalValidationService instance.
// resultRepo may be nil when results are never stored.
func NewPortalValidationService(engine validation.RuleEngine, resultRepo portal.FieldResultRepository, logger logger.Logger) (portal.PortalValidationService, error) {
	if engine == nil {
		return nil, fmt.Errorf("rule engine is required")
	}
	return &portalValidationService{
		engine:     engine,
		resultRepo: resultRepo,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// ValidatePortalFields runs the portal field checks of the engine on fields
func (s *portalValidationService) ValidatePortalFields(ctx context.Context, supplierID string, fields map[string]any) (*portal.SupplierValidationResponse, error) {
	if fields == nil {
		fields = map[string]any{}
	}

	report := s.engine.Validate(fields, map[string]map[string]any{})
	metrics.RecordValidation(portalValidationKind, string(report.SummaryStatus))

	return &portal.SupplierValidationResponse{
		SupplierID: supplierID,
		Results:    PortalReportToFieldResults(report, fields),
	}, nil
}

// ValidateAndStore validates the payload and writes one row per field result
func (s *portalValidationService) ValidateAndStore(ctx context.Context, payload *portal.SupplierPayload) (*portal.SupplierValidationResponse, error) {
	response, err := s.ValidatePortalFields(ctx, payload.SupplierID, payload.Fields)
	if err != nil {
		return nil, err
	}

	if s.resultRepo == nil || len(response.Results) == 0 {
		return response, nil
	}

	records := s.toRecords(response)
	if err := s.resultRepo.CreateBatch(ctx, records); err != nil {
		s.logger.Error(fmt.Sprintf("failed to store %d field results for supplier %s: %v", len(records), payload.SupplierID, err))
		return nil, &portal.ResultsWriteError{Err: err}
	}

	s.logger.Info(fmt.Sprintf("Stored %d field results for supplier %s (run %s)", len(records), payload.SupplierID, records[0].RunID))
	return response, nil
}

// toRecords stamps every result of one run with the same run ID and creation time
func (s *portalValidationService) toRecords(response *portal.SupplierValidationResponse) []*portal.FieldResultRecord {
	runID := uuid.NewString()
	createdAt := s.now().UTC()

	records := make([]*portal.FieldResultRecord, 0, len(response.Results))
	for _, res := range response.Results {
		records = append(records, &portal.FieldResultRecord{
			ID:            uuid.NewString(),
			RunID:         runID,
			SupplierID:    response.SupplierID,
			FieldName:     res.FieldName,
			FieldValue:    res.Value,
			IsValid:       res.IsValid,
			FailureReason: res.FailureReason,
			CreatedAt:     createdAt,
		})
	}
	return records
}

// PortalReportToFieldResults keeps the portal field results of report and turns
// them into one verdict per field, in report order.
func PortalReportToFieldResults(report *validation.ValidationReport, fields map[string]any) []portal.FieldValidationResult {
	results := make([]portal.FieldValidationResult, 0, len(report.Results))
	position := make(map[string]int, len(report.Results))

	for _, res := range report.Results {
		if !IsPortalFieldRule(res.RuleID) {
			continue
		}
		prefix, fieldName := SplitPortalRuleID(res.RuleID)
		if fieldName == "" {
			fieldName = res.RuleID
		}

		verdict := portal.FieldValidationResult{
			FieldName: fieldName,
			IsValid:   res.Status == validation.StatusPass,
		}
		if raw, ok := fields[fieldName]; ok && raw != nil {
			value := validation.Stringify(raw)
			verdict.Value = &value
		}
		if !verdict.IsValid {
			reason := failureReason(prefix)
			verdict.FailureReason = &reason
		}

		// a later result for the same field replaces the earlier one in place
		if i, seen := position[fieldName]; seen {
			results[i] = verdict
			continue
		}
		position[fieldName] = len(results)
		results = append(results, verdict)
	}

	return results
}

func failureReason(prefix string) string {
	if reason, ok := failureReasons[prefix]; ok {
		return reason
	}
	return portal.ReasonGenericFail
}

// fieldResultQueryService implements the FieldResultQueryService interface
type fieldResultQueryService struct {
	resultRepo portal.FieldResultRepository
	logger     logger.Logger
}

// NewFieldResultQueryService creates a new fieldResultQueryService instance
func NewFieldResultQueryService(resultRepo portal.FieldResultRepository, logger logger.Logger) (portal.FieldResultQueryService, error) {
	if resultRepo == nil {
		return nil, fmt.Errorf("field result repository is required")
	}
	return &fieldResultQueryService{
		resultRepo: resultRepo,
		logger:     logger,
	}, nil
}

// List returns stored field results of one supplier, newest first
func (s *fieldResultQueryService) List(ctx context.Context, query *portal.FieldResultQuery) ([]*portal.FieldResultRecord, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records, err := s.resultRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list field results: %w", err)
	}
	return records, nil
}
