package validation

import (
	"errors"
	"fmt"

	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/validators"
	"github.com/go-playground/validator/v10"
)

// RuleStatus is the outcome of a single rule
type RuleStatus string

// Rule statuses
const (
	StatusPass    RuleStatus = "PASS"
	StatusFail    RuleStatus = "FAIL"
	StatusWarning RuleStatus = "WARNING"
	StatusSkip    RuleStatus = "SKIP"
)

// Severity classifies how serious a failing rule is
type Severity string

// Severities
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// FieldType is the declared type of a portal field
type FieldType string

// Field types
const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeDate    FieldType = "date"
	FieldTypeBoolean FieldType = "boolean"
)

// Source tells where a FieldRef reads its value from
type Source string

// Sources
const (
	SourcePortal Source = "portal"
	SourceDoc    Source = "doc"
)

// RuleType selects the comparison a CrossSourceRule performs
type RuleType string

// Rule types
const (
	RuleTypeEquality         RuleType = "equality"
	RuleTypeInSet            RuleType = "in_set"
	RuleTypeRegex            RuleType = "regex"
	RuleTypeDateWithinYear   RuleType = "date_within_year"
	RuleTypePageCountBetween RuleType = "page_count_between"
	RuleTypeFlagsMatch       RuleType = "flags_match"
)

// FlagExpectation states whether a document flag must be set or unset
type FlagExpectation struct {
	Field    string `json:"field" yaml:"field" validate:"required"`
	Expected bool   `json:"expected" yaml:"expected"`
}

// FieldRef points at a value in the portal payload or in a document of a given type
type FieldRef struct {
	Source  Source `json:"source" yaml:"source" validate:"required,oneof=portal doc"`
	Field   string `json:"field" yaml:"field" validate:"required"`
	DocType string `json:"doc_type,omitempty" yaml:"doc_type,omitempty" validate:"required_if=Source doc"`
}

// PortalFieldValidation holds the single-field checks of one portal field.
// Required defaults to true when omitted.
type PortalFieldValidation struct {
	Type          FieldType `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=string number date boolean"`
	Required      *bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Pattern       string    `json:"pattern,omitempty" yaml:"pattern,omitempty" validate:"omitempty,regexp"`
	AllowedValues []string  `json:"allowed_values,omitempty" yaml:"allowed_values,omitempty"`
	MinLength     *int      `json:"min_length,omitempty" yaml:"min_length,omitempty" validate:"omitempty,min=0"`
	MaxLength     *int      `json:"max_length,omitempty" yaml:"max_length,omitempty" validate:"omitempty,min=0"`
	Description   string    `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsRequired reports whether an absent or empty value fails the field
func (p PortalFieldValidation) IsRequired() bool {
	return p.Required == nil || *p.Required
}

// CrossSourceRule compares values across the portal payload and supplier documents
type CrossSourceRule struct {
	ID          string    `json:"id" yaml:"id" validate:"required"`
	Description string    `json:"description" yaml:"description" validate:"required"`
	Severity    Severity  `json:"severity,omitempty" yaml:"severity,omitempty" validate:"omitempty,oneof=error warning"`
	RuleType    RuleType  `json:"rule_type" yaml:"rule_type" validate:"required,oneof=equality in_set regex date_within_year page_count_between flags_match"`
	Left        *FieldRef `json:"left,omitempty" yaml:"left,omitempty"`
	Right       *FieldRef `json:"right,omitempty" yaml:"right,omitempty"`
	Target      *FieldRef `json:"target,omitempty" yaml:"target,omitempty"`

	AllowedValues []string          `json:"allowed_values,omitempty" yaml:"allowed_values,omitempty"`
	Regex         string            `json:"regex,omitempty" yaml:"regex,omitempty" validate:"omitempty,regexp"`
	YearDelta     *int              `json:"year_delta,omitempty" yaml:"year_delta,omitempty"`
	MinPages      *int              `json:"min_pages,omitempty" yaml:"min_pages,omitempty"`
	MaxPages      *int              `json:"max_pages,omitempty" yaml:"max_pages,omitempty"`
	Flags         []FlagExpectation `json:"flags,omitempty" yaml:"flags,omitempty" validate:"omitempty,dive"`
}

// EffectiveSeverity returns the rule severity, error when unset
func (r CrossSourceRule) EffectiveSeverity() Severity {
	if r.Severity == "" {
		return SeverityError
	}
	return r.Severity
}

// ValidationConfig is the complete rule set loaded at startup
type ValidationConfig struct {
	PortalFieldValidations map[string]PortalFieldValidation `json:"portal_field_validations" yaml:"portal_field_validations" validate:"omitempty,dive"`
	CrossSourceRules       []CrossSourceRule                `json:"cross_source_rules" yaml:"cross_source_rules" validate:"omitempty,dive"`
}

// Validate checks the rule set for unknown enums, missing identifiers and
// patterns that do not compile.
func (c *ValidationConfig) Validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("regexp", validators.RegexpValidation); err != nil {
		return fmt.Errorf("failed to register custom validator: %w", err)
	}

	err := validate.Struct(c)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Namespace(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	seen := make(map[string]struct{}, len(c.CrossSourceRules))
	for _, rule := range c.CrossSourceRules {
		if _, dup := seen[rule.ID]; dup {
			return fmt.Errorf("validation failed: duplicate cross source rule id %q", rule.ID)
		}
		seen[rule.ID] = struct{}{}
	}

	return nil
}

// RuleResult is the outcome of one portal field check or cross source rule
type RuleResult struct {
	RuleID      string            `json:"rule_id"`
	Description string            `json:"description"`
	Status      RuleStatus        `json:"status"`
	Severity    Severity          `json:"severity"`
	Message     string            `json:"message"`
	Context     map[string]string `json:"context"`
}

// ValidationReport aggregates all rule results of one validation run
type ValidationReport struct {
	SummaryStatus RuleStatus   `json:"summary_status"`
	Results       []RuleResult `json:"results"`
}

// Summary counts rules by outcome class
type Summary struct {
	TotalRules int `json:"total_rules"`
	Errors     int `json:"errors"`
	Warnings   int `json:"warnings"`
}

// Summarize counts failing error-severity rules as errors, and failing
// warning-severity rules plus WARNING results as warnings.
func (r *ValidationReport) Summarize() Summary {
	s := Summary{TotalRules: len(r.Results)}
	for _, res := range r.Results {
		switch {
		case res.Status == StatusFail && res.Severity == SeverityError:
			s.Errors++
		case res.Status == StatusFail, res.Status == StatusWarning:
			s.Warnings++
		}
	}
	return s
}
