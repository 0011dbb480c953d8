package app

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/validators"
)

// Rule ID prefixes of portal field results. The field name follows the "::" separator.
const (
	PortalFieldRequiredPrefix = "PORTAL_FIELD_REQUIRED"
	PortalFieldPatternPrefix  = "PORTAL_FIELD_PATTERN"
	PortalFieldInSetPrefix    = "PORTAL_FIELD_IN_SET"
	PortalFieldMinLenPrefix   = "PORTAL_FIELD_MIN_LEN"
	PortalFieldMaxLenPrefix   = "PORTAL_FIELD_MAX_LEN"
	PortalFieldOKPrefix       = "PORTAL_FIELD_OK"

	portalFieldPrefix  = "PORTAL_FIELD_"
	ruleIDSeparator    = "::"
	defaultMaxPages    = 1_000_000_000
	isoDateLayout      = "2006-01-02"
	portalSourcePrefix = "portal."
)

// dateLayouts are tried in order; day and month accept one or two digits
var dateLayouts = []string{"2006-1-2", "2/1/2006", "2-1-2006", "2.1.2006"}

// EngineOption customizes a validationEngine
type EngineOption func(*validationEngine)

// WithClock replaces the clock used by date_within_year rules
func WithClock(now func() time.Time) EngineOption {
	return func(e *validationEngine) {
		e.now = now
	}
}

// validationEngine implements the RuleEngine interface. It is immutable after
// construction and safe for concurrent use.
type validationEngine struct {
	config         *validation.ValidationConfig
	fieldNames     []string
	fieldPatterns  map[string]*regexp.Regexp
	rulePatterns   []*regexp.Regexp
	rulePatternErr []error
	now            func() time.Time
}

// NewValidationEngine creates a RuleEngine for cfg, precompiling every pattern
func NewValidationEngine(cfg *validation.ValidationConfig, opts ...EngineOption) (validation.RuleEngine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("validation config is nil")
	}

	e := &validationEngine{
		config:         cfg,
		fieldNames:     make([]string, 0, len(cfg.PortalFieldValidations)),
		fieldPatterns:  make(map[string]*regexp.Regexp),
		rulePatterns:   make([]*regexp.Regexp, len(cfg.CrossSourceRules)),
		rulePatternErr: make([]error, len(cfg.CrossSourceRules)),
		now:            time.Now,
	}

	for name, fieldCfg := range cfg.PortalFieldValidations {
		e.fieldNames = append(e.fieldNames, name)
		if fieldCfg.Pattern == "" {
			continue
		}
		re, err := validators.CompileAnchored(fieldCfg.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for portal field %q: %w", name, err)
		}
		e.fieldPatterns[name] = re
	}
	sort.Strings(e.fieldNames)

	// a broken rule regex fails that rule only
	for i, rule := range cfg.CrossSourceRules {
		if rule.RuleType != validation.RuleTypeRegex || rule.Regex == "" {
			continue
		}
		e.rulePatterns[i], e.rulePatternErr[i] = validators.CompileAnchored(rule.Regex)
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Validate runs the portal field checks in field name order, then every cross
// source rule in configuration order.
func (e *validationEngine) Validate(portal map[string]any, docsByType map[string]map[string]any) *validation.ValidationReport {
	results := make([]validation.RuleResult, 0, len(e.fieldNames)+len(e.config.CrossSourceRules))

	for _, name := range e.fieldNames {
		if res, ok := e.validatePortalField(name, e.config.PortalFieldValidations[name], portal); ok {
			results = append(results, res)
		}
	}

	for i, rule := range e.config.CrossSourceRules {
		results = append(results, e.applyRule(i, rule, portal, docsByType))
	}

	return &validation.ValidationReport{
		SummaryStatus: aggregateStatus(results),
		Results:       results,
	}
}

func aggregateStatus(results []validation.RuleResult) validation.RuleStatus {
	hasWarning := false
	for _, r := range results {
		switch r.Status {
		case validation.StatusFail:
			return validation.StatusFail
		case validation.StatusWarning:
			hasWarning = true
		}
	}
	if hasWarning {
		return validation.StatusWarning
	}
	return validation.StatusPass
}

// IsPortalFieldRule reports whether ruleID belongs to a portal field check
func IsPortalFieldRule(ruleID string) bool {
	return strings.HasPrefix(ruleID, portalFieldPrefix)
}

// SplitPortalRuleID returns the prefix and field name of a portal field rule ID
func SplitPortalRuleID(ruleID string) (prefix, field string) {
	prefix, field, found := strings.Cut(ruleID, ruleIDSeparator)
	if !found {
		return ruleID, ""
	}
	return prefix, field
}

func portalRuleID(prefix, field string) string {
	return prefix + ruleIDSeparator + field
}

func (e *validationEngine) validatePortalField(name string, cfg validation.PortalFieldValidation, portal map[string]any) (validation.RuleResult, bool) {
	raw := portal[name]

	if validation.IsMissing(raw) {
		if !cfg.IsRequired() {
			return validation.RuleResult{}, false
		}
		return portalFailure(PortalFieldRequiredPrefix, name,
			fmt.Sprintf("%s is required", name),
			fmt.Sprintf("Field '%s' is missing or empty.", name)), true
	}

	value := validation.Stringify(raw)

	if re, ok := e.fieldPatterns[name]; ok && !re.MatchString(value) {
		return portalFailure(PortalFieldPatternPrefix, name,
			fmt.Sprintf("%s must match pattern", name),
			fmt.Sprintf("Field '%s' has invalid format: %q", name, value)), true
	}

	if len(cfg.AllowedValues) > 0 && !contains(cfg.AllowedValues, value) {
		return portalFailure(PortalFieldInSetPrefix, name,
			fmt.Sprintf("%s must be one of allowed values", name),
			fmt.Sprintf("Field '%s' has value %q not in %s", name, value, formatList(cfg.AllowedValues))), true
	}

	length := utf8.RuneCountInString(value)
	if cfg.MinLength != nil && length < *cfg.MinLength {
		return portalFailure(PortalFieldMinLenPrefix, name,
			fmt.Sprintf("%s must have at least %d characters", name, *cfg.MinLength),
			fmt.Sprintf("Field '%s' is too short", name)), true
	}
	if cfg.MaxLength != nil && length > *cfg.MaxLength {
		return portalFailure(PortalFieldMaxLenPrefix, name,
			fmt.Sprintf("%s must have at most %d characters", name, *cfg.MaxLength),
			fmt.Sprintf("Field '%s' is too long", name)), true
	}

	return validation.RuleResult{
		RuleID:      portalRuleID(PortalFieldOKPrefix, name),
		Description: fmt.Sprintf("%s basic validation", name),
		Status:      validation.StatusPass,
		Severity:    validation.SeverityWarning,
		Message:     fmt.Sprintf("Field '%s' passed basic validation.", name),
		Context:     map[string]string{},
	}, true
}

func portalFailure(prefix, field, description, message string) validation.RuleResult {
	return validation.RuleResult{
		RuleID:      portalRuleID(prefix, field),
		Description: description,
		Status:      validation.StatusFail,
		Severity:    validation.SeverityError,
		Message:     message,
		Context:     map[string]string{},
	}
}

// applyRule evaluates one cross source rule. Errors and panics inside a rule
// become a FAIL result for that rule only.
func (e *validationEngine) applyRule(idx int, rule validation.CrossSourceRule, portal map[string]any, docs map[string]map[string]any) (res validation.RuleResult) {
	defer func() {
		if r := recover(); r != nil {
			res = ruleResult(rule, validation.StatusFail, fmt.Sprintf("Exception while applying rule: %v", r), nil)
		}
	}()

	var err error
	switch rule.RuleType {
	case validation.RuleTypeEquality:
		res, err = e.ruleEquality(rule, portal, docs)
	case validation.RuleTypeInSet:
		res, err = e.ruleInSet(rule, portal, docs)
	case validation.RuleTypeRegex:
		res, err = e.ruleRegex(idx, rule, portal, docs)
	case validation.RuleTypeDateWithinYear:
		res, err = e.ruleDateWithinYear(rule, portal, docs)
	case validation.RuleTypePageCountBetween:
		res, err = e.rulePageCount(rule, docs)
	case validation.RuleTypeFlagsMatch:
		res, err = e.ruleFlagsMatch(rule, docs)
	default:
		return ruleResult(rule, validation.StatusSkip, fmt.Sprintf("Unknown rule_type %q", rule.RuleType), nil)
	}

	if err != nil {
		return ruleResult(rule, validation.StatusFail, fmt.Sprintf("Exception while applying rule: %v", err), nil)
	}
	return res
}

func ruleResult(rule validation.CrossSourceRule, status validation.RuleStatus, message string, context map[string]string) validation.RuleResult {
	if context == nil {
		context = map[string]string{}
	}
	return validation.RuleResult{
		RuleID:      rule.ID,
		Description: rule.Description,
		Status:      status,
		Severity:    rule.EffectiveSeverity(),
		Message:     message,
		Context:     context,
	}
}

// resolveField returns the referenced value and its dotted path
func resolveField(ref *validation.FieldRef, portal map[string]any, docs map[string]map[string]any) (any, string, error) {
	switch ref.Source {
	case validation.SourcePortal:
		return portal[ref.Field], portalSourcePrefix + ref.Field, nil
	case validation.SourceDoc:
		if ref.DocType == "" {
			return nil, "", fmt.Errorf("doc_type is required for doc source")
		}
		fields, err := docFields(docs[ref.DocType], ref.DocType)
		if err != nil {
			return nil, "", err
		}
		return fields[ref.Field], ref.DocType + "." + ref.Field, nil
	}
	return nil, "", fmt.Errorf("unknown source %q", ref.Source)
}

// docFields returns doc["fields"] when the document has one, else the document itself
func docFields(doc map[string]any, docType string) (map[string]any, error) {
	raw, ok := doc["fields"]
	if !ok {
		return doc, nil
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s.fields is %T, expected an object", docType, raw)
	}
	return fields, nil
}

func (e *validationEngine) ruleEquality(rule validation.CrossSourceRule, portal map[string]any, docs map[string]map[string]any) (validation.RuleResult, error) {
	if rule.Left == nil || rule.Right == nil {
		return validation.RuleResult{}, fmt.Errorf("equality rule requires left and right")
	}

	left, leftPath, err := resolveField(rule.Left, portal, docs)
	if err != nil {
		return validation.RuleResult{}, err
	}
	right, rightPath, err := resolveField(rule.Right, portal, docs)
	if err != nil {
		return validation.RuleResult{}, err
	}

	if left == nil || right == nil {
		return ruleResult(rule, validation.StatusFail,
			fmt.Sprintf("Missing values: %s=%s, %s=%s", leftPath, validation.Describe(left), rightPath, validation.Describe(right)),
			map[string]string{"left_path": leftPath, "right_path": rightPath}), nil
	}

	leftStr, rightStr := validation.Stringify(left), validation.Stringify(right)
	context := map[string]string{"left": leftStr, "right": rightStr}

	if strings.TrimSpace(leftStr) == strings.TrimSpace(rightStr) {
		return ruleResult(rule, validation.StatusPass,
			fmt.Sprintf("Values match for %s and %s", leftPath, rightPath), context), nil
	}

	return ruleResult(rule, validation.StatusFail,
		fmt.Sprintf("Values differ: %s=%q, %s=%q", leftPath, leftStr, rightPath, rightStr), context), nil
}

func (e *validationEngine) ruleInSet(rule validation.CrossSourceRule, portal map[string]any, docs map[string]map[string]any) (validation.RuleResult, error) {
	if rule.Target == nil || len(rule.AllowedValues) == 0 {
		return validation.RuleResult{}, fmt.Errorf("in_set rule requires target and allowed_values")
	}

	value, path, err := resolveField(rule.Target, portal, docs)
	if err != nil {
		return validation.RuleResult{}, err
	}
	if value == nil {
		return ruleResult(rule, validation.StatusFail, fmt.Sprintf("Missing value at %s", path), nil), nil
	}

	valueStr := validation.Stringify(value)
	if contains(rule.AllowedValues, valueStr) {
		return ruleResult(rule, validation.StatusPass, fmt.Sprintf("%s value %q is allowed", path, valueStr), nil), nil
	}

	return ruleResult(rule, validation.StatusFail,
		fmt.Sprintf("%s value %q is not in allowed set %s", path, valueStr, formatList(rule.AllowedValues)), nil), nil
}

func (e *validationEngine) ruleRegex(idx int, rule validation.CrossSourceRule, portal map[string]any, docs map[string]map[string]any) (validation.RuleResult, error) {
	if rule.Target == nil || rule.Regex == "" {
		return validation.RuleResult{}, fmt.Errorf("regex rule requires target and regex")
	}
	if err := e.rulePatternErr[idx]; err != nil {
		return validation.RuleResult{}, fmt.Errorf("invalid regex %q: %w", rule.Regex, err)
	}

	value, path, err := resolveField(rule.Target, portal, docs)
	if err != nil {
		return validation.RuleResult{}, err
	}
	valueStr := validation.Stringify(value)

	if e.rulePatterns[idx].MatchString(valueStr) {
		return ruleResult(rule, validation.StatusPass, fmt.Sprintf("%s value matches regex", path), nil), nil
	}

	return ruleResult(rule, validation.StatusFail,
		fmt.Sprintf("%s value %q does not match regex %q", path, valueStr, rule.Regex), nil), nil
}

func (e *validationEngine) ruleDateWithinYear(rule validation.CrossSourceRule, portal map[string]any, docs map[string]map[string]any) (validation.RuleResult, error) {
	if rule.Target == nil {
		return validation.RuleResult{}, fmt.Errorf("date_within_year rule requires target")
	}

	value, path, err := resolveField(rule.Target, portal, docs)
	if err != nil {
		return validation.RuleResult{}, err
	}
	if !validation.Truthy(value) {
		return ruleResult(rule, validation.StatusFail, fmt.Sprintf("%s is missing", path), nil), nil
	}

	yearDelta := 0
	if rule.YearDelta != nil {
		yearDelta = *rule.YearDelta
	}

	date, err := ParseDate(validation.Stringify(value))
	if err != nil {
		return ruleResult(rule, validation.StatusFail, fmt.Sprintf("%s date parse error: %v", path, err), nil), nil
	}

	diff := e.now().UTC().Year() - date.Year()
	if diff < 0 {
		diff = -diff
	}

	if diff <= yearDelta {
		return ruleResult(rule, validation.StatusPass,
			fmt.Sprintf("%s date %s is within %d year(s) of now", path, date.Format(isoDateLayout), yearDelta), nil), nil
	}

	return ruleResult(rule, validation.StatusFail,
		fmt.Sprintf("%s date %s is older than %d year(s)", path, date.Format(isoDateLayout), yearDelta), nil), nil
}

// ParseDate parses YYYY-MM-DD, DD/MM/YYYY, DD-MM-YYYY or DD.MM.YYYY
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", value)
}

func (e *validationEngine) rulePageCount(rule validation.CrossSourceRule, docs map[string]map[string]any) (validation.RuleResult, error) {
	if rule.Target == nil {
		return validation.RuleResult{}, fmt.Errorf("page_count_between rule requires target")
	}
	docType := rule.Target.DocType
	if docType == "" {
		return validation.RuleResult{}, fmt.Errorf("page_count_between rule requires target.doc_type")
	}

	doc := docs[docType]
	pages := doc["pages"]
	if !validation.Truthy(pages) {
		pages = doc["page_count"]
	}

	var pageCount int
	if list, ok := pages.([]any); ok {
		pageCount = len(list)
	} else {
		if !validation.Truthy(pages) {
			pages = nil
		}
		n, err := validation.ToInt(pages)
		if err != nil {
			return validation.RuleResult{}, err
		}
		pageCount = n
	}

	minPages, maxPages := 0, defaultMaxPages
	if rule.MinPages != nil {
		minPages = *rule.MinPages
	}
	if rule.MaxPages != nil && *rule.MaxPages != 0 {
		maxPages = *rule.MaxPages
	}

	if minPages <= pageCount && pageCount <= maxPages {
		return ruleResult(rule, validation.StatusPass,
			fmt.Sprintf("%s has %d pages (within [%d, %d])", docType, pageCount, minPages, maxPages), nil), nil
	}

	return ruleResult(rule, validation.StatusFail,
		fmt.Sprintf("%s has %d pages (expected between %d and %d)", docType, pageCount, minPages, maxPages), nil), nil
}

func (e *validationEngine) ruleFlagsMatch(rule validation.CrossSourceRule, docs map[string]map[string]any) (validation.RuleResult, error) {
	if rule.Target == nil || len(rule.Flags) == 0 {
		return validation.RuleResult{}, fmt.Errorf("flags_match rule requires target and flags")
	}
	docType := rule.Target.DocType
	if docType == "" {
		return validation.RuleResult{}, fmt.Errorf("flags_match rule requires target.doc_type")
	}

	fields, err := docFields(docs[docType], docType)
	if err != nil {
		return validation.RuleResult{}, err
	}

	var mismatches []string
	for _, flag := range rule.Flags {
		actual := validation.Truthy(fields[flag.Field])
		if actual != flag.Expected {
			mismatches = append(mismatches, fmt.Sprintf("%s=expected %t, got %t", flag.Field, flag.Expected, actual))
		}
	}

	if len(mismatches) == 0 {
		return ruleResult(rule, validation.StatusPass, fmt.Sprintf("All required flags present for %s", docType), nil), nil
	}

	return ruleResult(rule, validation.StatusFail,
		fmt.Sprintf("Flag mismatches for %s: %s", docType, strings.Join(mismatches, ", ")), nil), nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func formatList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
