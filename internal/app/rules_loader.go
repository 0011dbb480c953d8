package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"
	"gopkg.in/yaml.v3"
)

// LoadValidationConfig reads a rule file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON. Unknown JSON keys are rejected.
func LoadValidationConfig(path string) (*validation.ValidationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read validation config %s: %w", path, err)
	}

	cfg, err := ParseValidationConfig(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load validation config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseValidationConfig decodes data in the format given by ext, applies defaults
// and validates the result. Unknown keys are ignored in both formats.
func ParseValidationConfig(data []byte, ext string) (*validation.ValidationConfig, error) {
	var cfg validation.ValidationConfig

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	}

	applyConfigDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyConfigDefaults(cfg *validation.ValidationConfig) {
	if cfg.PortalFieldValidations == nil {
		cfg.PortalFieldValidations = map[string]validation.PortalFieldValidation{}
	}
	for name, field := range cfg.PortalFieldValidations {
		if field.Type == "" {
			field.Type = validation.FieldTypeString
		}
		if field.Required == nil {
			required := true
			field.Required = &required
		}
		cfg.PortalFieldValidations[name] = field
	}

	for i := range cfg.CrossSourceRules {
		if cfg.CrossSourceRules[i].Severity == "" {
			cfg.CrossSourceRules[i].Severity = validation.SeverityError
		}
	}
}
