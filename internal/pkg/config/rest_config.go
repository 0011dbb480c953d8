package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultRulesPath is the validation rule file used when none is configured
const DefaultRulesPath = "configs/portal_validation_config.json"

// ValidationSettings points at the rule file loaded once at startup.
type ValidationSettings struct {
	RulesPath string `mapstructure:"rules_path" validate:"required"`
}

// ResultsSinkSettings selects where field validation results are written.
type ResultsSinkSettings struct {
	Type string `mapstructure:"type" validate:"required,oneof=bigquery database"`
}

// DocumentSourceSettings selects where vendor portal data and documents are read from.
type DocumentSourceSettings struct {
	Type       string `mapstructure:"type" validate:"required,oneof=local gcs"`
	PortalRoot string `mapstructure:"portal_root"`
	OCRRoot    string `mapstructure:"ocr_root"`
	MasterRoot string `mapstructure:"master_root"`
}

// RestConfig holds every setting of the REST API process
type RestConfig struct {
	Port           string                 `mapstructure:"port" validate:"required"`
	Logger         LoggerSettings         `mapstructure:"logger"`
	Validation     ValidationSettings     `mapstructure:"validation"`
	ResultsSink    ResultsSinkSettings    `mapstructure:"results_sink"`
	BigQuery       BigQuerySettings       `mapstructure:"bigquery"`
	Database       DatabaseSettings       `mapstructure:"database"`
	DocumentSource DocumentSourceSettings `mapstructure:"document_source"`
	GCS            GCSSettings            `mapstructure:"gcs"`
	Wathq          WathqSettings          `mapstructure:"wathq"`
}

// envBindings maps configuration keys to the environment variables overriding them.
var envBindings = map[string]string{
	"port":                      "PORT",
	"logger.log_level":          "LOG_LEVEL",
	"logger.log_type":           "LOG_TYPE",
	"validation.rules_path":     "PORTAL_VALIDATION_CONFIG_PATH",
	"results_sink.type":         "RESULTS_SINK",
	"bigquery.project_id":       "BQ_PROJECT",
	"bigquery.dataset":          "BQ_DATASET",
	"bigquery.table":            "BQ_TABLE",
	"bigquery.credentials_path": "GOOGLE_APPLICATION_CREDENTIALS",
	"database.type":             "DATABASE_TYPE",
	"database.dsn":              "DATABASE_DSN",
	"database.name":             "DATABASE_NAME",
	"document_source.type":      "DOCUMENT_SOURCE",
	"gcs.project_id":            "GCS_PROJECT",
	"gcs.bucket":                "GCS_BUCKET",
	"gcs.credentials_path":      "GOOGLE_APPLICATION_CREDENTIALS",
	"wathq.base_url":            "WATHQ_BASE_URL",
	"wathq.api_key":             "WATHQ_API_KEY",
}

func setRestDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("validation.rules_path", DefaultRulesPath)
	v.SetDefault("results_sink.type", BigQuerySinkType)
	v.SetDefault("bigquery.dataset", DefaultBigQueryDataset)
	v.SetDefault("bigquery.table", DefaultBigQueryTable)
	v.SetDefault("document_source.type", LocalDocumentSource)
	v.SetDefault("document_source.portal_root", "data/portal")
	v.SetDefault("document_source.ocr_root", "data/ocr_docs")
	v.SetDefault("document_source.master_root", "data/master_data")
	v.SetDefault("gcs.portal_prefix", "portal")
	v.SetDefault("gcs.ocr_prefix", "ocr_docs")
	v.SetDefault("gcs.master_prefix", "master_data")
	v.SetDefault("wathq.base_url", DefaultWathqBaseURL)
	v.SetDefault("wathq.timeout", DefaultWathqTimeout)
	v.SetDefault("wathq.requests_per_second", DefaultWathqRequestsPerSecond)
	v.SetDefault("wathq.burst", DefaultWathqBurst)
}

// InitializeRestConfig loads the REST configuration. A missing file at path is not an
// error: defaults and environment variables are enough to run the service.
func InitializeRestConfig(path string) (*RestConfig, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setRestDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg RestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the top-level settings and the settings of the selected sink and source.
// BigQuery settings are left to the first write so the service starts without a project.
func (c *RestConfig) Validate() error {
	validate := validator.New()

	if err := validate.Struct(struct {
		Port        string `validate:"required"`
		Validation  ValidationSettings
		ResultsSink ResultsSinkSettings
		Source      DocumentSourceSettings
	}{c.Port, c.Validation, c.ResultsSink, c.DocumentSource}); err != nil {
		return fmt.Errorf("validation failed for RestConfig: %w", err)
	}

	if err := c.Logger.Validate(); err != nil {
		return err
	}

	if c.ResultsSink.Type == DatabaseSinkType {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}

	if c.DocumentSource.Type == GCSDocumentSource {
		if err := c.GCS.Validate(); err != nil {
			return err
		}
	}

	return c.Wathq.Validate()
}

// ConfigPathFromEnv returns CONFIG_PATH or the default REST config location.
func ConfigPathFromEnv() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "configs/rest-app.yaml"
}
