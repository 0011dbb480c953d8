package config

import "errors"

// Results sink types
const (
	BigQuerySinkType = "bigquery"
	DatabaseSinkType = "database"
)

// Document source types
const (
	LocalDocumentSource = "local"
	GCSDocumentSource   = "gcs"
)

// ErrUnsupportedSink is returned for a results sink type other than bigquery or database
var ErrUnsupportedSink = errors.New("unsupported results sink")

// ErrUnsupportedSource is returned for a document source type other than local or gcs
var ErrUnsupportedSource = errors.New("unsupported document source")
