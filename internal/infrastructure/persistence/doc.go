// Package persistence stores portal field verdicts. Results go either to a
// BigQuery table through streaming inserts or to a relational database through
// GORM; both read rows back per supplier, newest first.
package persistence
