package persistence

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/config"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/logger"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/metrics"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// bigQueryRow mirrors the portal_field_validation table schema
type bigQueryRow struct {
	RunID         bigquery.NullString `bigquery:"run_id"`
	SupplierID    string              `bigquery:"supplier_id"`
	FieldName     string              `bigquery:"field_name"`
	FieldValue    bigquery.NullString `bigquery:"field_value"`
	IsValid       bool                `bigquery:"is_valid"`
	FailureReason bigquery.NullString `bigquery:"failure_reason"`
	CreatedAt     time.Time           `bigquery:"created_at"`
}

func nullString(s *string) bigquery.NullString {
	if s == nil {
		return bigquery.NullString{}
	}
	return bigquery.NullString{StringVal: *s, Valid: true}
}

func stringPtr(ns bigquery.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.StringVal
	return &s
}

func toBigQueryRow(r *portal.FieldResultRecord) *bigQueryRow {
	return &bigQueryRow{
		RunID:         bigquery.NullString{StringVal: r.RunID, Valid: r.RunID != ""},
		SupplierID:    r.SupplierID,
		FieldName:     r.FieldName,
		FieldValue:    nullString(r.FieldValue),
		IsValid:       r.IsValid,
		FailureReason: nullString(r.FailureReason),
		CreatedAt:     r.CreatedAt.UTC(),
	}
}

// toDomain leaves ID empty since the table has no row identifier
func (row *bigQueryRow) toDomain() *portal.FieldResultRecord {
	return &portal.FieldResultRecord{
		RunID:         row.RunID.StringVal,
		SupplierID:    row.SupplierID,
		FieldName:     row.FieldName,
		FieldValue:    stringPtr(row.FieldValue),
		IsValid:       row.IsValid,
		FailureReason: stringPtr(row.FailureReason),
		CreatedAt:     row.CreatedAt,
	}
}

// ErrBigQueryProjectNotSet is returned by every BigQuery operation when no project is configured
var ErrBigQueryProjectNotSet = errors.New("BQ_PROJECT env variable must be set")

// NewBigQueryClient creates a client for the configured project. The caller closes it.
func NewBigQueryClient(ctx context.Context, settings *config.BigQuerySettings) (*bigquery.Client, error) {
	if settings == nil {
		return nil, fmt.Errorf("bigquery settings are required")
	}
	if settings.ProjectID == "" {
		return nil, ErrBigQueryProjectNotSet
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if settings.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(settings.CredentialsPath))
	}

	client, err := bigquery.NewClient(ctx, settings.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}
	return client, nil
}

// BigQueryFieldResultRepository stores field results in BigQuery. The client is
// created on first use, so a missing project or credentials only fails the
// requests that touch the table.
type BigQueryFieldResultRepository struct {
	settings *config.BigQuerySettings
	logger   logger.Logger

	mu     sync.Mutex
	client *bigquery.Client
}

var _ portal.FieldResultRepository = (*BigQueryFieldResultRepository)(nil)

// NewBigQueryFieldResultRepository creates a FieldResultRepository writing to the
// table named by settings
func NewBigQueryFieldResultRepository(settings *config.BigQuerySettings, logger logger.Logger) (*BigQueryFieldResultRepository, error) {
	if settings == nil {
		return nil, fmt.Errorf("bigquery settings are required")
	}
	return &BigQueryFieldResultRepository{
		settings: settings,
		logger:   logger,
	}, nil
}

// getClient returns the shared client, creating it on the first successful call
func (r *BigQueryFieldResultRepository) getClient(ctx context.Context) (*bigquery.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return r.client, nil
	}

	// the client outlives the request that created it
	client, err := NewBigQueryClient(context.WithoutCancel(ctx), r.settings)
	if err != nil {
		return nil, err
	}
	r.client = client
	r.logger.Info("Connected to BigQuery table ", r.settings.TableID())
	return client, nil
}

// Close releases the client if one was created
func (r *BigQueryFieldResultRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

// CreateBatch streams one row per record. The record ID is used as insert ID.
func (r *BigQueryFieldResultRepository) CreateBatch(ctx context.Context, records []*portal.FieldResultRecord) (err error) {
	defer func() { metrics.RecordSinkWrite(config.BigQuerySinkType, len(records), err) }()

	if len(records) == 0 {
		return nil
	}

	client, err := r.getClient(ctx)
	if err != nil {
		return fmt.Errorf("BigQuery insert failed: %w", err)
	}

	savers := make([]*bigquery.StructSaver, len(records))
	for i, record := range records {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("validation error: %w", err)
		}
		savers[i] = &bigquery.StructSaver{Struct: toBigQueryRow(record), InsertID: record.ID}
	}

	inserter := client.Dataset(r.settings.Dataset).Table(r.settings.Table).Inserter()
	if err := inserter.Put(ctx, savers); err != nil {
		return fmt.Errorf("BigQuery insert failed: %w", err)
	}

	r.logger.Info(fmt.Sprintf("Inserted %d field results into %s", len(records), r.settings.TableID()))
	return nil
}

// listQuery builds the read-back statement. A zero limit returns every row after
// offset; BigQuery only accepts OFFSET behind a LIMIT, hence the max int64 limit.
func listQuery(tableID string, query *portal.FieldResultQuery) (string, []bigquery.QueryParameter) {
	sql := fmt.Sprintf("SELECT run_id, supplier_id, field_name, field_value, is_valid, failure_reason, created_at "+
		"FROM `%s` WHERE supplier_id = @supplier_id ORDER BY created_at DESC, field_name ASC", tableID)
	params := []bigquery.QueryParameter{{Name: "supplier_id", Value: query.SupplierID}}

	limit := int64(query.Limit)
	if limit <= 0 && query.Offset > 0 {
		limit = math.MaxInt64
	}
	if limit > 0 {
		sql += " LIMIT @limit"
		params = append(params, bigquery.QueryParameter{Name: "limit", Value: limit})
	}
	if query.Offset > 0 {
		sql += " OFFSET @offset"
		params = append(params, bigquery.QueryParameter{Name: "offset", Value: int64(query.Offset)})
	}
	return sql, params
}

// List returns the supplier's rows ordered by created_at descending
func (r *BigQueryFieldResultRepository) List(ctx context.Context, query *portal.FieldResultQuery) ([]*portal.FieldResultRecord, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	client, err := r.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query field results: %w", err)
	}

	sql, params := listQuery(r.settings.TableID(), query)
	q := client.Query(sql)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query field results: %w", err)
	}

	var records []*portal.FieldResultRecord
	for {
		var row bigQueryRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read field results: %w", err)
		}
		records = append(records, row.toDomain())
	}
	return records, nil
}
