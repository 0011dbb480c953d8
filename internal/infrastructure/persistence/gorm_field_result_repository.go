package persistence

import (
	"context"
	"fmt"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"
	"github.com/Artef-ca/mobily-vrm-uc/internal/infrastructure/persistence/models"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/config"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/logger"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/metrics"

	"gorm.io/gorm"
)

const createBatchSize = 100

type gormFieldResultRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormFieldResultRepository creates a new GORM-based FieldResultRepository implementation
func NewGormFieldResultRepository(db *gorm.DB, logger logger.Logger) (portal.FieldResultRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &gormFieldResultRepository{
		db:     db,
		logger: logger,
	}, nil
}

// CreateBatch stores all records of one run in a single transaction
func (r *gormFieldResultRepository) CreateBatch(ctx context.Context, records []*portal.FieldResultRecord) (err error) {
	defer func() { metrics.RecordSinkWrite(config.DatabaseSinkType, len(records), err) }()

	if len(records) == 0 {
		return nil
	}

	modelList := make([]*models.FieldResultModel, len(records))
	for i, record := range records {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("validation error: %w", err)
		}
		modelList[i] = &models.FieldResultModel{}
		modelList[i].FromDomain(record)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(modelList, createBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("database insert failed: %w", err)
	}

	r.logger.Info(fmt.Sprintf("Inserted %d field results for supplier %s", len(records), records[0].SupplierID))
	return nil
}

// List returns the supplier's rows ordered by created_at descending
func (r *gormFieldResultRepository) List(ctx context.Context, query *portal.FieldResultQuery) ([]*portal.FieldResultRecord, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	var modelList []*models.FieldResultModel
	dbQuery := r.db.WithContext(ctx).
		Model(&models.FieldResultModel{}).
		Where("supplier_id = ?", query.SupplierID).
		Order("created_at desc").
		Order("field_name asc")

	if query.Limit > 0 {
		dbQuery = dbQuery.Limit(query.Limit)
	}
	if query.Offset > 0 {
		dbQuery = dbQuery.Offset(query.Offset)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch field results: %w", err)
	}

	domainList := make([]*portal.FieldResultRecord, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}
