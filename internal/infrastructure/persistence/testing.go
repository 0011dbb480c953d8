//go:build integration
// +build integration

package persistence

import (
	"strings"
	"testing"
	"time"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/config"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestContext holds test database and repositories
type TestContext struct {
	DB              *gorm.DB
	FieldResultRepo portal.FieldResultRepository
}

// SetupTestDB initializes test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	cleanupFunc := func() {}

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type:   config.PostgresDbType,
			DSN:    "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			DBName: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		CloseDB(db)
		cleanupFunc()
	})

	repo, err := NewGormFieldResultRepository(db, testutil.SetupTestLogger(t))
	require.NoError(t, err, "Failed to create field result repository")

	return &TestContext{
		DB:              db,
		FieldResultRepo: repo,
	}
}

// CreateTestRecords builds one run of records for supplierID, one per field name
func CreateTestRecords(t *testing.T, supplierID string, createdAt time.Time, fieldNames ...string) []*portal.FieldResultRecord {
	t.Helper()

	runID := uuid.NewString()
	records := make([]*portal.FieldResultRecord, len(fieldNames))
	for i, name := range fieldNames {
		value := "value-" + name
		records[i] = &portal.FieldResultRecord{
			ID:         uuid.NewString(),
			RunID:      runID,
			SupplierID: supplierID,
			FieldName:  name,
			FieldValue: &value,
			IsValid:    true,
			CreatedAt:  createdAt,
		}
	}
	return records
}
