//go:build unit
// +build unit

package app

import (
	"context"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/registry"
	"github.com/stretchr/testify/mock"
)

// MockFieldResultRepository is a mock implementation of FieldResultRepository
type MockFieldResultRepository struct {
	mock.Mock
}

func (m *MockFieldResultRepository) CreateBatch(ctx context.Context, records []*portal.FieldResultRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockFieldResultRepository) List(ctx context.Context, query *portal.FieldResultQuery) ([]*portal.FieldResultRecord, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*portal.FieldResultRecord), args.Error(1)
}

// MockDocumentSource is a mock implementation of DocumentSource
type MockDocumentSource struct {
	mock.Mock
}

func (m *MockDocumentSource) ListVendorIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDocumentSource) LoadVendorContext(ctx context.Context, vendorID string) (*documents.VendorContext, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*documents.VendorContext), args.Error(1)
}

// MockDocumentWriter is a mock implementation of DocumentWriter
type MockDocumentWriter struct {
	mock.Mock
}

func (m *MockDocumentWriter) Save(ctx context.Context, vendorID string, doc *documents.StructuredDocument) (string, error) {
	args := m.Called(ctx, vendorID, doc)
	return args.String(0), args.Error(1)
}

// MockRegistryConnector is a mock implementation of RegistryConnector
type MockRegistryConnector struct {
	mock.Mock
}

func (m *MockRegistryConnector) GetBasicInfo(ctx context.Context, crNumber string) (*registry.CommercialRegistration, error) {
	args := m.Called(ctx, crNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.CommercialRegistration), args.Error(1)
}
