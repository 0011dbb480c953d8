//go:build unit
// +build unit

package v1

import (
	"context"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/registry"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"

	"github.com/stretchr/testify/mock"
)

// MockPortalValidationService is a mock implementation of PortalValidationService
type MockPortalValidationService struct {
	mock.Mock
}

func (m *MockPortalValidationService) ValidatePortalFields(ctx context.Context, supplierID string, fields map[string]any) (*portal.SupplierValidationResponse, error) {
	args := m.Called(ctx, supplierID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portal.SupplierValidationResponse), args.Error(1)
}

func (m *MockPortalValidationService) ValidateAndStore(ctx context.Context, payload *portal.SupplierPayload) (*portal.SupplierValidationResponse, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portal.SupplierValidationResponse), args.Error(1)
}

// MockFieldResultQueryService is a mock implementation of FieldResultQueryService
type MockFieldResultQueryService struct {
	mock.Mock
}

func (m *MockFieldResultQueryService) List(ctx context.Context, query *portal.FieldResultQuery) ([]*portal.FieldResultRecord, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*portal.FieldResultRecord), args.Error(1)
}

// MockVendorValidationService is a mock implementation of VendorValidationService
type MockVendorValidationService struct {
	mock.Mock
}

func (m *MockVendorValidationService) ValidateVendor(ctx context.Context, vendorID string, opts validation.VendorValidationOptions) (*validation.ValidationReport, error) {
	args := m.Called(ctx, vendorID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validation.ValidationReport), args.Error(1)
}

func (m *MockVendorValidationService) ValidateDocuments(ctx context.Context, docs map[string]map[string]any) (*validation.ValidationReport, error) {
	args := m.Called(ctx, docs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validation.ValidationReport), args.Error(1)
}

// MockRegistryService is a mock implementation of RegistryService
type MockRegistryService struct {
	mock.Mock
}

func (m *MockRegistryService) GetBasicInfo(ctx context.Context, crNumber string) (*registry.CommercialRegistration, error) {
	args := m.Called(ctx, crNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.CommercialRegistration), args.Error(1)
}

func (m *MockRegistryService) FetchAndSave(ctx context.Context, vendorID, crNumber string) (string, error) {
	args := m.Called(ctx, vendorID, crNumber)
	return args.String(0), args.Error(1)
}
