package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/registry"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/logger"
)

// registryService implements the RegistryService interface
type registryService struct {
	connector registry.RegistryConnector
	writer    documents.DocumentWriter
	logger    logger.Logger
}

// NewRegistryService creates a new registryService instance. writer may be nil
// when registrations are never saved.
func NewRegistryService(connector registry.RegistryConnector, writer documents.DocumentWriter, logger logger.Logger) (registry.RegistryService, error) {
	if connector == nil {
		return nil, fmt.Errorf("registry connector is required")
	}
	return &registryService{
		connector: connector,
		writer:    writer,
		logger:    logger,
	}, nil
}

// GetBasicInfo returns the basic registration data of crNumber
func (s *registryService) GetBasicInfo(ctx context.Context, crNumber string) (*registry.CommercialRegistration, error) {
	crNumber = strings.TrimSpace(crNumber)
	if crNumber == "" {
		return nil, fmt.Errorf("cr number is required")
	}

	reg, err := s.connector.GetBasicInfo(ctx, crNumber)
	if err != nil {
		return nil, err
	}

	company := "<unknown>"
	if reg.CompanyName != nil {
		company = *reg.CompanyName
	}
	s.logger.Info(fmt.Sprintf("Fetched registry data for CR %s: %s", crNumber, company))
	return reg, nil
}

// FetchAndSave looks up crNumber and saves it as the vendor's moc_certificate
// document, returning where it was written.
func (s *registryService) FetchAndSave(ctx context.Context, vendorID, crNumber string) (string, error) {
	if s.writer == nil {
		return "", fmt.Errorf("no document writer configured")
	}
	if err := documents.ValidateVendorID(vendorID); err != nil {
		return "", err
	}

	reg, err := s.GetBasicInfo(ctx, crNumber)
	if err != nil {
		return "", err
	}

	location, err := s.writer.Save(ctx, vendorID, reg.ToDocument())
	if err != nil {
		return "", fmt.Errorf("failed to save moc certificate for vendor %s: %w", vendorID, err)
	}

	s.logger.Info(fmt.Sprintf("Saved MOC certificate to: %s", location))
	return location, nil
}
