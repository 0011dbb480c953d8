package v1

import (
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/registry"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	portalValidationService portal.PortalValidationService,
	fieldResultQueryService portal.FieldResultQueryService,
	vendorValidationService validation.VendorValidationService,
	registryService registry.RegistryService) {

	v1 := r.Group(BasePath)

	// Portal Routes
	portalHandler := NewPortalHandler(portalValidationService)
	r.POST(LegacyPortalPath, portalHandler.ValidatePortalFields)
	v1.POST("/validate-portal-fields", portalHandler.ValidatePortalFields)

	// Results Routes
	resultsHandler := NewResultsHandler(fieldResultQueryService)
	v1.GET("/suppliers/:id/results", resultsHandler.ListBySupplier)

	// Validation Routes
	validationHandler := NewValidationHandler(vendorValidationService)
	v1.POST("/validate", validationHandler.ValidateDocuments)
	v1.POST("/vendors/:id/validate", validationHandler.ValidateVendor)

	// Registry Routes
	registryHandler := NewRegistryHandler(registryService)
	v1.GET("/registry/:cr", registryHandler.GetBasicInfo)
	v1.POST("/vendors/:id/registry", registryHandler.SaveForVendor)
}
