package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/registry"

	"github.com/gin-gonic/gin"
)

// RegistryHandler defines the interface for commercial registry lookups
type RegistryHandler interface {
	GetBasicInfo(ctx *gin.Context)
	SaveForVendor(ctx *gin.Context)
}

type registryHandler struct {
	registryService registry.RegistryService
}

// NewRegistryHandler creates a new RegistryHandler
func NewRegistryHandler(registryService registry.RegistryService) RegistryHandler {
	return &registryHandler{
		registryService: registryService,
	}
}

// GetBasicInfo returns the registration of the CR number in the path
func (handler *registryHandler) GetBasicInfo(ctx *gin.Context) {
	crNumber := ctx.Param("cr")

	reg, err := handler.registryService.GetBasicInfo(ctx, crNumber)
	if err != nil {
		writeRegistryError(ctx, crNumber, err)
		return
	}

	ctx.JSON(http.StatusOK, reg)
}

// SaveForVendor fetches a registration and stores it as the vendor's moc_certificate document
func (handler *registryHandler) SaveForVendor(ctx *gin.Context) {
	vendorID := ctx.Param("id")

	var request SaveRegistryRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, newErrorResponse(fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	location, err := handler.registryService.FetchAndSave(ctx, vendorID, request.CRNumber)
	if err != nil {
		writeRegistryError(ctx, request.CRNumber, err)
		return
	}

	ctx.JSON(http.StatusCreated, SaveRegistryResponse{VendorID: vendorID, Location: location})
}

func writeRegistryError(ctx *gin.Context, crNumber string, err error) {
	switch {
	case errors.Is(err, documents.ErrInvalidVendorID):
		ctx.JSON(http.StatusBadRequest, newErrorResponse(err.Error()))
	case errors.Is(err, registry.ErrRegistryNotFound):
		ctx.JSON(http.StatusNotFound, newErrorResponse(fmt.Sprintf("commercial registration %s not found", crNumber)))
	case errors.Is(err, registry.ErrRegistryUnavailable):
		ctx.JSON(http.StatusServiceUnavailable, newErrorResponse(err.Error()))
	default:
		ctx.JSON(http.StatusInternalServerError, newErrorResponse(err.Error()))
	}
}
