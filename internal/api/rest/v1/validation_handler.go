package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"

	"github.com/gin-gonic/gin"
)

// ValidationHandler defines the interface for cross source validation
type ValidationHandler interface {
	ValidateDocuments(ctx *gin.Context)
	ValidateVendor(ctx *gin.Context)
}

type validationHandler struct {
	vendorValidationService validation.VendorValidationService
}

// NewValidationHandler creates a new ValidationHandler
func NewValidationHandler(vendorValidationService validation.VendorValidationService) ValidationHandler {
	return &validationHandler{
		vendorValidationService: vendorValidationService,
	}
}

// ValidateDocuments runs the rule set over the documents of the request body
func (handler *validationHandler) ValidateDocuments(ctx *gin.Context) {
	var request ValidateDocumentsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, newErrorResponse(fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	report, err := handler.vendorValidationService.ValidateDocuments(ctx, request.Documents)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, newErrorResponse(fmt.Sprintf("validation failed: %v", err)))
		return
	}

	ctx.JSON(http.StatusOK, newValidationReportResponse(report))
}

// ValidateVendor validates one vendor from the configured document source
func (handler *validationHandler) ValidateVendor(ctx *gin.Context) {
	vendorID := ctx.Param("id")

	var opts validation.VendorValidationOptions
	if withRegistry := ctx.Query("with_registry"); len(withRegistry) > 0 {
		parsed, err := strconv.ParseBool(withRegistry)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, newErrorResponse(fmt.Sprintf("invalid with_registry value %q", withRegistry)))
			return
		}
		opts.WithRegistry = parsed
	}

	report, err := handler.vendorValidationService.ValidateVendor(ctx, vendorID, opts)
	if err != nil {
		if errors.Is(err, documents.ErrInvalidVendorID) {
			ctx.JSON(http.StatusBadRequest, newErrorResponse(err.Error()))
			return
		}
		if errors.Is(err, documents.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, newErrorResponse(fmt.Sprintf("vendor with id %s not found", vendorID)))
			return
		}
		ctx.JSON(http.StatusInternalServerError, newErrorResponse(fmt.Sprintf("could not validate vendor %s: %v", vendorID, err)))
		return
	}

	ctx.JSON(http.StatusOK, newValidationReportResponse(report))
}
