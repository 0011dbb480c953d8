package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"

	"github.com/gin-gonic/gin"
)

// PortalHandler defines the interface for portal field validation
type PortalHandler interface {
	ValidatePortalFields(ctx *gin.Context)
}

type portalHandler struct {
	portalValidationService portal.PortalValidationService
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(portalValidationService portal.PortalValidationService) PortalHandler {
	return &portalHandler{
		portalValidationService: portalValidationService,
	}
}

// ValidatePortalFields validates the supplier's portal fields and stores one row per field
func (handler *portalHandler) ValidatePortalFields(ctx *gin.Context) {
	var payload portal.SupplierPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, newErrorResponse(fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	resp, err := handler.portalValidationService.ValidateAndStore(ctx, &payload)
	if err != nil {
		if errors.Is(err, portal.ErrResultsWrite) {
			ctx.JSON(http.StatusInternalServerError, newErrorResponse(err.Error()))
			return
		}
		ctx.JSON(http.StatusBadRequest, newErrorResponse(fmt.Sprintf("validation failed: %v", err)))
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
