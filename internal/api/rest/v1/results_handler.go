package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"

	"github.com/gin-gonic/gin"
)

// ResultsHandler defines the interface for reading stored field verdicts
type ResultsHandler interface {
	ListBySupplier(ctx *gin.Context)
}

type resultsHandler struct {
	fieldResultQueryService portal.FieldResultQueryService
}

// NewResultsHandler creates a new ResultsHandler
func NewResultsHandler(fieldResultQueryService portal.FieldResultQueryService) ResultsHandler {
	return &resultsHandler{
		fieldResultQueryService: fieldResultQueryService,
	}
}

// ListBySupplier returns the stored rows of one supplier, newest first
func (handler *resultsHandler) ListBySupplier(ctx *gin.Context) {
	query := portal.NewFieldResultQuery(ctx.Param("id"))

	for name, target := range map[string]*int{"limit": &query.Limit, "offset": &query.Offset} {
		raw := ctx.Query(name)
		if len(raw) == 0 {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, newErrorResponse(fmt.Sprintf("invalid %s value %q", name, raw)))
			return
		}
		*target = value
	}

	if err := query.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, newErrorResponse(err.Error()))
		return
	}

	records, err := handler.fieldResultQueryService.List(ctx, query)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, newErrorResponse(fmt.Sprintf("list query failed: %v", err)))
		return
	}

	listResponse := make([]FieldResultResponse, 0, len(records))
	for _, record := range records {
		listResponse = append(listResponse, newFieldResultResponse(record))
	}

	ctx.JSON(http.StatusOK, listResponse)
}
