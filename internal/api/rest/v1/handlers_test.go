//go:build unit
// +build unit

package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/documents"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/portal"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/registry"
	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	portal   *MockPortalValidationService
	query    *MockFieldResultQueryService
	vendor   *MockVendorValidationService
	registry *MockRegistryService
}

func setupTestRouter(t *testing.T) (*gin.Engine, *testServices) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	services := &testServices{
		portal:   new(MockPortalValidationService),
		query:    new(MockFieldResultQueryService),
		vendor:   new(MockVendorValidationService),
		registry: new(MockRegistryService),
	}

	r := gin.New()
	SetupRoutes(r, services.portal, services.query, services.vendor, services.registry)
	return r, services
}

func doRequest(t *testing.T, r *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Message
}

func TestPortalHandler_ValidatePortalFields_Success(t *testing.T) {
	r, services := setupTestRouter(t)

	reason := portal.ReasonMinLength
	services.portal.On("ValidateAndStore", mock.Anything, mock.MatchedBy(func(p *portal.SupplierPayload) bool {
		return p.SupplierID == "S-1" && p.Fields["company_name"] == "Ac"
	})).Return(&portal.SupplierValidationResponse{
		SupplierID: "S-1",
		Results:    []portal.FieldValidationResult{{FieldName: "company_name", IsValid: false, FailureReason: &reason}},
	}, nil)

	for _, url := range []string{"/validate-portal-fields", "/api/v1/validate-portal-fields"} {
		w := doRequest(t, r, http.MethodPost, url, map[string]any{
			"supplier_id": "S-1",
			"fields":      map[string]any{"company_name": "Ac"},
		})

		assert.Equal(t, http.StatusOK, w.Code, url)

		var resp portal.SupplierValidationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "S-1", resp.SupplierID)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, portal.ReasonMinLength, *resp.Results[0].FailureReason)
	}
	services.portal.AssertNumberOfCalls(t, "ValidateAndStore", 2)
}

func TestPortalHandler_ValidatePortalFields_InvalidBody(t *testing.T) {
	r, services := setupTestRouter(t)

	for _, body := range []any{
		"not json",
		map[string]any{"fields": map[string]any{}},
		map[string]any{"supplier_id": "S-1"},
		map[string]any{"supplier_id": strings.Repeat("S", 256), "fields": map[string]any{}},
	} {
		w := doRequest(t, r, http.MethodPost, "/api/v1/validate-portal-fields", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	}
	services.portal.AssertNotCalled(t, "ValidateAndStore", mock.Anything, mock.Anything)
}

func TestPortalHandler_ValidatePortalFields_WriteFailure(t *testing.T) {
	r, services := setupTestRouter(t)

	services.portal.On("ValidateAndStore", mock.Anything, mock.Anything).
		Return(nil, &portal.ResultsWriteError{Err: errors.New("BigQuery insert failed: quota exceeded")})

	w := doRequest(t, r, http.MethodPost, "/validate-portal-fields", map[string]any{
		"supplier_id": "S-1",
		"fields":      map[string]any{},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "BigQuery insert failed: quota exceeded", decodeError(t, w))
}

func TestValidationHandler_ValidateDocuments(t *testing.T) {
	r, services := setupTestRouter(t)

	services.vendor.On("ValidateDocuments", mock.Anything, mock.MatchedBy(func(docs map[string]map[string]any) bool {
		return len(docs) == 2 && docs["vendor_input"]["cr_number"] == "1010"
	})).Return(&validation.ValidationReport{
		SummaryStatus: validation.StatusFail,
		Results: []validation.RuleResult{
			{RuleID: "CR_MATCH", Status: validation.StatusPass, Severity: validation.SeverityError},
			{RuleID: "NAME_MATCH", Status: validation.StatusFail, Severity: validation.SeverityError},
		},
	}, nil)

	w := doRequest(t, r, http.MethodPost, "/api/v1/validate", map[string]any{
		"documents": map[string]any{
			"vendor_input":    map[string]any{"cr_number": "1010"},
			"moc_certificate": map[string]any{"fields": map[string]any{"cr_number": "1010"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp ValidationReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, validation.StatusFail, resp.SummaryStatus)
	assert.Equal(t, validation.Summary{TotalRules: 2, Errors: 1}, resp.Summary)
	assert.Len(t, resp.Results, 2)
}

func TestValidationHandler_ValidateDocuments_MissingDocuments(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/v1/validate", map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestValidationHandler_ValidateVendor(t *testing.T) {
	r, services := setupTestRouter(t)

	services.vendor.On("ValidateVendor", mock.Anything, "V-1", validation.VendorValidationOptions{WithRegistry: true}).
		Return(&validation.ValidationReport{SummaryStatus: validation.StatusPass}, nil)
	services.vendor.On("ValidateVendor", mock.Anything, "V-404", validation.VendorValidationOptions{}).
		Return(nil, documents.ErrNotFound)
	services.vendor.On("ValidateVendor", mock.Anything, "V-500", validation.VendorValidationOptions{}).
		Return(nil, errors.New("bucket unreachable"))

	w := doRequest(t, r, http.MethodPost, "/api/v1/vendors/V-1/validate?with_registry=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp ValidationReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, validation.StatusPass, resp.SummaryStatus)
	assert.NotNil(t, resp.Results)

	w = doRequest(t, r, http.MethodPost, "/api/v1/vendors/V-404/validate", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/v1/vendors/V-500/validate", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeError(t, w), "bucket unreachable")

	w = doRequest(t, r, http.MethodPost, "/api/v1/vendors/V-1/validate?with_registry=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResultsHandler_ListBySupplier(t *testing.T) {
	r, services := setupTestRouter(t)

	value := "1010123456"
	services.query.On("List", mock.Anything, &portal.FieldResultQuery{SupplierID: "S-1", Limit: 10, Offset: 5}).
		Return([]*portal.FieldResultRecord{{SupplierID: "S-1", FieldName: "cr_number", FieldValue: &value, IsValid: true}}, nil)
	services.query.On("List", mock.Anything, portal.NewFieldResultQuery("S-2")).
		Return(nil, nil)

	w := doRequest(t, r, http.MethodGet, "/api/v1/suppliers/S-1/results?limit=10&offset=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []FieldResultResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "cr_number", resp[0].FieldName)
	assert.Equal(t, value, *resp[0].FieldValue)

	w = doRequest(t, r, http.MethodGet, "/api/v1/suppliers/S-2/results", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = doRequest(t, r, http.MethodGet, "/api/v1/suppliers/S-1/results?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/v1/suppliers/S-1/results?limit=5000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegistryHandler_GetBasicInfo(t *testing.T) {
	r, services := setupTestRouter(t)

	name := "Acme"
	services.registry.On("GetBasicInfo", mock.Anything, "1010").
		Return(&registry.CommercialRegistration{CompanyName: &name}, nil)
	services.registry.On("GetBasicInfo", mock.Anything, "404").
		Return(nil, registry.ErrRegistryNotFound)
	services.registry.On("GetBasicInfo", mock.Anything, "503").
		Return(nil, registry.ErrRegistryUnavailable)
	services.registry.On("GetBasicInfo", mock.Anything, "500").
		Return(nil, registry.ErrMissingAPIKey)

	w := doRequest(t, r, http.MethodGet, "/api/v1/registry/1010", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cr_number":null,"company_name":"Acme","issue_date_gregorian":null}`, w.Body.String())

	for cr, status := range map[string]int{
		"404": http.StatusNotFound,
		"503": http.StatusServiceUnavailable,
		"500": http.StatusInternalServerError,
	} {
		w := doRequest(t, r, http.MethodGet, "/api/v1/registry/"+cr, nil)
		assert.Equal(t, status, w.Code, cr)
	}
}

func TestRegistryHandler_SaveForVendor(t *testing.T) {
	r, services := setupTestRouter(t)

	services.registry.On("FetchAndSave", mock.Anything, "V-1", "1010").
		Return("gs://bucket/ocr/V-1/moc_certificate.json", nil)

	w := doRequest(t, r, http.MethodPost, "/api/v1/vendors/V-1/registry", map[string]any{"cr_number": "1010"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp SaveRegistryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, SaveRegistryResponse{VendorID: "V-1", Location: "gs://bucket/ocr/V-1/moc_certificate.json"}, resp)

	w = doRequest(t, r, http.MethodPost, "/api/v1/vendors/V-1/registry", map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	services.registry.AssertNumberOfCalls(t, "FetchAndSave", 1)
}

func TestRegistryHandler_SaveForVendor_InvalidVendorID(t *testing.T) {
	r, services := setupTestRouter(t)

	services.registry.On("FetchAndSave", mock.Anything, "V..1", "1010").
		Return("", fmt.Errorf("%w: %q", documents.ErrInvalidVendorID, "V..1"))

	w := doRequest(t, r, http.MethodPost, "/api/v1/vendors/V..1/registry", map[string]any{"cr_number": "1010"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), "invalid vendor id")
}
