package connector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Artef-ca/mobily-vrm-uc/internal/domain/registry"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/config"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/logger"
	"github.com/Artef-ca/mobily-vrm-uc/internal/pkg/metrics"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	wathqFullInfoPath = "/commercial-registration/fullinfo/"
	// maxErrorBody bounds how much of an error response ends up in logs
	maxErrorBody = 512
)

// Registry lookup outcomes recorded in metrics
const (
	lookupFound      = "found"
	lookupNotFound   = "not_found"
	lookupError      = "error"
	lookupMissingKey = "missing_key"
)

// Response keys tried in order for each registration attribute
var (
	crNumberKeys    = []string{"commercialRegistrationNumber", "crNumber", "id"}
	companyNameKeys = []string{"commercialName", "tradeName", "entityName", "name"}
	issueDateKeys   = []string{"issueDateGregorian", "issueDate", "registrationDate"}
)

// WathqConnector implements the RegistryConnector interface against the Wathq API
type WathqConnector struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logger.Logger
}

// NewWathqConnector creates a Wathq client. All callers share one token bucket.
func NewWathqConnector(settings *config.WathqSettings, logger logger.Logger) (*WathqConnector, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &WathqConnector{
		baseURL:    strings.TrimSuffix(settings.BaseURL, "/"),
		apiKey:     settings.APIKey,
		httpClient: &http.Client{Timeout: settings.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), settings.Burst),
		logger:     logger,
	}, nil
}

// GetBasicInfo fetches the CR number, company name and Gregorian issue date of crNumber
func (c *WathqConnector) GetBasicInfo(ctx context.Context, crNumber string) (*registry.CommercialRegistration, error) {
	if c.apiKey == "" {
		c.logger.Error(registry.ErrMissingAPIKey.Error())
		metrics.RecordRegistryLookup(lookupMissingKey)
		return nil, registry.ErrMissingAPIKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", registry.ErrRegistryUnavailable, err)
	}

	c.logger.Info(fmt.Sprintf("Fetching Wathq data for CR number: %s", crNumber))

	endpoint := c.baseURL + wathqFullInfoPath + url.PathEscape(crNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Wathq request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(fmt.Sprintf("Request failed for CR %s: %v", crNumber, err))
		metrics.RecordRegistryLookup(lookupError)
		return nil, fmt.Errorf("%w: %v", registry.ErrRegistryUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordRegistryLookup(lookupError)
		return nil, fmt.Errorf("%w: failed to read response: %v", registry.ErrRegistryUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error(fmt.Sprintf("Wathq API error for CR %s - Status %d: %s", crNumber, resp.StatusCode, truncate(string(body), maxErrorBody)))
		if resp.StatusCode == http.StatusNotFound {
			metrics.RecordRegistryLookup(lookupNotFound)
			return nil, fmt.Errorf("%w: %s", registry.ErrRegistryNotFound, crNumber)
		}
		metrics.RecordRegistryLookup(lookupError)
		return nil, fmt.Errorf("%w: status %d", registry.ErrRegistryUnavailable, resp.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		metrics.RecordRegistryLookup(lookupError)
		return nil, fmt.Errorf("%w: response is not valid JSON", registry.ErrRegistryUnavailable)
	}

	reg := ParseRegistration(body)
	metrics.RecordRegistryLookup(lookupFound)

	company := "<none>"
	if reg.CompanyName != nil {
		company = *reg.CompanyName
	}
	c.logger.Info(fmt.Sprintf("Successfully extracted Wathq data for CR %s: %s", crNumber, company))
	return reg, nil
}

// ParseRegistration extracts the registration attributes of a fullinfo response
func ParseRegistration(body []byte) *registry.CommercialRegistration {
	return &registry.CommercialRegistration{
		CRNumber:           firstTruthy(body, crNumberKeys),
		CompanyName:        firstTruthy(body, companyNameKeys),
		IssueDateGregorian: firstTruthy(body, issueDateKeys),
	}
}

// firstTruthy returns the first of keys whose top level value is set and not
// empty, zero or false.
func firstTruthy(body []byte, keys []string) *string {
	for _, key := range keys {
		res := gjson.GetBytes(body, gjson.Escape(key))
		if !truthy(res) {
			continue
		}
		v := res.String()
		if res.Type == gjson.JSON {
			v = res.Raw
		}
		return &v
	}
	return nil
}

func truthy(res gjson.Result) bool {
	switch res.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return res.Str != ""
	case gjson.Number:
		return res.Num != 0
	case gjson.JSON:
		return res.Raw != "{}" && res.Raw != "[]"
	}
	return res.Exists()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
