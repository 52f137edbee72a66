package brreg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
)

const (
	// Accept-header for enkeltenhet (v2-formatet)
	acceptEnhetV2 = "application/vnd.brreg.enhetsregisteret.enhet.v2+json"

	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// UnitCache is a best-effort read-through cache for single-entity fetches.
// Failures in the cache never affect the fetch itself.
type UnitCache interface {
	GetUnit(ctx context.Context, orgNumber string) (*Unit, bool)
	SetUnit(ctx context.Context, orgNumber string, unit *Unit)
}

// Config represents the configuration for the registry client
type Config struct {
	// BaseURL is the Enhetsregisteret API base URL
	BaseURL string

	// Timeout bounds every outbound request
	Timeout time.Duration
}

// Client fetches and searches units in Enhetsregisteret. All HTTP and
// wire-format concerns live here; callers only see normalized data.
type Client struct {
	config     Config
	httpClient *http.Client
	cache      UnitCache
}

// NewClient creates a new registry client with the given configuration
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://data.brreg.no/enhetsregisteret/api"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// UseCache attaches a unit cache to the client
func (c *Client) UseCache(cache UnitCache) {
	c.cache = cache
}

// GetUnit fetches a single unit by organization number.
// Returns (nil, nil) when the registry has no record (404) or the record was
// removed (410) - the two are not distinguished for callers. Any other
// failure returns (nil, err); callers that only care about "data or no data"
// treat that the same as nil.
func (c *Client) GetUnit(ctx context.Context, orgNumber string) (*Unit, error) {
	if orgNumber == "" {
		return nil, fmt.Errorf("org number is empty")
	}

	if c.cache != nil {
		if unit, ok := c.cache.GetUnit(ctx, orgNumber); ok {
			logger.Debug("Registry unit served from cache", map[string]interface{}{
				"org_number": orgNumber,
			})
			return unit, nil
		}
	}

	endpoint := fmt.Sprintf("%s/enheter/%s", c.config.BaseURL, orgNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", acceptEnhetV2)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Registry fetch failed", err, map[string]interface{}{
			"org_number": orgNumber,
		})
		return nil, fmt.Errorf("registry fetch failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	case http.StatusGone:
		// Enheten har eksistert, men er slettet fra registeret.
		// Behandles likt med 404 utad; skilles kun i loggen.
		logger.Info("Registry unit is gone (deregistered)", map[string]interface{}{
			"org_number": orgNumber,
		})
		return nil, nil
	default:
		logger.Warn("Registry returned unexpected status", map[string]interface{}{
			"org_number":  orgNumber,
			"status_code": resp.StatusCode,
		})
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var enhet enhetResponse
	if err := json.Unmarshal(body, &enhet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	unit := mapEnhet(&enhet)

	if c.cache != nil {
		c.cache.SetUnit(ctx, orgNumber, unit)
	}

	return unit, nil
}

// SearchByName searches the registry by name. Fails soft: network errors and
// non-2xx responses yield an empty slice, logged server-side - callers cannot
// tell "no matches" from "registry unreachable".
func (c *Client) SearchByName(ctx context.Context, query string, limit int) []SearchResult {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	params := url.Values{}
	params.Set("navn", query)
	params.Set("size", strconv.Itoa(limit))

	resp, err := c.doSearch(ctx, params)
	if err != nil {
		logger.Warn("Registry name search degraded to empty result", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return []SearchResult{}
	}

	results := make([]SearchResult, 0, len(resp.Embedded.Enheter))
	for i := range resp.Embedded.Enheter {
		results = append(results, mapSearchResult(&resp.Embedded.Enheter[i]))
	}
	return results
}

// Search performs a paginated filtered search. Page numbers are 1-based here
// and translated to the upstream 0-based convention. Fails soft: any upstream
// failure yields an empty page with totalPages=1.
func (c *Client) Search(ctx context.Context, filters SearchFilters, page, limit int) *SearchPage {
	result, err := c.SearchChecked(ctx, filters, page, limit)
	if err != nil {
		logger.Warn("Registry search degraded to empty result", map[string]interface{}{
			"error": err.Error(),
		})
		return EmptyPage(page)
	}
	return result
}

// SearchChecked is the error-propagating variant of Search, for callers that
// need to distinguish "zero matches" from "registry unreachable".
func (c *Client) SearchChecked(ctx context.Context, filters SearchFilters, page, limit int) (*SearchPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	params := url.Values{}
	params.Set("size", strconv.Itoa(limit))
	params.Set("page", strconv.Itoa(page-1)) // oppstrøms er 0-basert

	if filters.Query != "" {
		params.Set("navn", filters.Query)
	}
	if filters.Municipality != "" {
		params.Set("forretningsadresse.kommune", strings.ToUpper(filters.Municipality))
	}
	if filters.City != "" {
		params.Set("forretningsadresse.poststed", strings.ToUpper(filters.City))
	}
	if filters.LegalForm != "" {
		params.Set("organisasjonsform", filters.LegalForm)
	}
	if filters.IndustryCode != "" {
		params.Set("naeringskode", filters.IndustryCode)
	}
	if filters.VATRegistered != nil {
		params.Set("registrertIMvaregisteret", strconv.FormatBool(*filters.VATRegistered))
	}
	if filters.HasEmployees != nil {
		// Antall ansatte brukes som proxy for har/har-ikke ansatte
		if *filters.HasEmployees {
			params.Set("fraAntallAnsatte", "1")
		} else {
			params.Set("tilAntallAnsatte", "0")
		}
	}

	resp, err := c.doSearch(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]SearchResult, 0, len(resp.Embedded.Enheter))
	for i := range resp.Embedded.Enheter {
		items = append(items, mapSearchResult(&resp.Embedded.Enheter[i]))
	}

	totalPages := resp.Page.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}

	return &SearchPage{
		Items:       items,
		Total:       resp.Page.TotalElements,
		TotalPages:  totalPages,
		CurrentPage: resp.Page.Number + 1,
	}, nil
}

// GetUnitsForSearch returns the full normalized units behind a filtered
// search page, for callers persisting results into the local snapshot.
func (c *Client) GetUnitsForSearch(ctx context.Context, filters SearchFilters, page, limit int) ([]*Unit, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	params := url.Values{}
	params.Set("size", strconv.Itoa(limit))
	params.Set("page", strconv.Itoa(page-1))
	if filters.Query != "" {
		params.Set("navn", filters.Query)
	}
	if filters.Municipality != "" {
		params.Set("forretningsadresse.kommune", strings.ToUpper(filters.Municipality))
	}
	if filters.LegalForm != "" {
		params.Set("organisasjonsform", filters.LegalForm)
	}
	if filters.IndustryCode != "" {
		params.Set("naeringskode", filters.IndustryCode)
	}

	resp, err := c.doSearch(ctx, params)
	if err != nil {
		return nil, err
	}

	units := make([]*Unit, 0, len(resp.Embedded.Enheter))
	for i := range resp.Embedded.Enheter {
		units = append(units, mapEnhet(&resp.Embedded.Enheter[i]))
	}
	return units, nil
}

func (c *Client) doSearch(ctx context.Context, params url.Values) (*searchResponse, error) {
	endpoint := fmt.Sprintf("%s/enheter?%s", c.config.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &searchResp, nil
}
