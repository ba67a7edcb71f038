// Package repo implements the client for the external aggregation/search
// service every report endpoint queries.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/crashstack/crashstats-web/internal/cache"
	"github.com/crashstack/crashstats-web/internal/metrics"
	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/utils"
)

const versionsCacheKey = "middleware:currentversions"

// MiddlewareClient wraps the aggregation service's report APIs. The
// current-versions table snapshot is cached with a TTL; everything else is
// fetched per request.
type MiddlewareClient struct {
	baseURL     string
	httpClient  *http.Client
	cache       cache.Provider
	versionsTTL time.Duration
}

// NewMiddlewareClient constructs a client targeting the configured service.
func NewMiddlewareClient(baseURL string, timeout time.Duration, cacheProvider cache.Provider, versionsTTL time.Duration) *MiddlewareClient {
	if cacheProvider == nil {
		cacheProvider = cache.NoopProvider{}
	}
	return &MiddlewareClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		cache:       cacheProvider,
		versionsTTL: versionsTTL,
	}
}

// CurrentVersions returns the current version/release table. The snapshot is
// served from cache within the configured TTL; the table itself is refreshed
// by the middleware on its own cadence.
func (c *MiddlewareClient) CurrentVersions(ctx context.Context) ([]models.VersionRelease, error) {
	if cached, err := c.cache.Get(ctx, versionsCacheKey); err == nil {
		var releases []models.VersionRelease
		if err := json.Unmarshal(cached, &releases); err == nil {
			return releases, nil
		}
		_ = c.cache.Del(ctx, versionsCacheKey)
	}

	var response struct {
		CurrentVersions []models.VersionRelease `json:"currentversions"`
	}
	if err := c.getJSON(ctx, "current/versions", "currentversions", nil, &response); err != nil {
		return nil, fmt.Errorf("middleware current versions request failed: %w", err)
	}

	if encoded, err := json.Marshal(response.CurrentVersions); err == nil {
		_ = c.cache.Set(ctx, versionsCacheKey, encoded, c.versionsTTL)
	}
	return response.CurrentVersions, nil
}

// CurrentProducts returns the current products listing.
func (c *MiddlewareClient) CurrentProducts(ctx context.Context) ([]models.Product, error) {
	var response struct {
		Hits []models.Product `json:"hits"`
	}
	if err := c.getJSON(ctx, "current/products", "currentproducts", nil, &response); err != nil {
		return nil, fmt.Errorf("middleware current products request failed: %w", err)
	}
	return response.Hits, nil
}

// ProductsVersions returns each product with its known version strings, in
// service order. The first entry is the default product for searches that
// name none.
func (c *MiddlewareClient) ProductsVersions(ctx context.Context) ([]models.ProductVersions, error) {
	var response struct {
		Products []models.ProductVersions `json:"products"`
	}
	if err := c.getJSON(ctx, "products/versions", "productsversions", nil, &response); err != nil {
		return nil, fmt.Errorf("middleware products versions request failed: %w", err)
	}
	return response.Products, nil
}

// CrashVolume fetches per-day crash ratios keyed product:version then day.
func (c *MiddlewareClient) CrashVolume(ctx context.Context, product string, versions, osNames []string, start, end time.Time) (map[string]map[string]models.VolumeDay, error) {
	query := url.Values{}
	query.Set("product", product)
	query.Set("versions", strings.Join(versions, "+"))
	query.Set("os", strings.Join(osNames, "+"))
	query.Set("from_date", start.Format(utils.DayOnly))
	query.Set("to_date", end.Format(utils.DayOnly))

	var response struct {
		Hits map[string]map[string]models.VolumeDay `json:"hits"`
	}
	if err := c.getJSON(ctx, "crashes", "crashes", query, &response); err != nil {
		return nil, fmt.Errorf("middleware crash volume request failed: %w", err)
	}
	return response.Hits, nil
}

// TopCrashers fetches the TCBS ranking for one product and version.
func (c *MiddlewareClient) TopCrashers(ctx context.Context, product, version, crashType string, end time.Time, durationHours, limit int) (models.TopCrasherPage, error) {
	query := url.Values{}
	query.Set("product", product)
	query.Set("version", version)
	query.Set("crash_type", crashType)
	query.Set("end_date", end.Format(utils.ServiceDateTime))
	query.Set("duration", fmt.Sprint(durationHours))
	query.Set("limit", fmt.Sprint(limit))

	var page models.TopCrasherPage
	if err := c.getJSON(ctx, "crashes/signatures", "tcbs", query, &page); err != nil {
		return models.TopCrasherPage{}, fmt.Errorf("middleware tcbs request failed: %w", err)
	}
	return page, nil
}

// Bugs fetches bug associations for a set of signatures.
func (c *MiddlewareClient) Bugs(ctx context.Context, signatures []string) ([]models.BugAssociation, error) {
	query := url.Values{}
	for _, signature := range signatures {
		query.Add("signature", signature)
	}

	var response struct {
		Hits []models.BugAssociation `json:"hits"`
	}
	if err := c.getJSON(ctx, "bugs", "bugs", query, &response); err != nil {
		return nil, fmt.Errorf("middleware bugs request failed: %w", err)
	}
	return response.Hits, nil
}

// DailyBuilds fetches build records for a product, optionally narrowed to
// one version.
func (c *MiddlewareClient) DailyBuilds(ctx context.Context, product, version string) ([]models.BuildRow, error) {
	query := url.Values{}
	query.Set("product", product)
	if version != "" {
		query.Set("version", version)
	}

	var rows []models.BuildRow
	if err := c.getJSON(ctx, "products/builds", "dailybuilds", query, &rows); err != nil {
		return nil, fmt.Errorf("middleware daily builds request failed: %w", err)
	}
	return rows, nil
}

// HangReport fetches one page of the server-side paginated hang report.
func (c *MiddlewareClient) HangReport(ctx context.Context, product, version string, end time.Time, days, pageSize, page int) (models.HangReportPage, error) {
	query := url.Values{}
	query.Set("product", product)
	query.Set("version", version)
	query.Set("end_date", end.Format(utils.DayOnly))
	query.Set("duration", fmt.Sprint(days))
	query.Set("listsize", fmt.Sprint(pageSize))
	query.Set("page", fmt.Sprint(page))

	var report models.HangReportPage
	if err := c.getJSON(ctx, "reports/hang", "hangreport", query, &report); err != nil {
		return models.HangReportPage{}, fmt.Errorf("middleware hang report request failed: %w", err)
	}
	return report, nil
}

// ProcessedCrash fetches the processed form of one crash report.
func (c *MiddlewareClient) ProcessedCrash(ctx context.Context, crashID string) (models.ProcessedCrash, error) {
	var crash models.ProcessedCrash
	if err := c.getJSON(ctx, path.Join("crash", crashID), "processedcrash", nil, &crash); err != nil {
		return models.ProcessedCrash{}, fmt.Errorf("middleware processed crash request failed: %w", err)
	}
	return crash, nil
}

// RawCrash fetches the unprocessed crash annotations for one report.
func (c *MiddlewareClient) RawCrash(ctx context.Context, crashID string) (models.RawCrash, error) {
	var raw models.RawCrash
	if err := c.getJSON(ctx, path.Join("crash", crashID, "raw"), "rawcrash", nil, &raw); err != nil {
		return nil, fmt.Errorf("middleware raw crash request failed: %w", err)
	}
	return raw, nil
}

// CommentsBySignature fetches user comments left on crashes sharing a
// signature inside the window.
func (c *MiddlewareClient) CommentsBySignature(ctx context.Context, signature string, start, end time.Time) (models.CommentsPage, error) {
	query := url.Values{}
	query.Set("signature", signature)
	query.Set("from_date", start.Format(utils.ServiceDateTime))
	query.Set("to_date", end.Format(utils.ServiceDateTime))

	var page models.CommentsPage
	if err := c.getJSON(ctx, "crashes/comments", "comments", query, &page); err != nil {
		return models.CommentsPage{}, fmt.Errorf("middleware comments request failed: %w", err)
	}
	return page, nil
}

// CrashPairsByCrashID fetches crash ids paired with a hang event.
func (c *MiddlewareClient) CrashPairsByCrashID(ctx context.Context, uuid, hangID string) ([]string, error) {
	query := url.Values{}
	query.Set("uuid", uuid)
	query.Set("hangid", hangID)

	var response struct {
		Hits []string `json:"hits"`
	}
	if err := c.getJSON(ctx, "crashes/paireduuid", "crashpairs", query, &response); err != nil {
		return nil, fmt.Errorf("middleware crash pairs request failed: %w", err)
	}
	return response.Hits, nil
}

// ReportList fetches one page of crash reports matching a signature.
func (c *MiddlewareClient) ReportList(ctx context.Context, signature, versionKey string, start time.Time, pageSize, offset int) (models.ReportListPage, error) {
	query := url.Values{}
	query.Set("signature", signature)
	query.Set("version", versionKey)
	query.Set("from_date", start.Format(utils.DayOnly))
	query.Set("result_number", fmt.Sprint(pageSize))
	query.Set("result_offset", fmt.Sprint(offset))

	var page models.ReportListPage
	if err := c.getJSON(ctx, "report/list", "reportlist", query, &page); err != nil {
		return models.ReportListPage{}, fmt.Errorf("middleware report list request failed: %w", err)
	}
	return page, nil
}

// Status fetches recent processing-status samples, newest first.
func (c *MiddlewareClient) Status(ctx context.Context) (models.StatusPage, error) {
	var page models.StatusPage
	if err := c.getJSON(ctx, "server_status", "status", nil, &page); err != nil {
		return models.StatusPage{}, fmt.Errorf("middleware status request failed: %w", err)
	}
	return page, nil
}

// SearchQuery carries every filter of one free-text search call. Fields are
// filled by the defaults policy before the call is made.
type SearchQuery struct {
	Terms            string
	Products         []string
	Versions         []string
	OS               []string
	Start            time.Time
	End              time.Time
	SearchMode       string
	Reasons          string
	BuildIDs         string
	ProcessType      string
	HangType         string
	PluginField      string
	PluginSearchMode string
	PluginTerms      string
	ResultCount      int
	ResultOffset     int
}

// Search performs a free-text search over crash reports.
func (c *MiddlewareClient) Search(ctx context.Context, q SearchQuery) (models.SearchPage, error) {
	query := url.Values{}
	query.Set("terms", q.Terms)
	for _, product := range q.Products {
		query.Add("products", product)
	}
	for _, version := range q.Versions {
		query.Add("versions", version)
	}
	for _, os := range q.OS {
		query.Add("os", os)
	}
	query.Set("from_date", q.Start.Format(utils.ServiceDateTime))
	query.Set("to_date", q.End.Format(utils.ServiceDateTime))
	query.Set("search_mode", q.SearchMode)
	query.Set("reasons", q.Reasons)
	query.Set("build_ids", q.BuildIDs)
	query.Set("report_process", q.ProcessType)
	query.Set("report_type", q.HangType)
	query.Set("plugin_in", q.PluginField)
	query.Set("plugin_search_mode", q.PluginSearchMode)
	query.Set("plugin_terms", q.PluginTerms)
	query.Set("result_number", fmt.Sprint(q.ResultCount))
	query.Set("result_offset", fmt.Sprint(q.ResultOffset))

	var page models.SearchPage
	if err := c.getJSON(ctx, "search/signatures", "search", query, &page); err != nil {
		return models.SearchPage{}, fmt.Errorf("middleware search request failed: %w", err)
	}
	return page, nil
}

// SignatureTrend fetches the crash history of one signature.
func (c *MiddlewareClient) SignatureTrend(ctx context.Context, product, versions, signature string, end time.Time, durationHours float64) (models.SignatureTrend, error) {
	query := url.Values{}
	query.Set("product", product)
	query.Set("versions", versions)
	query.Set("signature", signature)
	query.Set("end_date", end.Format(utils.DayOnly))
	query.Set("duration", fmt.Sprintf("%.0f", durationHours))

	var trend models.SignatureTrend
	if err := c.getJSON(ctx, "topcrash/sig/trend/history", "sigtrend", query, &trend); err != nil {
		return models.SignatureTrend{}, fmt.Errorf("middleware signature trend request failed: %w", err)
	}
	return trend, nil
}

// SignatureSummary fetches one summary dimension for a signature.
func (c *MiddlewareClient) SignatureSummary(ctx context.Context, dimension, signature string, start, end time.Time) ([]models.SignatureSummaryRaw, error) {
	query := url.Values{}
	query.Set("report_type", dimension)
	query.Set("signature", signature)
	query.Set("start_date", start.Format(utils.DayOnly))
	query.Set("end_date", end.Format(utils.DayOnly))

	var rows []models.SignatureSummaryRaw
	if err := c.getJSON(ctx, "signaturesummary", "signaturesummary", query, &rows); err != nil {
		return nil, fmt.Errorf("middleware signature summary request failed: %w", err)
	}
	return rows, nil
}

// BugzillaInfo proxies a bug details lookup to the bug tracker API.
func (c *MiddlewareClient) BugzillaInfo(ctx context.Context, bugIDs, fields []string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("id", strings.Join(bugIDs, ","))
	query.Set("include_fields", strings.Join(fields, ","))

	var payload json.RawMessage
	if err := c.getJSON(ctx, "bugzilla/bug", "buginfo", query, &payload); err != nil {
		return nil, fmt.Errorf("bugzilla info request failed: %w", err)
	}
	return payload, nil
}

func (c *MiddlewareClient) getJSON(ctx context.Context, endpoint, operation string, query url.Values, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("middleware base URL not configured")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}
	u.Path = path.Join(u.Path, endpoint)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveMiddlewareCall(operation, time.Since(started), err == nil)
	if err != nil {
		return utils.NewAppError("middleware."+operation, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return utils.NotFound(operation)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("middleware returned %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
