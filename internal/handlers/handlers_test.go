package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/crashstack/crashstats-web/internal/config"
	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/repo"
)

// fakeMiddleware implements MiddlewareAPI with per-call hooks. Calls with no
// hook return zero values.
type fakeMiddleware struct {
	currentVersions func(ctx context.Context) ([]models.VersionRelease, error)
	crashVolume     func(ctx context.Context, product string, versions, osNames []string, start, end time.Time) (map[string]map[string]models.VolumeDay, error)
	topCrashers     func(ctx context.Context, product, version, crashType string, end time.Time, durationHours, limit int) (models.TopCrasherPage, error)
	hangReport      func(ctx context.Context, product, version string, end time.Time, days, pageSize, page int) (models.HangReportPage, error)
	search          func(ctx context.Context, q repo.SearchQuery) (models.SearchPage, error)
	reportList      func(ctx context.Context, signature, versionKey string, start time.Time, pageSize, offset int) (models.ReportListPage, error)

	searchCalls int
}

var defaultVersions = []models.VersionRelease{
	{Product: "Firefox", Version: "26.0a1", Featured: true},
	{Product: "Firefox", Version: "24.0", Featured: true},
	{Product: "Thunderbird", Version: "24.0", Featured: true},
}

func (f *fakeMiddleware) CurrentVersions(ctx context.Context) ([]models.VersionRelease, error) {
	if f.currentVersions != nil {
		return f.currentVersions(ctx)
	}
	return defaultVersions, nil
}

func (f *fakeMiddleware) CurrentProducts(context.Context) ([]models.Product, error) {
	return []models.Product{{ProductName: "Firefox"}}, nil
}

func (f *fakeMiddleware) ProductsVersions(context.Context) ([]models.ProductVersions, error) {
	return []models.ProductVersions{
		{Product: "Firefox", Versions: []string{"26.0a1", "24.0"}},
		{Product: "Thunderbird", Versions: []string{"24.0"}},
	}, nil
}

func (f *fakeMiddleware) CrashVolume(ctx context.Context, product string, versions, osNames []string, start, end time.Time) (map[string]map[string]models.VolumeDay, error) {
	if f.crashVolume != nil {
		return f.crashVolume(ctx, product, versions, osNames, start, end)
	}
	return map[string]map[string]models.VolumeDay{}, nil
}

func (f *fakeMiddleware) TopCrashers(ctx context.Context, product, version, crashType string, end time.Time, durationHours, limit int) (models.TopCrasherPage, error) {
	if f.topCrashers != nil {
		return f.topCrashers(ctx, product, version, crashType, end, durationHours, limit)
	}
	return models.TopCrasherPage{}, nil
}

func (f *fakeMiddleware) Bugs(context.Context, []string) ([]models.BugAssociation, error) {
	return nil, nil
}

func (f *fakeMiddleware) DailyBuilds(context.Context, string, string) ([]models.BuildRow, error) {
	return nil, nil
}

func (f *fakeMiddleware) HangReport(ctx context.Context, product, version string, end time.Time, days, pageSize, page int) (models.HangReportPage, error) {
	if f.hangReport != nil {
		return f.hangReport(ctx, product, version, end, days, pageSize, page)
	}
	return models.HangReportPage{}, nil
}

func (f *fakeMiddleware) ProcessedCrash(context.Context, string) (models.ProcessedCrash, error) {
	return models.ProcessedCrash{}, nil
}

func (f *fakeMiddleware) RawCrash(context.Context, string) (models.RawCrash, error) {
	return models.RawCrash{}, nil
}

func (f *fakeMiddleware) CommentsBySignature(context.Context, string, time.Time, time.Time) (models.CommentsPage, error) {
	return models.CommentsPage{}, nil
}

func (f *fakeMiddleware) CrashPairsByCrashID(context.Context, string, string) ([]string, error) {
	return nil, nil
}

func (f *fakeMiddleware) ReportList(ctx context.Context, signature, versionKey string, start time.Time, pageSize, offset int) (models.ReportListPage, error) {
	if f.reportList != nil {
		return f.reportList(ctx, signature, versionKey, start, pageSize, offset)
	}
	return models.ReportListPage{}, nil
}

func (f *fakeMiddleware) Status(context.Context) (models.StatusPage, error) {
	return models.StatusPage{}, nil
}

func (f *fakeMiddleware) Search(ctx context.Context, q repo.SearchQuery) (models.SearchPage, error) {
	f.searchCalls++
	if f.search != nil {
		return f.search(ctx, q)
	}
	return models.SearchPage{}, nil
}

func (f *fakeMiddleware) SignatureTrend(context.Context, string, string, string, time.Time, float64) (models.SignatureTrend, error) {
	return models.SignatureTrend{}, nil
}

func (f *fakeMiddleware) SignatureSummary(context.Context, string, string, time.Time, time.Time) ([]models.SignatureSummaryRaw, error) {
	return nil, nil
}

func (f *fakeMiddleware) BugzillaInfo(context.Context, []string, []string) (json.RawMessage, error) {
	return json.RawMessage(`{"bugs": []}`), nil
}

func testSite() config.SiteConfig {
	return config.SiteConfig{
		DefaultProduct:   "Firefox",
		OperatingSystems: []string{"Windows", "Mac OS X", "Linux"},
	}
}

func newTestHandlers(fake *fakeMiddleware) (*Handlers, *mux.Router) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(logger, fake, testSite(), nil)
	router := mux.NewRouter()
	h.Routes(router)
	return h, router
}

func doRequest(router *mux.Router, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTopCrasherRedirectsToFirstFeatured(t *testing.T) {
	_, router := newTestHandlers(&fakeMiddleware{})

	rec := doRequest(router, "/topcrasher/Firefox")

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/topcrasher/Firefox/26.0a1" {
		t.Errorf("Location = %q, want first featured version", got)
	}
}

func TestTopCrasherUnknownProduct(t *testing.T) {
	_, router := newTestHandlers(&fakeMiddleware{})

	rec := doRequest(router, "/topcrasher/Netscape")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestTopCrasherUnrecognizedFiltersFallBack(t *testing.T) {
	var gotCrashType string
	fake := &fakeMiddleware{
		topCrashers: func(_ context.Context, _, _, crashType string, _ time.Time, durationHours, _ int) (models.TopCrasherPage, error) {
			gotCrashType = crashType
			if durationHours != 7*24 {
				t.Errorf("durationHours = %d, want 168", durationHours)
			}
			return models.TopCrasherPage{}, nil
		},
	}
	_, router := newTestHandlers(fake)

	rec := doRequest(router, "/topcrasher/Firefox/24.0?crash_type=bogus&os_name=BeOS")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if gotCrashType != "browser" {
		t.Errorf("crash_type = %q, want browser fallback", gotCrashType)
	}
	var envelope struct {
		Data TopCrasherReport `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.OSName != "" {
		t.Errorf("os_name = %q, want cleared", envelope.Data.OSName)
	}
}

func TestHangReportOverflowRedirectsToLastPage(t *testing.T) {
	fake := &fakeMiddleware{
		hangReport: func(_ context.Context, _, _ string, _ time.Time, days, pageSize, page int) (models.HangReportPage, error) {
			return models.HangReportPage{TotalPages: 2, TotalCount: 150, CurrentPage: page}, nil
		},
	}
	_, router := newTestHandlers(fake)

	rec := doRequest(router, "/hangreport/Firefox/26.0a1?days=14&page=5")

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	location, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse Location: %v", err)
	}
	if location.Path != "/hangreport/Firefox/26.0a1" {
		t.Errorf("Location path = %q", location.Path)
	}
	q := location.Query()
	if q.Get("page") != "2" {
		t.Errorf("page = %q, want last page 2", q.Get("page"))
	}
	if q.Get("days") != "14" {
		t.Errorf("days = %q, want 14 kept explicit", q.Get("days"))
	}
}

func TestHangReportRejectsBadPage(t *testing.T) {
	_, router := newTestHandlers(&fakeMiddleware{})

	if rec := doRequest(router, "/hangreport/Firefox/26.0a1?page=zero"); rec.Code != http.StatusBadRequest {
		t.Errorf("page=zero status = %d, want 400", rec.Code)
	}
	if rec := doRequest(router, "/hangreport/Firefox/26.0a1?page=0"); rec.Code != http.StatusBadRequest {
		t.Errorf("page=0 status = %d, want 400", rec.Code)
	}
}

func TestQueryWithoutTermsSkipsSearch(t *testing.T) {
	fake := &fakeMiddleware{}
	_, router := newTestHandlers(fake)

	rec := doRequest(router, "/query")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if fake.searchCalls != 0 {
		t.Errorf("search called %d times for an empty form, want 0", fake.searchCalls)
	}

	var envelope struct {
		Data QueryReport `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Defaults still show in the rendered form.
	if got := envelope.Data.Params.QueryType; got != models.QueryModeContains {
		t.Errorf("query_type = %q, want contains default", got)
	}
	if envelope.Data.Total != 0 || len(envelope.Data.Hits) != 0 {
		t.Errorf("empty form rendered results: %+v", envelope.Data)
	}
}

func TestQueryRunsSearch(t *testing.T) {
	var gotQuery repo.SearchQuery
	fake := &fakeMiddleware{
		search: func(_ context.Context, q repo.SearchQuery) (models.SearchPage, error) {
			gotQuery = q
			return models.SearchPage{
				Hits:  []models.ReportRow{{Signature: "sigA"}},
				Total: 250,
			}, nil
		},
	}
	_, router := newTestHandlers(fake)

	rec := doRequest(router, "/query?product=Firefox&query=GCMarker&query_type=exact&page=2")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if fake.searchCalls != 1 {
		t.Fatalf("search called %d times, want 1", fake.searchCalls)
	}
	if gotQuery.SearchMode != models.QueryModeIsExactly {
		t.Errorf("search mode = %q, want exact aliased to is_exactly", gotQuery.SearchMode)
	}
	if gotQuery.ResultOffset != 100 {
		t.Errorf("offset = %d, want 100 for page 2", gotQuery.ResultOffset)
	}

	var envelope struct {
		Data QueryReport `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Total != 250 || envelope.Data.TotalPages != 3 {
		t.Errorf("Total = %d, TotalPages = %d; want 250, 3", envelope.Data.Total, envelope.Data.TotalPages)
	}
}

func TestReportListRequiresSignature(t *testing.T) {
	_, router := newTestHandlers(&fakeMiddleware{})

	if rec := doRequest(router, "/report/list"); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestReportListEmptyResultFails(t *testing.T) {
	_, router := newTestHandlers(&fakeMiddleware{})

	rec := doRequest(router, "/report/list?signature=sigA")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 for a zero-row report", rec.Code)
	}
}

func TestBugInfoRequiresParameters(t *testing.T) {
	_, router := newTestHandlers(&fakeMiddleware{})

	if rec := doRequest(router, "/buginfo/bug"); rec.Code != http.StatusBadRequest {
		t.Errorf("missing bug_ids status = %d, want 400", rec.Code)
	}
	if rec := doRequest(router, "/buginfo/bug?bug_ids=903291"); rec.Code != http.StatusBadRequest {
		t.Errorf("missing include_fields status = %d, want 400", rec.Code)
	}
	if rec := doRequest(router, "/buginfo/bug?bug_ids=903291&include_fields=summary"); rec.Code != http.StatusOK {
		t.Errorf("valid lookup status = %d, want 200", rec.Code)
	}
}

func TestProductsSilentFeaturedFallback(t *testing.T) {
	var gotVersions []string
	fake := &fakeMiddleware{
		crashVolume: func(_ context.Context, _ string, versions, _ []string, _, _ time.Time) (map[string]map[string]models.VolumeDay, error) {
			gotVersions = versions
			return map[string]map[string]models.VolumeDay{}, nil
		},
	}
	_, router := newTestHandlers(fake)

	rec := doRequest(router, "/products/Firefox")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if len(gotVersions) != 2 || gotVersions[0] != "26.0a1" {
		t.Errorf("versions = %v, want full featured set", gotVersions)
	}
}
