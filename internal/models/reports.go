package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TopCrasherRow is one ranked signature from the TCBS report.
type TopCrasherRow struct {
	Signature      string  `json:"signature"`
	Count          int     `json:"count"`
	WinCount       int     `json:"win_count"`
	MacCount       int     `json:"mac_count"`
	LinuxCount     int     `json:"linux_count"`
	CurrentRank    int     `json:"currentRank"`
	PreviousRank   int     `json:"previousRank"`
	ChangeInRank   string  `json:"changeInRank"`
	PercentOfTotal float64 `json:"percentOfTotal"`
	PluginCount    int     `json:"plugin_count"`
	HangCount      int     `json:"hang_count"`
	FirstReport    string  `json:"first_report"`
	Bugs           []int   `json:"bugs"`
}

// TopCrasherPage is the TCBS response for one product/version window.
type TopCrasherPage struct {
	Crashes      []TopCrasherRow `json:"crashes"`
	TotalCrashes int             `json:"totalNumberOfCrashes"`
}

// HangRow is one row of the paginated hang report.
type HangRow struct {
	BrowserSignature string `json:"browser_signature"`
	PluginSignature  string `json:"plugin_signature"`
	BrowserHangID    string `json:"browser_hangid"`
	FlashVersion     string `json:"flash_version"`
	URL              string `json:"url"`
	UUID             string `json:"uuid"`
	ReportDay        string `json:"report_day"`
}

// HangReportPage carries hang rows plus server-side pagination state.
type HangReportPage struct {
	Hits        []HangRow `json:"hits"`
	TotalPages  int       `json:"totalPages"`
	TotalCount  int       `json:"totalCount"`
	CurrentPage int       `json:"currentPage"`
}

// BuildRow is one build record from the daily-builds listing.
type BuildRow struct {
	Product    string `json:"product"`
	Version    string `json:"version"`
	Platform   string `json:"platform"`
	BuildID    string `json:"buildid"`
	BuildType  string `json:"build_type"`
	BetaNumber int    `json:"beta_number"`
	Repository string `json:"repository"`
	Date       string `json:"date"`
}

// BuildGroup is an ordered run of nightly builds sharing a (date, version)
// key. Groups are emitted descending by key.
type BuildGroup struct {
	Date    time.Time  `json:"date"`
	Version string     `json:"version"`
	Builds  []BuildRow `json:"builds"`
}

// ReportRow is one crash report from report-list or search results.
type ReportRow struct {
	UUID          string `json:"uuid"`
	Product       string `json:"product"`
	Version       string `json:"version"`
	Signature     string `json:"signature"`
	Build         string `json:"build"`
	OSName        string `json:"os_name"`
	OSVersion     string `json:"os_version"`
	CPUName       string `json:"cpu_name"`
	Reason        string `json:"reason"`
	Address       string `json:"address"`
	UserComments  string `json:"user_comments"`
	InstallTime   string `json:"install_time"`
	DateProcessed string `json:"date_processed"`
	ProcessType   string `json:"process_type"`
}

// ReportListPage is the raw report-list response.
type ReportListPage struct {
	Hits  []ReportRow `json:"hits"`
	Total int         `json:"total"`
}

// SearchPage is the raw free-text search response.
type SearchPage struct {
	Hits  []ReportRow `json:"hits"`
	Total int         `json:"total"`
}

// BuildTally counts reports per build id, split by operating system.
type BuildTally struct {
	Total int            `json:"total"`
	ByOS  map[string]int `json:"by_os"`
}

// CommentEntry is one user comment collected from report-list rows.
type CommentEntry struct {
	Comments      string `json:"comments"`
	UUID          string `json:"uuid"`
	DateProcessed string `json:"date_processed"`
}

// ReportListData is the post-processed report-list payload.
type ReportListData struct {
	Product    string                `json:"product"`
	Version    string                `json:"version"`
	Signature  string                `json:"signature"`
	Hits       []ReportRow           `json:"hits"`
	Total      int                   `json:"total"`
	TotalPages int                   `json:"total_pages"`
	Table      map[string]BuildTally `json:"table"`
	Comments   []CommentEntry        `json:"comments"`
}

// BugAssociation links a crash signature to a tracked bug id.
type BugAssociation struct {
	Signature string `json:"signature"`
	ID        int    `json:"id"`
}

// Percentage is a ratio the middleware serializes as either a JSON number
// or its quoted string form.
type Percentage float64

// UnmarshalJSON accepts both the bare and the quoted encoding.
func (p *Percentage) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(data), `"`)
	if text == "" || text == "null" {
		*p = 0
		return nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("percentage %q: %w", text, err)
	}
	*p = Percentage(value)
	return nil
}

// SignatureSummaryRaw is one middleware row for a single summary dimension.
type SignatureSummaryRaw struct {
	Category      string     `json:"category"`
	Percentage    Percentage `json:"percentage"`
	ReportCount   int        `json:"report_count"`
	ProductName   string     `json:"product_name"`
	VersionString string     `json:"version_string"`
}

// SignatureSummaryEntry is a display row for category-shaped dimensions.
type SignatureSummaryEntry struct {
	Label           string `json:"label"`
	Percentage      string `json:"percentage"`
	NumberOfCrashes int    `json:"numberOfCrashes"`
}

// ProductSummaryEntry is the product/version dimension row, which carries
// product and version separately instead of a single category label.
type ProductSummaryEntry struct {
	Product         string `json:"product"`
	Version         string `json:"version"`
	Percentage      string `json:"percentage"`
	NumberOfCrashes int    `json:"numberOfCrashes"`
}

// SignatureSummaryReport groups the six reshaped summary dimensions.
type SignatureSummaryReport struct {
	Architectures   []SignatureSummaryEntry `json:"architectures"`
	PercentageByOS  []SignatureSummaryEntry `json:"percentageByOs"`
	ProcessTypes    []SignatureSummaryEntry `json:"processTypes"`
	FlashVersions   []SignatureSummaryEntry `json:"flashVersions"`
	UptimeRange     []SignatureSummaryEntry `json:"uptimeRange"`
	ProductVersions []ProductSummaryEntry   `json:"productVersions"`
}

// StatusRow is one processing-status sample from the middleware.
type StatusRow struct {
	AvgProcessSec         float64 `json:"avg_process_sec"`
	AvgWaitSec            float64 `json:"avg_wait_sec"`
	WaitingJobCount       int     `json:"waiting_job_count"`
	ProcessorsCount       int     `json:"processors_count"`
	DateCreated           string  `json:"date_created"`
	DateRecentlyCompleted string  `json:"date_recently_completed"`
	DateOldestJobQueued   string  `json:"date_oldest_job_queued"`
}

// StatusPage is the raw status response.
type StatusPage struct {
	Hits              []StatusRow `json:"hits"`
	ServiceRevision   string      `json:"service_revision"`
	CollectorRevision string      `json:"collector_revision"`
}

// IndexedValue pairs a sample with its position in the series.
type IndexedValue struct {
	Index int
	Value float64
}

// MarshalJSON renders the pair as a two-element array for chart consumers.
func (v IndexedValue) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{float64(v.Index), v.Value})
}

// IndexedLabel pairs a display label with its position in the series.
type IndexedLabel struct {
	Index int
	Label string
}

// MarshalJSON renders the pair as a two-element array for chart consumers.
func (v IndexedLabel) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{v.Index, v.Label})
}

// StatusPlot carries chart series for the status page, oldest sample first.
type StatusPlot struct {
	AvgProcessSec   []IndexedValue `json:"avg_process_sec"`
	AvgWaitSec      []IndexedValue `json:"avg_wait_sec"`
	WaitingJobCount []IndexedValue `json:"waiting_job_count"`
	ProcessorsCount []IndexedValue `json:"processors_count"`
	DateCreated     []IndexedLabel `json:"date_created"`
}

// VolumeDay is crash volume for one product:version on one day.
type VolumeDay struct {
	ReportCount int     `json:"report_count"`
	ADU         int     `json:"adu"`
	CrashHADU   float64 `json:"crash_hadu"`
}

// GraphPoint is a (epoch-milliseconds, value) chart sample.
type GraphPoint struct {
	Millis int64
	Value  float64
}

// MarshalJSON renders the point as the [t, y] array charting libraries take.
func (p GraphPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{float64(p.Millis), p.Value})
}

// VolumeSeries is one product:version ratio line on the volume graph.
type VolumeSeries struct {
	Label  string       `json:"label"`
	Ratios []GraphPoint `json:"ratios"`
}

// VolumeGraph is the crash-volume chart payload.
type VolumeGraph struct {
	StartDate string         `json:"startDate"`
	EndDate   string         `json:"endDate"`
	Count     int            `json:"count"`
	Series    []VolumeSeries `json:"series"`
}

// TrendPoint is one day of a signature's crash history.
type TrendPoint struct {
	Date           string  `json:"date"`
	Count          int     `json:"count"`
	PercentOfTotal float64 `json:"percentOfTotal"`
}

// SignatureTrend is the raw signature-trend response.
type SignatureTrend struct {
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Signature string       `json:"signature"`
	History   []TrendPoint `json:"signatureHistory"`
}

// TrendGraph is the chart payload derived from a signature trend.
type TrendGraph struct {
	StartDate string       `json:"startDate"`
	EndDate   string       `json:"endDate"`
	Signature string       `json:"signature"`
	Counts    []GraphPoint `json:"counts"`
	Percents  []GraphPoint `json:"percents"`
}

// ProcessedCrash is the processed form of a single crash report.
type ProcessedCrash struct {
	UUID          string `json:"uuid"`
	Product       string `json:"product"`
	Version       string `json:"version"`
	Signature     string `json:"signature"`
	ProcessType   string `json:"process_type"`
	Dump          string `json:"dump"`
	DateProcessed string `json:"date_processed"`
	OSName        string `json:"os_name"`
	OSVersion     string `json:"os_version"`
	CPUName       string `json:"cpu_name"`
	Reason        string `json:"reason"`
	Address       string `json:"address"`
	BuildID       string `json:"build"`
	InstallAge    int    `json:"install_age"`
	Uptime        int    `json:"uptime"`
	LastCrash     int    `json:"last_crash"`
}

// RawCrash is the unprocessed crash submission: arbitrary annotation keys.
type RawCrash map[string]any

// HangID returns the hang identifier annotation when present.
func (r RawCrash) HangID() (string, bool) {
	value, ok := r["HangID"].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// CommentRow is one user comment fetched by signature.
type CommentRow struct {
	Date         string `json:"date_processed"`
	UserComments string `json:"user_comments"`
	UUID         string `json:"uuid"`
	Email        string `json:"email"`
}

// CommentsPage is the comments-by-signature response.
type CommentsPage struct {
	Hits  []CommentRow `json:"hits"`
	Total int          `json:"total"`
}

// StackFrame is one parsed minidump stack frame.
type StackFrame struct {
	FrameNum    int    `json:"frame_num"`
	Module      string `json:"module"`
	Function    string `json:"function"`
	Source      string `json:"source"`
	SourceLine  string `json:"source_line"`
	SourceLink  string `json:"source_link"`
	Instruction string `json:"instruction"`
}

// DumpThread groups frames belonging to one thread.
type DumpThread struct {
	Number int          `json:"number"`
	Frames []StackFrame `json:"frames"`
}

// ParsedDump is the structured form of a pipe-delimited minidump text.
type ParsedDump struct {
	OSName     string       `json:"os_name"`
	OSVersion  string       `json:"os_version"`
	CPUName    string       `json:"cpu_name"`
	CPUVersion string       `json:"cpu_version"`
	Reason     string       `json:"reason"`
	Address    string       `json:"address"`
	Threads    []DumpThread `json:"threads"`
}
