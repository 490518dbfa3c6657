package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/worawit/newslens/internal/model"
	"github.com/worawit/newslens/internal/pipeline"
	"github.com/worawit/newslens/internal/store"
)

func testServer(t *testing.T) (*echo.Echo, store.Store) {
	t.Helper()

	cfg := model.DefaultConfig()
	cfg.HTTP.RespectRobots = false
	cfg.HTTP.RetryDelay = time.Millisecond
	cfg.HTTP.RatePerDomain = 1000
	cfg.Cache.Enabled = false
	cfg.Concurrency.FetchWorkers = 4
	cfg.Concurrency.ProcessWorkers = 4

	st := store.NewMemoryStore()
	t.Cleanup(func() { _ = st.Close() })
	return New(cfg, pipeline.NewPipeline(cfg, st), st), st
}

// newsSite serves two fixed article pages and 404s everything else.
func newsSite(t *testing.T) *httptest.Server {
	t.Helper()

	page := func(title, extra string) string {
		return fmt.Sprintf(`<html><head>
<title>%s</title>
<meta property="article:published_time" content="2026-03-01T09:00:00Z">
</head><body><article>
<p>Flood waters rose across central Bangkok districts on Monday morning after heavy overnight rain fell for hours.</p>
<p>%s</p>
</article></body></html>`, title, extra)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/news/flood", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, page("Flood hits Bangkok", "City officials in Bangkok said pumping stations were operating at full capacity through the night."))
	})
	mux.HandleFunc("/news/flood-update", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, page("Flood update", "Residents of Bangkok were urged to avoid riverside roads until water levels recede later this week."))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e, _ := testServer(t)

	rec := doJSON(e, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if body["status"] != "healthy" || body["service"] != "newslens" || body["store"] != "ok" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestAnalyzeNews_Validation(t *testing.T) {
	e, _ := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"urls": [`},
		{"missing urls", `{}`},
		{"empty urls", `{"urls": []}`},
		{"too many urls", analyzeBody(21)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/api/analyze-news", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func analyzeBody(n int) string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("%q", fmt.Sprintf("https://example.com/%d", i))
	}
	return `{"urls": [` + strings.Join(urls, ",") + `]}`
}

func TestAnalyzeNews_Success(t *testing.T) {
	e, _ := testServer(t)
	site := newsSite(t)

	body := fmt.Sprintf(`{"urls": [%q, %q]}`, site.URL+"/news/flood", site.URL+"/news/flood-update")
	rec := doJSON(e, http.MethodPost, "/api/analyze-news", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var analysis model.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &analysis); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if analysis.ID == "" {
		t.Error("missing analysis_id")
	}
	if len(analysis.Articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(analysis.Articles))
	}
	if len(analysis.Timeline.Events) == 0 {
		t.Error("expected timeline events")
	}
	if len(analysis.Failures) != 0 {
		t.Errorf("unexpected failures: %v", analysis.Failures)
	}

	// The persisted analysis is retrievable through the timeline route.
	rec = doJSON(e, http.MethodGet, "/api/timeline/"+analysis.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("timeline status = %d", rec.Code)
	}
	var tl map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &tl); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if tl["analysis_id"] != analysis.ID {
		t.Errorf("timeline analysis_id = %v", tl["analysis_id"])
	}

	// And the processed articles appear in the listing.
	rec = doJSON(e, http.MethodGet, "/api/articles", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("articles status = %d", rec.Code)
	}
	listing := decodeListing(t, rec)
	if listing.Pagination.Total != 2 || len(listing.Articles) != 2 {
		t.Errorf("expected 2 stored articles, got %+v", listing.Pagination)
	}

	// A one-item page slices the same set.
	rec = doJSON(e, http.MethodGet, "/api/articles?page=2&per_page=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("paged articles status = %d", rec.Code)
	}
	listing = decodeListing(t, rec)
	if len(listing.Articles) != 1 || listing.Pagination.Pages != 2 {
		t.Errorf("unexpected page 2: %+v", listing.Pagination)
	}

	rec = doJSON(e, http.MethodGet, "/api/articles?page=0", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("page=0: status = %d, want 400", rec.Code)
	}
}

type articleListing struct {
	Articles   []model.Article `json:"articles"`
	Pagination struct {
		Page    int `json:"page"`
		PerPage int `json:"per_page"`
		Total   int `json:"total"`
		Pages   int `json:"pages"`
	} `json:"pagination"`
}

func decodeListing(t *testing.T, rec *httptest.ResponseRecorder) articleListing {
	t.Helper()
	var listing articleListing
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	return listing
}

func TestAnalyzeNews_PartialFailure(t *testing.T) {
	e, _ := testServer(t)
	site := newsSite(t)

	body := fmt.Sprintf(`{"urls": [%q, %q]}`, site.URL+"/news/flood", site.URL+"/missing")
	rec := doJSON(e, http.MethodPost, "/api/analyze-news", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var analysis model.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &analysis); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if len(analysis.Articles) != 1 {
		t.Errorf("expected 1 surviving article, got %d", len(analysis.Articles))
	}
	if len(analysis.Failures) != 1 || analysis.Failures[0].Stage != "fetch" {
		t.Errorf("expected one fetch failure, got %v", analysis.Failures)
	}
}

func TestAnalyzeNews_NothingSurvives(t *testing.T) {
	e, _ := testServer(t)
	site := newsSite(t)

	body := fmt.Sprintf(`{"urls": [%q]}`, site.URL+"/missing")
	rec := doJSON(e, http.MethodPost, "/api/analyze-news", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error    string             `json:"error"`
		Failures []model.URLFailure `json:"failures"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Error == "" || len(resp.Failures) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestCompareArticles(t *testing.T) {
	e, _ := testServer(t)
	site := newsSite(t)

	body := fmt.Sprintf(`{"url1": %q, "url2": %q}`, site.URL+"/news/flood", site.URL+"/news/flood-update")
	rec := doJSON(e, http.MethodPost, "/api/compare-articles", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var cmp model.Comparison
	if err := json.Unmarshal(rec.Body.Bytes(), &cmp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if cmp.ID == "" {
		t.Error("missing comparison_id")
	}
	if cmp.SimilarityScore <= 0 || cmp.SimilarityScore > 1 {
		t.Errorf("similarity score out of range: %v", cmp.SimilarityScore)
	}

	rec = doJSON(e, http.MethodGet, "/api/similarity/"+cmp.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("similarity status = %d", rec.Code)
	}
	var stored model.Comparison
	if err := json.Unmarshal(rec.Body.Bytes(), &stored); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if stored.ID != cmp.ID || stored.SimilarityScore != cmp.SimilarityScore {
		t.Errorf("stored comparison mismatch: %+v vs %+v", stored, cmp)
	}
}

func TestCompareArticles_ByStoredID(t *testing.T) {
	e, _ := testServer(t)
	site := newsSite(t)

	body := fmt.Sprintf(`{"urls": [%q, %q]}`, site.URL+"/news/flood", site.URL+"/news/flood-update")
	rec := doJSON(e, http.MethodPost, "/api/analyze-news", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze status = %d", rec.Code)
	}
	var analysis model.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &analysis); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}

	body = fmt.Sprintf(`{"article_id_1": %q, "article_id_2": %q}`, analysis.Articles[0].ID, analysis.Articles[1].ID)
	rec = doJSON(e, http.MethodPost, "/api/compare-articles", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("compare status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var cmp model.Comparison
	if err := json.Unmarshal(rec.Body.Bytes(), &cmp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if cmp.Article1ID != analysis.Articles[0].ID {
		t.Errorf("article 1 = %s, want %s", cmp.Article1ID, analysis.Articles[0].ID)
	}

	// Unknown stored ID is a lookup failure, not a processing one.
	body = fmt.Sprintf(`{"article_id_1": %q, "article_id_2": "nope"}`, analysis.Articles[0].ID)
	rec = doJSON(e, http.MethodPost, "/api/compare-articles", body)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rec.Code)
	}
}

func TestAnalyzeNews_DateRange(t *testing.T) {
	e, _ := testServer(t)
	site := newsSite(t)

	body := fmt.Sprintf(`{"urls": [%q, %q]}`, site.URL+"/news/flood", site.URL+"/news/flood-update")
	if rec := doJSON(e, http.MethodPost, "/api/analyze-news", body); rec.Code != http.StatusOK {
		t.Fatalf("analyze status = %d", rec.Code)
	}

	// Fixture pages publish on 2026-03-01.
	body = `{"input_type": "date", "date_range": {"start": "2026-03-01", "end": "2026-03-01"}}`
	rec := doJSON(e, http.MethodPost, "/api/analyze-news", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("date analyze status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var analysis model.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &analysis); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if analysis.InputType != "date" || len(analysis.Articles) != 2 {
		t.Errorf("unexpected date analysis: type=%s articles=%d", analysis.InputType, len(analysis.Articles))
	}

	body = `{"input_type": "date", "date_range": {"start": "2030-01-01", "end": "2030-12-31"}}`
	if rec := doJSON(e, http.MethodPost, "/api/analyze-news", body); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty range: status = %d, want 422", rec.Code)
	}

	body = `{"input_type": "rss"}`
	if rec := doJSON(e, http.MethodPost, "/api/analyze-news", body); rec.Code != http.StatusBadRequest {
		t.Errorf("bad input_type: status = %d, want 400", rec.Code)
	}
}

func TestCompareArticles_Validation(t *testing.T) {
	e, _ := testServer(t)

	rec := doJSON(e, http.MethodPost, "/api/compare-articles", `{"url1": "https://example.com/a"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing url2: status = %d, want 400", rec.Code)
	}
}

func TestCompareArticles_FetchFailure(t *testing.T) {
	e, _ := testServer(t)
	site := newsSite(t)

	body := fmt.Sprintf(`{"url1": %q, "url2": %q}`, site.URL+"/news/flood", site.URL+"/missing")
	rec := doJSON(e, http.MethodPost, "/api/compare-articles", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422, body: %s", rec.Code, rec.Body.String())
	}
}

func TestGetTimeline_NotFound(t *testing.T) {
	e, _ := testServer(t)

	rec := doJSON(e, http.MethodGet, "/api/timeline/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetSimilarity_NotFound(t *testing.T) {
	e, _ := testServer(t)

	rec := doJSON(e, http.MethodGet, "/api/similarity/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetArticles_Empty(t *testing.T) {
	e, _ := testServer(t)

	rec := doJSON(e, http.MethodGet, "/api/articles", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var listing struct {
		Articles   []any          `json:"articles"`
		Pagination map[string]any `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if len(listing.Articles) != 0 {
		t.Errorf("expected empty list, got %+v", listing)
	}
	if listing.Pagination["total"] != float64(0) {
		t.Errorf("expected total 0, got %v", listing.Pagination["total"])
	}
}
