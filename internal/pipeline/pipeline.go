package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/worawit/newslens/internal/extract"
	"github.com/worawit/newslens/internal/llm"
	"github.com/worawit/newslens/internal/model"
	"github.com/worawit/newslens/internal/nlp"
	"github.com/worawit/newslens/internal/similarity"
	"github.com/worawit/newslens/internal/store"
	"github.com/worawit/newslens/internal/timeline"
	"github.com/worawit/newslens/internal/worker"
)

// ErrNoArticles means every URL in a batch failed before processing.
var ErrNoArticles = errors.New("no articles could be analyzed")

// Pipeline orchestrates a full analysis run: fetch, extract, process,
// compare or build a timeline, persist. URLs fail individually; the
// batch proceeds with whatever survives.
type Pipeline struct {
	fetcher    *Fetcher
	extractor  *extract.Extractor
	processor  *nlp.Processor
	engine     *similarity.Engine
	builder    *timeline.Builder
	summarizer *llm.Summarizer // nil when disabled
	store      store.Store
	workers    int
}

// NewPipeline wires a pipeline from configuration. The store is owned
// by the caller.
func NewPipeline(cfg *model.Config, st store.Store) *Pipeline {
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			log.Warn("LLM summarizer disabled", "err", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		fetcher:    NewFetcher(cfg),
		extractor:  extract.NewExtractor(cfg.Analysis.MinBodyLength),
		processor:  nlp.NewProcessor(cfg.Analysis.MaxKeywords),
		engine:     similarity.NewEngine(cfg.Analysis.DiffThreshold),
		builder:    timeline.NewBuilder(cfg.Analysis.EventWindow, cfg.Analysis.MinEntityOverlap),
		summarizer: summarizer,
		store:      st,
		workers:    cfg.Concurrency.ProcessWorkers,
	}
}

// AnalyzeURLs runs the whole pipeline over a URL batch and persists
// the resulting analysis. Per-URL failures are recorded on the result;
// ErrNoArticles is returned only when nothing survives to processing.
func (p *Pipeline) AnalyzeURLs(ctx context.Context, urls []string) (*model.Analysis, error) {
	started := time.Now()
	articles, failures, err := p.ingest(ctx, urls)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		analysis := &model.Analysis{
			ID:        store.NewID(),
			InputType: "urls",
			URLs:      urls,
			Articles:  []model.Article{},
			Failures:  failures,
			CreatedAt: time.Now().UTC(),
		}
		return analysis, ErrNoArticles
	}

	flat := derefArticles(articles)
	tl := p.builder.Build(flat)
	if p.summarizer.IsEnabled() {
		p.summarizer.EnrichTimeline(ctx, tl)
	}

	analysis := &model.Analysis{
		ID:        store.NewID(),
		InputType: "urls",
		URLs:      urls,
		Articles:  flat,
		Timeline:  *tl,
		Failures:  failures,
		CreatedAt: time.Now().UTC(),
	}

	for _, a := range articles {
		if err := p.store.PutArticle(ctx, a); err != nil {
			return nil, err
		}
	}
	if err := p.store.CreateAnalysis(ctx, analysis); err != nil {
		return nil, err
	}

	log.Info("analysis complete",
		"id", analysis.ID,
		"urls", len(urls),
		"articles", len(articles),
		"events", len(analysis.Timeline.Events),
		"failures", len(failures),
		"elapsed", time.Since(started).Round(time.Millisecond))
	return analysis, nil
}

// AnalyzeDateRange builds a timeline from already-stored articles whose
// publish date (ingestion date when undated) falls inside [start, end].
// Bounds are YYYY-MM-DD, inclusive; an empty bound is open.
func (p *Pipeline) AnalyzeDateRange(ctx context.Context, start, end string) (*model.Analysis, error) {
	stored, err := p.store.Articles(ctx)
	if err != nil {
		return nil, err
	}

	var flat []model.Article
	for _, a := range stored {
		day := a.IngestedAt
		if a.PublishedAt != nil {
			day = *a.PublishedAt
		}
		d := day.UTC().Format("2006-01-02")
		if (start != "" && d < start) || (end != "" && d > end) {
			continue
		}
		article := *a
		article.IngestionSeq = len(flat)
		flat = append(flat, article)
	}

	if len(flat) == 0 {
		analysis := &model.Analysis{
			ID:        store.NewID(),
			InputType: "date",
			Articles:  []model.Article{},
			CreatedAt: time.Now().UTC(),
		}
		return analysis, ErrNoArticles
	}

	tl := p.builder.Build(flat)
	if p.summarizer.IsEnabled() {
		p.summarizer.EnrichTimeline(ctx, tl)
	}

	analysis := &model.Analysis{
		ID:        store.NewID(),
		InputType: "date",
		Articles:  flat,
		Timeline:  *tl,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.store.CreateAnalysis(ctx, analysis); err != nil {
		return nil, err
	}

	log.Info("date-range analysis complete",
		"id", analysis.ID,
		"articles", len(flat),
		"events", len(analysis.Timeline.Events))
	return analysis, nil
}

// CompareArticles compares two previously stored articles and persists
// the result. Unknown IDs surface as the store's ErrNotFound.
func (p *Pipeline) CompareArticles(ctx context.Context, id1, id2 string) (*model.Comparison, error) {
	a1, err := p.store.Article(ctx, id1)
	if err != nil {
		return nil, err
	}
	a2, err := p.store.Article(ctx, id2)
	if err != nil {
		return nil, err
	}

	cmp := p.engine.Compare(a1, a2)
	cmp.ID = store.NewID()
	if err := p.store.CreateComparison(ctx, cmp); err != nil {
		return nil, err
	}

	log.Info("comparison complete", "id", cmp.ID, "score", cmp.SimilarityScore)
	return cmp, nil
}

// CompareURLs fetches and processes two articles and persists their
// comparison. Unlike batch analysis, either URL failing fails the call.
func (p *Pipeline) CompareURLs(ctx context.Context, url1, url2 string) (*model.Comparison, error) {
	articles, failures, err := p.ingest(ctx, []string{url1, url2})
	if err != nil {
		return nil, err
	}
	if len(failures) > 0 {
		f := failures[0]
		return nil, &model.ProcessingError{
			Stage: f.Stage,
			Err:   errors.New(f.URL + ": " + f.Reason),
		}
	}
	if len(articles) != 2 {
		return nil, ErrNoArticles
	}

	// ingest keeps input order, but make the side labels explicit.
	a1, a2 := articles[0], articles[1]
	if a1.URL != strings.TrimSpace(url1) {
		a1, a2 = a2, a1
	}

	cmp := p.engine.Compare(a1, a2)
	cmp.ID = store.NewID()

	for _, a := range articles {
		if err := p.store.PutArticle(ctx, a); err != nil {
			return nil, err
		}
	}
	if err := p.store.CreateComparison(ctx, cmp); err != nil {
		return nil, err
	}

	log.Info("comparison complete", "id", cmp.ID, "score", cmp.SimilarityScore)
	return cmp, nil
}

// ingest runs fetch, extract, and the two processing passes. Articles
// come back in input URL order. Only ctx cancellation is returned as
// an error; everything else becomes a URLFailure.
func (p *Pipeline) ingest(ctx context.Context, urls []string) ([]*model.Article, []model.URLFailure, error) {
	urls = normalizeURLs(urls)
	pages, fetchErrs := p.fetcher.FetchAll(ctx, urls)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	failures := []model.URLFailure{}
	for _, u := range urls {
		if err, ok := fetchErrs[u]; ok {
			failures = append(failures, model.URLFailure{URL: u, Stage: "fetch", Reason: err.Error()})
		}
	}

	var articles []*model.Article
	for _, u := range urls {
		page, ok := pages[u]
		if !ok {
			continue
		}
		article, err := p.extractor.Extract(page.HTML, page.FinalURL)
		if err != nil {
			failures = append(failures, model.URLFailure{URL: u, Stage: "extract", Reason: err.Error()})
			continue
		}
		// Requests referencing articles by URL must resolve even when
		// the server redirected, so the ID follows the requested URL.
		article.ID = extract.ArticleID(u)
		article.URL = u
		article.IngestionSeq = len(articles)
		articles = append(articles, article)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	articles, tokenizeFailures := p.runStage(articles, "tokenize", p.processor.Tokenize)
	failures = append(failures, tokenizeFailures...)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Keyword IDF needs document frequencies across the whole batch,
	// so the corpus is built between the tokenize and process passes.
	tokenStreams := make([][]string, len(articles))
	for i, a := range articles {
		tokenStreams[i] = a.Tokens
	}
	corpus := nlp.NewCorpus(tokenStreams)

	articles, processFailures := p.runStage(articles, "process", func(a *model.Article) error {
		return p.processor.Process(a, corpus)
	})
	failures = append(failures, processFailures...)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	for i, a := range articles {
		a.IngestionSeq = i
	}
	return articles, failures, nil
}

// normalizeURLs trims surrounding whitespace from each URL and
// collapses duplicates, keeping first-occurrence order. Duplicate
// requests would otherwise produce two articles with the same ID in
// one analysis.
func normalizeURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

type processJob struct {
	article *model.Article
	stage   string
	fn      func(*model.Article) error
}

type processOutcome struct {
	article *model.Article
	stage   string
	err     error
}

func (o *processOutcome) GetError() error { return o.err }

func (j *processJob) Execute(_ context.Context) worker.Result {
	return &processOutcome{article: j.article, stage: j.stage, err: j.fn(j.article)}
}

// runStage applies fn to every article on the process worker pool,
// dropping articles that fail and preserving input order among the
// survivors.
func (p *Pipeline) runStage(articles []*model.Article, stage string, fn func(*model.Article) error) ([]*model.Article, []model.URLFailure) {
	if len(articles) == 0 {
		return articles, nil
	}

	pool := worker.NewPool(p.workers)
	pool.Start()
	for _, a := range articles {
		pool.Submit(&processJob{article: a, stage: stage, fn: fn})
	}
	results := pool.Wait()

	failed := make(map[string]error)
	for _, r := range results {
		outcome := r.(*processOutcome)
		if outcome.err != nil {
			failed[outcome.article.ID] = outcome.err
		}
	}

	var survivors []*model.Article
	var failures []model.URLFailure
	for _, a := range articles {
		if err, ok := failed[a.ID]; ok {
			failures = append(failures, model.URLFailure{URL: a.URL, Stage: stage, Reason: err.Error()})
			continue
		}
		survivors = append(survivors, a)
	}
	return survivors, failures
}

func derefArticles(articles []*model.Article) []model.Article {
	out := make([]model.Article, len(articles))
	for i, a := range articles {
		out[i] = *a
	}
	return out
}
