package pipeline

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html/charset"

	"github.com/worawit/newslens/internal/cache"
	"github.com/worawit/newslens/internal/model"
	"github.com/worawit/newslens/internal/util"
	"github.com/worawit/newslens/internal/worker"
)

// Fetcher downloads article pages. Each URL passes through validation,
// an optional robots.txt check, a per-domain rate limiter, and a page
// cache before the network is touched. Transient failures are retried
// with exponential backoff.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	maxRetries int
	retryDelay time.Duration

	robots   *util.RobotsChecker
	limiter  *worker.Limiter
	pages    cache.Cache
	cacheTTL time.Duration
	workers  int
}

// NewFetcher wires a fetcher from configuration. The robots checker is
// skipped when cfg.HTTP.RespectRobots is false; the page cache when
// cfg.Cache.Enabled is false.
func NewFetcher(cfg *model.Config) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy),
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: cfg.HTTP.InsecureTLS,
				},
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:  cfg.HTTP.UserAgent,
		maxBytes:   cfg.HTTP.MaxBodyBytes,
		maxRetries: cfg.HTTP.MaxRetries,
		retryDelay: cfg.HTTP.RetryDelay,
		limiter:    worker.NewLimiter(cfg.HTTP.RatePerDomain, cfg.HTTP.RateBurst),
		workers:    cfg.Concurrency.FetchWorkers,
	}
	if cfg.HTTP.RespectRobots {
		f.robots = util.NewRobotsChecker(util.NormalizeUserAgent(cfg.HTTP.UserAgent), cfg.HTTP.Timeout)
	}
	if cfg.Cache.Enabled {
		f.pages = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL*2)
		f.cacheTTL = cfg.Cache.TTL
	}
	return f
}

// FetchResult is one downloaded page.
type FetchResult struct {
	URL      string
	FinalURL string
	HTML     string
}

// Fetch retrieves one URL. All failures come back as *model.FetchError
// carrying the URL and a failure kind.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	if f.pages != nil {
		if body, ok := f.pages.Get(cache.PageKey(rawURL)); ok {
			log.Debug("page cache hit", "url", rawURL)
			return &FetchResult{URL: rawURL, FinalURL: rawURL, HTML: string(body)}, nil
		}
	}

	crawlDelay := time.Duration(0)
	if f.robots != nil {
		allowed, delay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, &model.FetchError{URL: rawURL, Kind: model.FetchErrNetwork, Err: err}
		}
		if !allowed {
			return nil, &model.FetchError{
				URL:  rawURL,
				Kind: model.FetchErrBlocked,
				Err:  errors.New("disallowed by robots.txt"),
			}
		}
		crawlDelay = delay
	}

	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: delay, 2*delay, 4*delay, ...
			backoff := f.retryDelay << (attempt - 1)
			log.Debug("retrying fetch", "url", rawURL, "attempt", attempt, "backoff", backoff)
			select {
			case <-ctx.Done():
				return nil, &model.FetchError{URL: rawURL, Kind: model.FetchErrTimeout, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return nil, &model.FetchError{URL: rawURL, Kind: model.FetchErrTimeout, Err: err}
		}

		result, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			if f.pages != nil {
				_ = f.pages.Set(cache.PageKey(rawURL), []byte(result.HTML), f.cacheTTL)
			}
			return result, nil
		}

		lastErr = err
		var fe *model.FetchError
		if !errors.As(err, &fe) || !fe.Retryable() {
			return nil, err
		}
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &model.FetchError{URL: rawURL, Kind: model.FetchErrInvalidURL, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "th,en-US;q=0.9,en;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		kind := model.FetchErrNetwork
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			kind = model.FetchErrTimeout
		}
		return nil, &model.FetchError{URL: rawURL, Kind: kind, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &model.FetchError{
			URL:        rawURL,
			Kind:       model.FetchErrHTTP,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", resp.Status),
		}
	}

	// Thai news sites still serve TIS-620 and friends; decode to UTF-8
	// before anything downstream tokenizes the text.
	reader, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		reader = io.LimitReader(resp.Body, f.maxBytes)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &model.FetchError{URL: rawURL, Kind: model.FetchErrNetwork, Err: fmt.Errorf("read body: %w", err)}
	}

	return &FetchResult{
		URL:      rawURL,
		FinalURL: resp.Request.URL.String(),
		HTML:     string(body),
	}, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func validateURL(rawURL string) error {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return &model.FetchError{URL: rawURL, Kind: model.FetchErrInvalidURL, Err: err}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &model.FetchError{
			URL:  rawURL,
			Kind: model.FetchErrInvalidURL,
			Err:  fmt.Errorf("unsupported scheme %q", parsed.Scheme),
		}
	}
	if parsed.Host == "" {
		return &model.FetchError{URL: rawURL, Kind: model.FetchErrInvalidURL, Err: errors.New("missing host")}
	}
	return nil
}

// fetchJob adapts one URL fetch to the worker pool.
type fetchJob struct {
	fetcher *Fetcher
	url     string
}

type fetchOutcome struct {
	url    string
	result *FetchResult
	err    error
}

func (o *fetchOutcome) GetError() error { return o.err }

func (j *fetchJob) Execute(ctx context.Context) worker.Result {
	result, err := j.fetcher.Fetch(ctx, j.url)
	return &fetchOutcome{url: j.url, result: result, err: err}
}

// FetchAll downloads every URL with bounded concurrency. One URL's
// failure never aborts the batch; failures come back keyed by URL.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) (map[string]*FetchResult, map[string]error) {
	pool := worker.NewPool(f.workers)
	pool.Start()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	for _, u := range urls {
		pool.Submit(&fetchJob{fetcher: f, url: u})
	}
	results := pool.Wait()
	close(done)

	pages := make(map[string]*FetchResult, len(urls))
	failures := make(map[string]error)
	for _, r := range results {
		outcome := r.(*fetchOutcome)
		if outcome.err != nil {
			failures[outcome.url] = outcome.err
			continue
		}
		pages[outcome.url] = outcome.result
	}
	// URLs dropped by an early shutdown still need a failure record.
	if ctx.Err() != nil {
		for _, u := range urls {
			if _, ok := pages[u]; ok {
				continue
			}
			if _, ok := failures[u]; ok {
				continue
			}
			failures[u] = &model.FetchError{URL: u, Kind: model.FetchErrTimeout, Err: ctx.Err()}
		}
	}
	return pages, failures
}
