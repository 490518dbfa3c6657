package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	readability "github.com/go-shiori/go-readability"

	"github.com/worawit/newslens/internal/model"
)

// sourceNames maps known news hosts to display names. Unknown hosts
// fall back to the bare domain.
var sourceNames = map[string]string{
	"thairath.co.th":     "Thairath",
	"kapook.com":         "Kapook",
	"bangkokpost.com":    "Bangkok Post",
	"nationthailand.com": "The Nation Thailand",
	"khaosod.co.th":      "Khaosod",
	"matichon.co.th":     "Matichon",
	"manager.co.th":      "Manager",
	"thaipbs.or.th":      "Thai PBS",
	"sanook.com":         "Sanook",
	"dailynews.co.th":    "Daily News",
}

var titleSelectors = []string{
	"h1",
	".headline",
	".title",
	".article-title",
	".post-title",
	"h1.entry-title",
}

var contentSelectors = []string{
	".article-content",
	".entry-content",
	".post-content",
	".article-body",
	".story-body",
	".news-content",
	"[property=\"articleBody\"]",
	"article",
}

var dateSelectors = []string{
	"meta[property=\"article:published_time\"]",
	"meta[name=\"publishdate\"]",
	"meta[name=\"date\"]",
	"time[datetime]",
	".publish-date",
	".article-date",
	".date",
}

var authorSelectors = []string{
	"meta[name=\"author\"]",
	".author",
	".byline",
	".article-author",
	"[rel=\"author\"]",
}

// Extractor parses raw HTML into an article draft: title, body text,
// publish date, source, author, tags. Entities and sentiment are
// attached later by the processor.
type Extractor struct {
	minBodyLength int
}

// NewExtractor creates an extractor. Bodies shorter than minBodyLength
// runes are rejected as non-articles.
func NewExtractor(minBodyLength int) *Extractor {
	if minBodyLength <= 0 {
		minBodyLength = 100
	}
	return &Extractor{minBodyLength: minBodyLength}
}

// Extract builds an article draft from raw HTML. Returns
// ExtractionError when no usable body can be located.
func (e *Extractor) Extract(html string, sourceURL string) (*model.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &model.ExtractionError{URL: sourceURL, Reason: "unparseable HTML: " + err.Error()}
	}

	// Strip chrome before body extraction so navigation and ad text
	// never leak into the token stream.
	doc.Find("script, style, noscript, iframe, nav, header, footer, aside").Remove()

	title := extractTitle(doc)
	body := extractBody(doc)
	if runeCount(body) < e.minBodyLength {
		// Selector heuristics came up short; let readability take a
		// content-density pass over the full document.
		if text := readabilityBody(html, sourceURL); runeCount(text) > runeCount(body) {
			body = text
		}
	}
	if runeCount(body) < e.minBodyLength {
		return nil, &model.ExtractionError{
			URL:    sourceURL,
			Reason: "body text below minimum length, content is likely not an article",
		}
	}

	published := extractDate(doc)
	if published == nil {
		published = firstTextDate(body)
	}

	return &model.Article{
		ID:          ArticleID(sourceURL),
		URL:         sourceURL,
		Source:      sourceName(sourceURL),
		Title:       title,
		Author:      extractAuthor(doc),
		Body:        body,
		Tags:        extractTags(doc),
		PublishedAt: published,
		IngestedAt:  time.Now().UTC(),
	}, nil
}

// ArticleID is a stable hash of the normalized URL, so re-ingesting
// the same page supersedes the previous record instead of duplicating it.
func ArticleID(rawURL string) string {
	normalized := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		u.Fragment = ""
		u.Host = strings.ToLower(u.Host)
		u.Path = strings.TrimSuffix(u.Path, "/")
		normalized = u.String()
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:16]
}

func sourceName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "Unknown"
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if name, ok := sourceNames[host]; ok {
		return name
	}
	if host == "" {
		return "Unknown"
	}
	return host
}

func extractTitle(doc *goquery.Document) string {
	if og, ok := doc.Find("meta[property=\"og:title\"]").Attr("content"); ok {
		if t := strings.TrimSpace(og); t != "" {
			return t
		}
	}
	for _, sel := range titleSelectors {
		if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// extractBody walks the known content selectors first, then falls back
// to a paragraph-density filter over the whole document. Paragraphs
// are joined with blank lines to preserve diff granularity downstream.
func extractBody(doc *goquery.Document) string {
	for _, sel := range contentSelectors {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}
		if body := collectParagraphs(container.Find("p")); body != "" {
			return body
		}
		if text := normalizeWhitespace(container.Text()); len(text) > 0 {
			return text
		}
	}

	// No recognized container: keep only substantial paragraphs.
	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := normalizeWhitespace(s.Text())
		if runeCount(text) > 50 {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}

func collectParagraphs(sel *goquery.Selection) string {
	var paragraphs []string
	sel.Each(func(_ int, s *goquery.Selection) {
		text := normalizeWhitespace(s.Text())
		if runeCount(text) > 10 {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}

func readabilityBody(html, sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		return ""
	}
	return normalizeParagraphs(article.TextContent)
}

func extractDate(doc *goquery.Document) *time.Time {
	for _, sel := range dateSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		raw, ok := el.Attr("content")
		if !ok {
			raw, ok = el.Attr("datetime")
		}
		if !ok {
			raw = el.Text()
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if t, err := dateparse.ParseAny(raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func extractAuthor(doc *goquery.Document) string {
	for _, sel := range authorSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		author, ok := el.Attr("content")
		if !ok {
			author = el.Text()
		}
		if author = strings.TrimSpace(author); author != "" {
			return author
		}
	}
	return ""
}

func extractTags(doc *goquery.Document) []string {
	seen := make(map[string]struct{})
	var tags []string
	appendTag := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	doc.Find(".tags a, .categories a, .tag, .category").Each(func(_ int, s *goquery.Selection) {
		appendTag(s.Text())
	})
	if len(tags) == 0 {
		if kw, ok := doc.Find("meta[name=\"keywords\"]").Attr("content"); ok {
			for _, tag := range strings.Split(kw, ",") {
				appendTag(tag)
			}
		}
	}
	return tags
}

var spaceRun = regexp.MustCompile(`[ \t]+`)

func normalizeWhitespace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(strings.ReplaceAll(s, "\n", " "), " "))
}

// normalizeParagraphs collapses intra-paragraph whitespace while
// keeping blank-line paragraph breaks.
func normalizeParagraphs(s string) string {
	var paragraphs []string
	for _, p := range strings.Split(s, "\n") {
		if p = normalizeWhitespace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

func runeCount(s string) int {
	return len([]rune(s))
}
