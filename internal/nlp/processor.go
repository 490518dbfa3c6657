package nlp

import (
	"fmt"

	"github.com/worawit/newslens/internal/lang"
	"github.com/worawit/newslens/internal/model"
)

// Processor runs the language-aware analysis stages over an article
// draft: language detection, tokenization, entity and keyword
// extraction, sentiment scoring. It holds no per-article state and is
// safe for concurrent use.
type Processor struct {
	entities    *EntityExtractor
	maxKeywords int
}

// NewProcessor creates a processor with the given keyword budget.
func NewProcessor(maxKeywords int) *Processor {
	if maxKeywords <= 0 {
		maxKeywords = 15
	}
	return &Processor{
		entities:    NewEntityExtractor(),
		maxKeywords: maxKeywords,
	}
}

// Tokenize detects the article's language and fills in its token
// stream. Split out from Process so the batch corpus can be built
// between the two passes.
func (p *Processor) Tokenize(article *model.Article) error {
	article.Language = lang.Detect(article.Body)
	article.Tokens = lang.Tokenize(article.Body, article.Language)
	if len(article.Tokens) == 0 {
		return &model.ProcessingError{
			ArticleID: article.ID,
			Stage:     "tokenize",
			Err:       fmt.Errorf("no tokens produced from %d bytes of body", len(article.Body)),
		}
	}
	article.WordCount = len(article.Tokens)
	return nil
}

// Process attaches entities, keywords, and sentiment to a tokenized
// article. The corpus may be nil; keyword ranking then falls back to
// plain frequency.
func (p *Processor) Process(article *model.Article, corpus *Corpus) error {
	if len(article.Tokens) == 0 {
		if err := p.Tokenize(article); err != nil {
			return err
		}
	}

	article.Entities = p.entities.Extract(article.Body, article.Language)
	article.Keywords = Keywords(article.Tokens, corpus, p.maxKeywords)
	article.Sentiment = ScoreSentiment(article.Tokens)
	return nil
}
