package store

import (
	"context"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/worawit/newslens/internal/model"
)

// Store persists analysis output: processed articles, pairwise
// comparisons, and full timeline analyses.
//
// Articles upsert on their URL-derived ID, so re-analyzing a page
// supersedes the stale record. Comparisons and analyses are immutable
// once written; creating an existing ID fails with ErrAlreadyExists.
type Store interface {
	PutArticle(ctx context.Context, article *model.Article) error
	Article(ctx context.Context, id string) (*model.Article, error)
	Articles(ctx context.Context) ([]*model.Article, error)

	CreateComparison(ctx context.Context, cmp *model.Comparison) error
	Comparison(ctx context.Context, id string) (*model.Comparison, error)

	CreateAnalysis(ctx context.Context, analysis *model.Analysis) error
	Analysis(ctx context.Context, id string) (*model.Analysis, error)

	Close() error
}

// Open builds the configured backend.
func Open(cfg model.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// NewID generates a record identifier for comparisons and analyses.
func NewID() string {
	id, err := gonanoid.New()
	if err != nil {
		// Only fails when the OS entropy source is broken.
		panic(err)
	}
	return id
}
