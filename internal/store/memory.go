package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/worawit/newslens/internal/model"
)

const (
	articlePrefix    = "article:"
	comparisonPrefix = "comparison:"
	analysisPrefix   = "analysis:"
)

// MemoryStore keeps all records in process memory. Good for single
// instance deployments and tests; records vanish on restart.
type MemoryStore struct {
	records *gocache.Cache
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: gocache.New(gocache.NoExpiration, 0),
	}
}

func (s *MemoryStore) PutArticle(_ context.Context, article *model.Article) error {
	if article.ID == "" {
		return fmt.Errorf("article has no ID")
	}
	s.records.Set(articlePrefix+article.ID, article, gocache.NoExpiration)
	return nil
}

func (s *MemoryStore) Article(_ context.Context, id string) (*model.Article, error) {
	val, found := s.records.Get(articlePrefix + id)
	if !found {
		return nil, fmt.Errorf("article %s: %w", id, model.ErrNotFound)
	}
	return val.(*model.Article), nil
}

func (s *MemoryStore) Articles(_ context.Context) ([]*model.Article, error) {
	var articles []*model.Article
	for key, item := range s.records.Items() {
		if strings.HasPrefix(key, articlePrefix) {
			articles = append(articles, item.Object.(*model.Article))
		}
	}
	// Map iteration order is random; newest first is the API contract.
	sort.Slice(articles, func(i, j int) bool {
		if !articles[i].IngestedAt.Equal(articles[j].IngestedAt) {
			return articles[i].IngestedAt.After(articles[j].IngestedAt)
		}
		return articles[i].ID < articles[j].ID
	})
	return articles, nil
}

func (s *MemoryStore) CreateComparison(_ context.Context, cmp *model.Comparison) error {
	if err := s.records.Add(comparisonPrefix+cmp.ID, cmp, gocache.NoExpiration); err != nil {
		return fmt.Errorf("comparison %s: %w", cmp.ID, model.ErrAlreadyExists)
	}
	return nil
}

func (s *MemoryStore) Comparison(_ context.Context, id string) (*model.Comparison, error) {
	val, found := s.records.Get(comparisonPrefix + id)
	if !found {
		return nil, fmt.Errorf("comparison %s: %w", id, model.ErrNotFound)
	}
	return val.(*model.Comparison), nil
}

func (s *MemoryStore) CreateAnalysis(_ context.Context, analysis *model.Analysis) error {
	if err := s.records.Add(analysisPrefix+analysis.ID, analysis, gocache.NoExpiration); err != nil {
		return fmt.Errorf("analysis %s: %w", analysis.ID, model.ErrAlreadyExists)
	}
	return nil
}

func (s *MemoryStore) Analysis(_ context.Context, id string) (*model.Analysis, error) {
	val, found := s.records.Get(analysisPrefix + id)
	if !found {
		return nil, fmt.Errorf("analysis %s: %w", id, model.ErrNotFound)
	}
	return val.(*model.Analysis), nil
}

func (s *MemoryStore) Close() error {
	s.records.Flush()
	return nil
}
