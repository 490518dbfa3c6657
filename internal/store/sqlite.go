package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/worawit/newslens/internal/model"
)

// SQLiteStore persists records in a single SQLite file. Records are
// stored as JSON documents keyed by ID; queries never reach inside the
// documents, so the schema stays stable as the models grow.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS articles (
	id          TEXT PRIMARY KEY,
	ingested_at TEXT NOT NULL,
	doc         TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS comparisons (
	id  TEXT PRIMARY KEY,
	doc TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS analyses (
	id  TEXT PRIMARY KEY,
	doc TEXT NOT NULL
);
`

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The driver serializes writers; a single connection avoids
	// SQLITE_BUSY under concurrent API calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) PutArticle(ctx context.Context, article *model.Article) error {
	if article.ID == "" {
		return fmt.Errorf("article has no ID")
	}
	doc, err := marshalArticle(article)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO articles (id, ingested_at, doc) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET ingested_at = excluded.ingested_at, doc = excluded.doc`,
		article.ID, article.IngestedAt.Format("2006-01-02T15:04:05.000000000Z07:00"), doc)
	return err
}

func (s *SQLiteStore) Article(ctx context.Context, id string) (*model.Article, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM articles WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("article %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return unmarshalArticle(doc)
}

func (s *SQLiteStore) Articles(ctx context.Context) ([]*model.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM articles ORDER BY ingested_at DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var articles []*model.Article
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		article, err := unmarshalArticle(doc)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func (s *SQLiteStore) CreateComparison(ctx context.Context, cmp *model.Comparison) error {
	doc, err := json.Marshal(cmp)
	if err != nil {
		return err
	}
	return s.create(ctx, "comparisons", cmp.ID, doc)
}

func (s *SQLiteStore) Comparison(ctx context.Context, id string) (*model.Comparison, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM comparisons WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comparison %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var cmp model.Comparison
	if err := json.Unmarshal(doc, &cmp); err != nil {
		return nil, err
	}
	return &cmp, nil
}

func (s *SQLiteStore) CreateAnalysis(ctx context.Context, analysis *model.Analysis) error {
	doc, err := json.Marshal(analysisDoc{Analysis: analysis, Tokens: articleTokens(analysis.Articles)})
	if err != nil {
		return err
	}
	return s.create(ctx, "analyses", analysis.ID, doc)
}

func (s *SQLiteStore) Analysis(ctx context.Context, id string) (*model.Analysis, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM analyses WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var stored analysisDoc
	if err := json.Unmarshal(doc, &stored); err != nil {
		return nil, err
	}
	restoreTokens(stored.Analysis.Articles, stored.Tokens)
	return stored.Analysis, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) create(ctx context.Context, table, id string, doc []byte) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = ?`, table), id).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("%s %s: %w", table, id, model.ErrAlreadyExists)
	}
	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES (?, ?)`, table), id, doc)
	return err
}

// Token streams carry a json:"-" tag to stay out of API responses, but
// the store needs them back for later comparisons against new
// articles. They ride in a sidecar field of the stored document.

type articleDoc struct {
	*model.Article
	StoredTokens []string `json:"stored_tokens,omitempty"`
}

type analysisDoc struct {
	*model.Analysis
	Tokens map[string][]string `json:"stored_tokens,omitempty"`
}

func marshalArticle(article *model.Article) ([]byte, error) {
	return json.Marshal(articleDoc{Article: article, StoredTokens: article.Tokens})
}

func unmarshalArticle(doc []byte) (*model.Article, error) {
	var stored articleDoc
	stored.Article = &model.Article{}
	if err := json.Unmarshal(doc, &stored); err != nil {
		return nil, err
	}
	stored.Article.Tokens = stored.StoredTokens
	return stored.Article, nil
}

func articleTokens(articles []model.Article) map[string][]string {
	tokens := make(map[string][]string, len(articles))
	for _, a := range articles {
		tokens[a.ID] = a.Tokens
	}
	return tokens
}

func restoreTokens(articles []model.Article, tokens map[string][]string) {
	for i := range articles {
		articles[i].Tokens = tokens[articles[i].ID]
	}
}
