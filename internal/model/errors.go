package model

import (
	"errors"
	"fmt"
)

// Store sentinel errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// FetchErrorKind classifies fetch failures into retryable and terminal
// subsets.
type FetchErrorKind string

const (
	FetchErrInvalidURL FetchErrorKind = "invalid_url" // malformed or non-absolute, terminal
	FetchErrBlocked    FetchErrorKind = "blocked"     // disallowed by robots.txt, terminal
	FetchErrNetwork    FetchErrorKind = "network"     // transport error, retryable
	FetchErrTimeout    FetchErrorKind = "timeout"     // deadline exceeded, retryable
	FetchErrHTTP       FetchErrorKind = "http"        // non-2xx status; retryable only for 5xx and 429
)

// FetchError is a per-URL fetch failure. It never fails the batch;
// callers collect one result per URL.
type FetchError struct {
	URL        string
	Kind       FetchErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %s (status %d)", e.URL, e.Kind, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is transient.
func (e *FetchError) Retryable() bool {
	switch e.Kind {
	case FetchErrNetwork, FetchErrTimeout:
		return true
	case FetchErrHTTP:
		return e.StatusCode == 429 || e.StatusCode >= 500
	default:
		return false
	}
}

// ExtractionError reports unparseable or too-short content. Terminal,
// reported per URL.
type ExtractionError struct {
	URL    string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.URL, e.Reason)
}

// ProcessingError reports a tokenizer or lexicon failure. Terminal per
// article.
type ProcessingError struct {
	ArticleID string
	Stage     string
	Err       error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("process article %s (%s): %v", e.ArticleID, e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
