// Package search provides full-text content search over project
// files, backed by the vfs abstraction. The global-search and
// per-buffer-search effects in internal/runtime are its only callers.
package search

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Common errors.
var (
	ErrInvalidQuery   = errors.New("invalid search query")
	ErrSearchCanceled = errors.New("search canceled")
	ErrFileTooLarge   = errors.New("file exceeds maximum size limit")
	ErrPatternTooLong = errors.New("regex pattern exceeds maximum length")
)

// MaxRegexPatternLength bounds pattern size: RE2 guarantees linear
// matching, but compiling an enormous pattern still burns memory.
const MaxRegexPatternLength = 1000

// ContentSearcher provides full-text content search.
type ContentSearcher interface {
	Search(ctx context.Context, query string, opts ContentSearchOptions) ([]ContentMatch, error)
	IndexFile(path string, content []byte) error
	RemoveFile(path string) error
	Clear()
}

// ContentSearchOptions configures content search behavior.
type ContentSearchOptions struct {
	CaseSensitive bool
	WholeWord     bool
	UseRegex      bool

	IncludePaths []string // glob patterns to include
	ExcludePaths []string // glob patterns to exclude
	FileTypes    []string // extensions to search

	MaxResults  int
	MaxFileSize int64

	ContextLines int
}

// ContentMatch is one match: its position, the matching line, and the
// surrounding context for a preview.
type ContentMatch struct {
	Path          string
	Line          int // 1-based
	Column        int // 1-based
	Text          string
	ContextBefore []string
	ContextAfter  []string
	Highlights    []Range
}

// Range is a half-open [Start, End) span within a line.
type Range struct {
	Start int
	End   int
}

// DefaultContentSearchOptions returns the defaults the search panel
// starts from.
func DefaultContentSearchOptions() ContentSearchOptions {
	return ContentSearchOptions{
		MaxResults:   1000,
		MaxFileSize:  10 * 1024 * 1024,
		ContextLines: 2,
	}
}

// CompileQuery turns a panel query into a regex according to opts:
// literal text is quoted, whole-word wraps \b, case-insensitivity
// prepends (?i).
func CompileQuery(query string, opts ContentSearchOptions) (*regexp.Regexp, error) {
	pattern := query
	if !opts.UseRegex {
		pattern = regexp.QuoteMeta(pattern)
	}
	if opts.WholeWord {
		pattern = `\b` + pattern + `\b`
	}
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	return CompileSafeRegex(pattern)
}

// CompileSafeRegex compiles pattern after bounding its length.
func CompileSafeRegex(pattern string) (*regexp.Regexp, error) {
	if len(pattern) > MaxRegexPatternLength {
		return nil, fmt.Errorf("%w: length %d exceeds limit %d", ErrPatternTooLong, len(pattern), MaxRegexPatternLength)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return re, nil
}
