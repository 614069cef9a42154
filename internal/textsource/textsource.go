// Package textsource loads sample texts for benchmarking.
//
// Texts are addressed by a resource identifier: a file name relative to the
// loader's directory, or an absolute path. A missing resource is reported as
// an ERR_201_TEXT_NOT_FOUND error and never replaced with a default.
package textsource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	sberrors "github.com/Aman-CERP/strbench/internal/errors"
)

// DefaultCacheSize is the default number of texts kept in memory.
const DefaultCacheSize = 16

// Document is a loaded text.
type Document struct {
	// Resource is the identifier the document was requested by.
	Resource string
	// Path is the resolved file path.
	Path string
	// Label is the file name without directory and extension.
	Label string
	// Content is the full UTF-8 text.
	Content string
	// Digest is the xxhash64 of Content.
	Digest uint64
}

// Loader reads texts from a directory and caches them.
// It is safe for concurrent use.
type Loader struct {
	dir   string
	cache *lru.Cache[string, Document]
}

// Option configures a Loader.
type Option func(*loaderOptions)

type loaderOptions struct {
	cacheSize int
}

// WithCacheSize sets the number of cached documents.
func WithCacheSize(n int) Option {
	return func(o *loaderOptions) {
		o.cacheSize = n
	}
}

// NewLoader creates a loader rooted at dir. An empty dir resolves relative
// resources against the working directory.
func NewLoader(dir string, opts ...Option) (*Loader, error) {
	o := loaderOptions{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cacheSize <= 0 {
		o.cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, Document](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create text cache: %w", err)
	}

	return &Loader{dir: dir, cache: cache}, nil
}

// Dir returns the directory relative resources are resolved against.
func (l *Loader) Dir() string {
	return l.dir
}

// Resolve returns the file path for a resource.
func (l *Loader) Resolve(resource string) string {
	if filepath.IsAbs(resource) || l.dir == "" {
		return filepath.Clean(resource)
	}
	return filepath.Join(l.dir, resource)
}

// Load returns the document for resource, reading it on a cache miss.
func (l *Loader) Load(resource string) (Document, error) {
	path := l.Resolve(resource)

	if doc, ok := l.cache.Get(path); ok {
		return doc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, readError(resource, path, err)
	}

	if !utf8.Valid(data) {
		return Document{}, sberrors.New(sberrors.ErrCodeTextEncoding,
			fmt.Sprintf("text is not valid UTF-8: %s", path), nil).
			WithDetail("path", path)
	}

	doc := Document{
		Resource: resource,
		Path:     path,
		Label:    Label(path),
		Content:  string(data),
		Digest:   xxhash.Sum64(data),
	}
	l.cache.Add(path, doc)

	return doc, nil
}

// LoadAll loads every resource concurrently and returns documents in the
// order requested. The first failure cancels the remaining loads and is
// returned unmodified.
func (l *Loader) LoadAll(ctx context.Context, resources []string) ([]Document, error) {
	docs := make([]Document, len(resources))

	g, gctx := errgroup.WithContext(ctx)
	for i, res := range resources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := l.Load(res)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Invalidate drops a resource from the cache so the next Load rereads it.
func (l *Loader) Invalidate(resource string) {
	l.cache.Remove(l.Resolve(resource))
}

// Purge empties the cache.
func (l *Loader) Purge() {
	l.cache.Purge()
}

// Cached returns the number of cached documents.
func (l *Loader) Cached() int {
	return l.cache.Len()
}

// Label returns the file name of path without its extension.
func Label(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func readError(resource, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return sberrors.New(sberrors.ErrCodeTextNotFound,
			fmt.Sprintf("text not found: %s", path), err).
			WithDetail("resource", resource).
			WithDetail("path", path).
			WithSuggestion("Check the file name or pass --dir pointing at the text directory")
	case errors.Is(err, fs.ErrPermission):
		return sberrors.New(sberrors.ErrCodeTextPermission,
			fmt.Sprintf("permission denied reading text: %s", path), err).
			WithDetail("path", path)
	default:
		return sberrors.New(sberrors.ErrCodeTextUnreadable,
			fmt.Sprintf("failed to read text %s: %v", path, err), err).
			WithDetail("path", path)
	}
}
