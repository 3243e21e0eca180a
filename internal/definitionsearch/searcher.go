package definitionsearch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/maypok86/otter"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/cexpand/internal/query"
)

// ErrDefinitionNotFound is returned when no searched file defines the callee.
var ErrDefinitionNotFound = errors.New("definition not found")

// Options configures a Searcher.
type Options struct {
	Root      string
	Sources   []string
	Ignore    []string
	Workers   int
	CacheSize int
	MaxFiles  int // 0 means unlimited
	Progress  ProgressReporter
}

// Found is a definition and the file it was found in.
type Found struct {
	File       string                `json:"file"`
	Definition *query.DefinitionData `json:"definition"`
}

// Searcher looks for the definition of a declared function across the
// source files of a project. Indexed files are cached by path, size and
// modification time, so repeated searches only reparse files that changed.
type Searcher struct {
	discovery *FileDiscovery
	cache     otter.Cache[string, *fileIndex]
	workers   int
	maxFiles  int
	progress  ProgressReporter
}

// NewSearcher creates a Searcher. Call Close when done with it.
func NewSearcher(opts Options) (*Searcher, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", opts.Root, err)
	}

	discovery, err := NewFileDiscovery(root, opts.Sources, opts.Ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to compile source patterns: %w", err)
	}

	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	cache, err := otter.MustBuilder[string, *fileIndex](cacheSize).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create file cache: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	progress := opts.Progress
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}

	return &Searcher{
		discovery: discovery,
		cache:     cache,
		workers:   workers,
		maxFiles:  opts.MaxFiles,
		progress:  progress,
	}, nil
}

// Close releases the file cache.
func (s *Searcher) Close() {
	s.cache.Close()
}

// SetProgress replaces the progress reporter used by later searches.
func (s *Searcher) SetProgress(progress ProgressReporter) {
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}
	s.progress = progress
}

// Find returns the first definition of decl. The hint file, usually the one
// containing the call, is searched first and the remaining files follow in
// lexical order. Files are indexed in parallel batches; the result is the
// same as a sequential scan.
func (s *Searcher) Find(ctx context.Context, decl *query.DeclarationData, hint string) (*Found, error) {
	if decl == nil {
		return nil, fmt.Errorf("%w: no declaration", ErrDefinitionNotFound)
	}

	files, err := s.discovery.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	files = orderFiles(files, hint)
	if s.maxFiles > 0 && len(files) > s.maxFiles {
		files = files[:s.maxFiles]
	}

	s.progress.OnSearchStart(len(files))

	batchSize := s.workers * 4
	for start := 0; start < len(files); start += batchSize {
		end := min(start+batchSize, len(files))
		batch := files[start:end]

		indexes, err := s.indexBatch(ctx, batch, true)
		if err != nil {
			s.progress.OnSearchComplete(false)
			return nil, err
		}

		for i, ix := range indexes {
			if ix == nil {
				continue
			}
			if def := ix.lookup(decl); def != nil {
				s.progress.OnSearchComplete(true)
				return &Found{File: batch[i], Definition: def}, nil
			}
		}
	}

	s.progress.OnSearchComplete(false)
	return nil, fmt.Errorf("%w: %s", ErrDefinitionNotFound, decl.QualifiedName)
}

// Warm indexes changed files ahead of the next search. Paths outside the
// source patterns and files that no longer exist are skipped.
func (s *Searcher) Warm(ctx context.Context, paths []string) error {
	var accepted []string
	for _, path := range paths {
		if !s.discovery.Accepts(path) {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		accepted = append(accepted, path)
	}

	_, err := s.indexBatch(ctx, accepted, false)
	return err
}

// Discovery returns the file discovery used by the searcher.
func (s *Searcher) Discovery() *FileDiscovery {
	return s.discovery
}

func (s *Searcher) indexBatch(ctx context.Context, files []string, report bool) ([]*fileIndex, error) {
	results := make([]*fileIndex, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ix, err := s.load(path)
			if err != nil {
				log.Printf("Warning: skipping %s: %v", path, err)
			}
			results[i] = ix
			if report {
				s.progress.OnFileSearched(path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// load returns the cached index of path, reparsing it if it changed.
func (s *Searcher) load(path string) (*fileIndex, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	key := cacheKey(path, info)
	if ix, ok := s.cache.Get(key); ok {
		return ix, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ix, err := indexFile(path, content)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, ix)
	return ix, nil
}

func cacheKey(path string, info os.FileInfo) string {
	return fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
}

// orderFiles moves hint to the front when it is one of files.
func orderFiles(files []string, hint string) []string {
	if hint == "" {
		return files
	}
	if abs, err := filepath.Abs(hint); err == nil {
		hint = abs
	}

	ordered := make([]string, 0, len(files))
	found := false
	for _, f := range files {
		if f == hint {
			found = true
			continue
		}
		ordered = append(ordered, f)
	}
	if !found {
		return files
	}
	return append([]string{hint}, ordered...)
}
