// Package walker feeds the text of corpus files into a glossary. A path may
// name a single file, which is always parsed, or a directory whose entries
// are filtered by an extension allow-list.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/internal/glossary"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/internal/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/metrics"
)

// Options controls directory traversal.
type Options struct {
	// Extensions lists the file-name extensions, dot included, accepted
	// during directory scans. Matching is exact and case-sensitive.
	Extensions []string
	// Recursive descends into subdirectories; otherwise only the top
	// level of a directory is scanned.
	Recursive bool
}

// Stats counts what a walker has done so far.
type Stats struct {
	FilesParsed  int
	FilesSkipped int
	InvalidPaths int
}

type Walker struct {
	store      *glossary.Store
	tokenizer  *tokenizer.Tokenizer
	extensions map[string]struct{}
	recursive  bool
	metrics    *metrics.Metrics
	stats      Stats
}

// New returns a Walker adding words to store. m may be nil.
func New(store *glossary.Store, tok *tokenizer.Tokenizer, opts Options, m *metrics.Metrics) *Walker {
	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[ext] = struct{}{}
	}
	if tok == nil {
		tok = &tokenizer.Tokenizer{}
	}
	return &Walker{
		store:      store,
		tokenizer:  tok,
		extensions: exts,
		recursive:  opts.Recursive,
		metrics:    m,
	}
}

func (w *Walker) Stats() Stats {
	return w.stats
}

// Walk processes path. A path that is neither a regular file nor a
// directory yields an error wrapping ErrInvalidInputPath, which callers
// report without aborting the run. Any other error is fatal.
func (w *Walker) Walk(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil || (!info.Mode().IsRegular() && !info.IsDir()) {
		return w.invalid(ctx, path, "should be either a file or a directory")
	}
	if info.IsDir() {
		return w.walkDirectory(ctx, path)
	}
	return w.ParseFile(ctx, path)
}

// ParseFile reads the whole file at path and merges its words into the
// glossary. The extension allow-list does not apply here.
func (w *Walker) ParseFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		w.invalid(ctx, path, "is not a file")
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return apperrors.Newf(apperrors.ErrIO, apperrors.ExitFatal, "reading %s: %v", path, err)
	}

	sizeBefore := w.store.Len()
	words := w.tokenizer.Extract(string(content))
	added := w.store.Add(words)

	w.stats.FilesParsed++
	if w.metrics != nil {
		w.metrics.FilesParsedTotal.Inc()
		w.metrics.WordsExtractedTotal.Add(float64(len(words)))
		w.metrics.WordsNewTotal.Add(float64(added))
	}
	w.log(ctx).Info("parsed file",
		"path", path,
		"found", len(words),
		"new", added,
		"size_before", sizeBefore,
		"size_after", w.store.Len(),
	)
	return nil
}

func (w *Walker) walkDirectory(ctx context.Context, root string) error {
	if !w.recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return apperrors.Newf(apperrors.ErrIO, apperrors.ExitFatal, "reading directory %s: %v", root, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if err := w.visit(ctx, filepath.Join(root, entry.Name())); err != nil {
				return err
			}
		}
		return nil
	}

	// WalkDir does not follow a symlinked root.
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return apperrors.Newf(apperrors.ErrIO, apperrors.ExitFatal, "resolving directory %s: %v", root, err)
	}
	return filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path != resolved && d != nil && d.IsDir() {
				if w.metrics != nil {
					w.metrics.FilesSkippedTotal.WithLabelValues("unreadable_dir").Inc()
				}
				w.log(ctx).Warn("skipping unreadable directory", "path", path, "error", err)
				return filepath.SkipDir
			}
			return apperrors.Newf(apperrors.ErrIO, apperrors.ExitFatal, "walking %s: %v", path, err)
		}
		if d.IsDir() {
			return nil
		}
		return w.visit(ctx, path)
	})
}

func (w *Walker) visit(ctx context.Context, path string) error {
	if !w.accepts(path) {
		w.stats.FilesSkipped++
		if w.metrics != nil {
			w.metrics.FilesSkippedTotal.WithLabelValues("extension").Inc()
		}
		return nil
	}
	return w.ParseFile(ctx, path)
}

func (w *Walker) accepts(path string) bool {
	_, ok := w.extensions[filepath.Ext(path)]
	return ok
}

func (w *Walker) invalid(ctx context.Context, path, reason string) error {
	w.stats.InvalidPaths++
	if w.metrics != nil {
		w.metrics.FilesSkippedTotal.WithLabelValues("invalid_path").Inc()
	}
	err := apperrors.Newf(apperrors.ErrInvalidInputPath, apperrors.ExitFatal, "%s %s", path, reason)
	w.log(ctx).Error("skipping input", "path", path, "error", err)
	return err
}

func (w *Walker) log(ctx context.Context) *slog.Logger {
	return logger.WithComponent(ctx, "walker")
}

func (s Stats) String() string {
	return fmt.Sprintf("parsed=%d skipped=%d invalid=%d", s.FilesParsed, s.FilesSkipped, s.InvalidPaths)
}
