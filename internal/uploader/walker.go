// Package uploader mirrors a local directory tree of Markdown files into a
// Confluence page hierarchy. Directories become index pages, files become
// leaf pages, and nesting becomes parent/child relationships.
package uploader

import (
	"context"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/olgasafonova/confluence-upload/internal/confluence"
	"github.com/olgasafonova/confluence-upload/internal/convert"
	"github.com/olgasafonova/confluence-upload/internal/infra"
	"github.com/olgasafonova/confluence-upload/metrics"
	"github.com/olgasafonova/confluence-upload/tracing"
)

// DefaultExtension selects which files become leaf pages
const DefaultExtension = ".md"

// PageService looks up, creates and deletes pages in one space.
// *confluence.Client implements it.
type PageService interface {
	FindPage(ctx context.Context, title string) (string, bool)
	CreatePage(ctx context.Context, in confluence.PageInput) confluence.PageResult
	DeletePage(ctx context.Context, title string) confluence.DeleteResult
}

// Progress receives traversal events, typically for console output
type Progress interface {
	Directory(name string, depth int)
	File(name string, depth int)
}

type noProgress struct{}

func (noProgress) Directory(string, int) {}
func (noProgress) File(string, int)      {}

// Walker uploads one directory level at a time, depth first
type Walker struct {
	pages     PageService
	converter *convert.Converter
	pacer     *infra.Pacer
	progress  Progress
	logger    *slog.Logger
	ext       string
}

// Option configures a Walker
type Option func(*Walker)

// WithPacer sets the delay inserted after each mutating call
func WithPacer(p *infra.Pacer) Option {
	return func(w *Walker) {
		w.pacer = p
	}
}

// WithProgress sets the traversal event sink
func WithProgress(p Progress) Option {
	return func(w *Walker) {
		if p != nil {
			w.progress = p
		}
	}
}

// WithLogger sets a custom logger
func WithLogger(l *slog.Logger) Option {
	return func(w *Walker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithExtension sets the document extension (e.g., ".md", ".markdown")
func WithExtension(ext string) Option {
	return func(w *Walker) {
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.ext = ext
	}
}

// WithConverter sets the Markdown converter
func WithConverter(c *convert.Converter) Option {
	return func(w *Walker) {
		if c != nil {
			w.converter = c
		}
	}
}

// NewWalker creates a Walker that writes through pages
func NewWalker(pages PageService, opts ...Option) *Walker {
	w := &Walker{
		pages:     pages,
		converter: convert.New(),
		pacer:     infra.NewPacer(infra.DefaultPaceDelay),
		progress:  noProgress{},
		logger:    slog.Default(),
		ext:       DefaultExtension,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk uploads the files in dir as children of parentID, then creates an
// index page per subdirectory and recurses into it. Titles are built from
// prefix: leaves are "{prefix} - {Pretty Name}", index pages are
// "{prefix} / {dirname}".
//
// Per-page failures are counted and traversal continues; a failed index page
// prunes its subtree. Walk returns an error only when dir cannot be listed or
// ctx is done.
func (w *Walker) Walk(ctx context.Context, dir, parentID, prefix string, depth int) (confluence.Stats, error) {
	var stats confluence.Stats

	ctx, span := tracing.StartWalkSpan(ctx, filepath.Base(dir), depth)
	defer func() {
		tracing.AddCounts(span, stats.Created, stats.Skipped, stats.Failed)
		span.End()
	}()

	w.progress.Directory(filepath.Base(dir), depth)

	dirs, files, err := listEntries(dir, w.ext)
	if err != nil {
		tracing.RecordError(span, err)
		return stats, fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		w.progress.File(name, depth)

		title := prefix + " - " + PrettyTitle(stem(name))
		result, attempted := w.uploadFile(ctx, filepath.Join(dir, name), title, parentID)
		stats.Record(result)
		if !attempted {
			continue
		}
		if err := w.pace(ctx); err != nil {
			return stats, err
		}
	}

	for _, name := range dirs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		subPrefix := prefix + " / " + name
		index := w.pages.CreatePage(ctx, confluence.PageInput{
			Title:    subPrefix,
			Body:     IndexBody(name),
			ParentID: parentID,
		})
		stats.Record(index)

		if index.Usable() {
			sub, err := w.Walk(ctx, filepath.Join(dir, name), index.ID, subPrefix, depth+1)
			stats.Merge(sub)
			if err != nil {
				if ctx.Err() != nil {
					return stats, err
				}
				w.logger.Error("Skipping unreadable directory", "dir", filepath.Join(dir, name), "error", err)
				stats.RecordFailure()
			}
		} else {
			w.logger.Warn("Index page unavailable, skipping subtree", "title", subPrefix, "error", index.Err)
		}

		if err := w.pace(ctx); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// uploadFile converts one file and creates it as a leaf page. attempted is
// false when the file could not be read and no remote call was made.
func (w *Walker) uploadFile(ctx context.Context, path, title, parentID string) (confluence.PageResult, bool) {
	source, err := os.ReadFile(path)
	if err != nil {
		w.logger.Error("Failed to read file", "path", path, "error", err)
		return confluence.PageResult{
			Kind:  confluence.KindFailed,
			Title: title,
			Err:   fmt.Errorf("read %s: %w", path, err),
		}, false
	}

	doc := w.converter.Convert(source)
	metrics.RecordContentSize("leaf", len(doc.Body))

	return w.pages.CreatePage(ctx, confluence.PageInput{
		Title:    title,
		Body:     doc.Body,
		ParentID: parentID,
		Labels:   doc.Labels,
	}), true
}

func (w *Walker) pace(ctx context.Context) error {
	if w.pacer == nil {
		return ctx.Err()
	}
	metrics.PaceWaits.Inc()
	return w.pacer.Wait(ctx)
}

// IndexBody is the body of the index page created for a nested directory
func IndexBody(name string) string {
	return "<p>Index page for <strong>" + html.EscapeString(name) + "</strong>.</p>"
}

// listEntries returns the non-hidden subdirectories and the files ending in
// ext, both in lexical order. Symlinks are followed.
func listEntries(dir, ext string) (dirs, files []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	for _, e := range entries {
		name := e.Name()
		mode := e.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil {
				continue
			}
			mode = info.Mode().Type()
		}

		switch {
		case mode.IsDir():
			if !strings.HasPrefix(name, ".") {
				dirs = append(dirs, name)
			}
		case mode.IsRegular():
			if strings.HasSuffix(name, ext) {
				files = append(files, name)
			}
		}
	}
	return dirs, files, nil
}

// stem drops the final extension. A leading dot does not start an
// extension, so ".md" keeps its whole name.
func stem(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return name
	}
	return name[:i]
}
