package uploader

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/olgasafonova/confluence-upload/internal/confluence"
	"github.com/olgasafonova/confluence-upload/internal/errors"
	"github.com/olgasafonova/confluence-upload/tracing"
)

// Options describes one upload run
type Options struct {
	// Dir is the local directory to mirror
	Dir string `json:"dir"`

	// ParentID is the numeric id of the page the root page is created under
	ParentID string `json:"parent_id"`

	// RootTitle overrides the title-cased directory name
	RootTitle string `json:"root_title"`
}

// Validate checks the run options
func (o Options) Validate() error {
	err := validation.ValidateStruct(&o,
		validation.Field(&o.Dir, validation.Required),
		validation.Field(&o.ParentID, validation.Required, is.Digit),
	)
	return confluence.ToValidationError(err)
}

// Title returns the root page title for this run
func (o Options) Title() string {
	if o.RootTitle != "" {
		return o.RootTitle
	}
	if abs, err := filepath.Abs(o.Dir); err == nil {
		return RootTitle(abs)
	}
	return RootTitle(o.Dir)
}

// Summary is the outcome of an upload run
type Summary struct {
	RootTitle string           `json:"root_title"`
	RootID    string           `json:"root_id,omitempty"`
	Stats     confluence.Stats `json:"stats"`
}

// Uploader runs whole upload and delete operations
type Uploader struct {
	*Walker

	// runMu keeps concurrent MCP tool calls from interleaving runs
	runMu sync.Mutex
}

// New creates an Uploader writing through pages
func New(pages PageService, opts ...Option) *Uploader {
	return &Uploader{Walker: NewWalker(pages, opts...)}
}

// Upload creates a root page for opts.Dir under opts.ParentID, uploads the
// top-level files beneath it, then creates a folder page per top-level
// directory and walks it. It fails only on invalid options, an unusable root
// page, an unreadable top-level directory, or cancellation. Per-page failures
// are reported in the returned stats.
func (u *Uploader) Upload(ctx context.Context, opts Options) (Summary, error) {
	if err := opts.Validate(); err != nil {
		return Summary{}, err
	}

	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return Summary{}, fmt.Errorf("resolve %s: %w", opts.Dir, err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Summary{}, errors.NewConfigError("Not a directory: " + dir)
	}

	summary := Summary{RootTitle: opts.Title()}

	ctx, span := tracing.StartRunSpan(ctx, dir, summary.RootTitle, opts.ParentID)
	defer func() {
		tracing.AddCounts(span, summary.Stats.Created, summary.Stats.Skipped, summary.Stats.Failed)
		span.End()
	}()
	u.logger.Info("Uploading directory",
		"dir", dir,
		"root_title", summary.RootTitle,
		"parent", opts.ParentID,
		"delay", u.pacer.Delay())
	waitsBefore := u.pacer.Waits()

	root := u.pages.CreatePage(ctx, confluence.PageInput{
		Title:    summary.RootTitle,
		Body:     RootBody(summary.RootTitle),
		ParentID: opts.ParentID,
	})
	summary.Stats.Record(root)
	if !root.Usable() {
		err := root.Err
		if err == nil {
			err = fmt.Errorf("no page id returned")
		}
		tracing.RecordError(span, err)
		return summary, fmt.Errorf("could not create root page %q: %w", summary.RootTitle, err)
	}
	summary.RootID = root.ID

	dirs, files, err := listEntries(dir, u.ext)
	if err != nil {
		tracing.RecordError(span, err)
		return summary, fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		u.progress.File(name, 0)

		title := summary.RootTitle + " - " + PrettyTitle(stem(name))
		result, attempted := u.uploadFile(ctx, filepath.Join(dir, name), title, root.ID)
		summary.Stats.Record(result)
		if !attempted {
			continue
		}
		if err := u.pace(ctx); err != nil {
			return summary, err
		}
	}

	for _, name := range dirs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		folder := u.pages.CreatePage(ctx, confluence.PageInput{
			Title:    name,
			Body:     FolderBody(name),
			ParentID: root.ID,
		})
		summary.Stats.Record(folder)
		if !folder.Usable() {
			u.logger.Warn("Folder page unavailable, skipping subtree", "title", name, "error", folder.Err)
			continue
		}

		sub, err := u.Walk(ctx, filepath.Join(dir, name), folder.ID, name, 1)
		summary.Stats.Merge(sub)
		if err != nil {
			if ctx.Err() != nil {
				return summary, err
			}
			u.logger.Error("Skipping unreadable directory", "dir", filepath.Join(dir, name), "error", err)
			summary.Stats.RecordFailure()
		}
	}

	u.logger.Info("Upload finished",
		"created", summary.Stats.Created,
		"skipped", summary.Stats.Skipped,
		"failed", summary.Stats.Failed,
		"pauses", u.pacer.Waits()-waitsBefore)
	return summary, nil
}

// Delete removes the page titled title and, remotely, all its descendants.
// A missing page is reported in the stats, not as an error.
func (u *Uploader) Delete(ctx context.Context, title string) (confluence.DeleteResult, confluence.Stats, error) {
	var stats confluence.Stats
	if strings.TrimSpace(title) == "" {
		return confluence.DeleteResult{}, stats, errors.NewValidationError("title", "", "cannot be blank")
	}

	result := u.pages.DeletePage(ctx, title)
	stats.RecordDelete(result)
	return result, stats, nil
}

// RootBody is the body of the run's root page
func RootBody(title string) string {
	return "<p>Root page for <strong>" + html.EscapeString(title) + "</strong>.</p>"
}

// FolderBody is the body of a top-level directory's page
func FolderBody(name string) string {
	return "<p>Artefacts for <strong>" + html.EscapeString(name) + "</strong>.</p>"
}
