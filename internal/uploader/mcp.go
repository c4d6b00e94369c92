package uploader

import (
	"context"
	"strings"

	"github.com/olgasafonova/confluence-upload/internal/errors"
)

// MCP tool wrapper methods.
// Runs are serialized: one tool call uploads or deletes at a time.

// dryRunner is implemented by page services that can simulate writes
type dryRunner interface {
	DryRun() bool
}

// UploadDirectoryMCP is the MCP wrapper for Upload
func (u *Uploader) UploadDirectoryMCP(ctx context.Context, args UploadDirectoryArgs) (UploadDirectoryResult, error) {
	u.runMu.Lock()
	defer u.runMu.Unlock()

	summary, err := u.Upload(ctx, Options{
		Dir:       args.Dir,
		ParentID:  args.ParentID,
		RootTitle: args.RootTitle,
	})
	if err != nil {
		return UploadDirectoryResult{}, err
	}

	result := UploadDirectoryResult{
		RootTitle: summary.RootTitle,
		RootID:    summary.RootID,
		Created:   summary.Stats.Created,
		Skipped:   summary.Stats.Skipped,
		Failed:    summary.Stats.Failed,
	}
	if d, ok := u.pages.(dryRunner); ok {
		result.DryRun = d.DryRun()
	}
	return result, nil
}

// DeletePageTreeMCP is the MCP wrapper for Delete
func (u *Uploader) DeletePageTreeMCP(ctx context.Context, args DeletePageTreeArgs) (DeletePageTreeResult, error) {
	u.runMu.Lock()
	defer u.runMu.Unlock()

	deleted, stats, err := u.Delete(ctx, args.Title)
	if err != nil {
		return DeletePageTreeResult{}, err
	}

	result := DeletePageTreeResult{
		Title:    args.Title,
		Outcome:  deleted.Kind.String(),
		PageID:   deleted.ID,
		Deleted:  stats.Deleted,
		NotFound: stats.NotFound,
		Failed:   stats.Failed,
	}
	if deleted.Err != nil && !errors.IsNotFound(deleted.Err) {
		result.Error = deleted.Err.Error()
	}
	return result, nil
}

// FindPageMCP is the MCP wrapper for FindPage
func (u *Uploader) FindPageMCP(ctx context.Context, args FindPageArgs) (FindPageResult, error) {
	if strings.TrimSpace(args.Title) == "" {
		return FindPageResult{}, errors.NewValidationError("title", "", "cannot be blank")
	}

	id, found := u.pages.FindPage(ctx, args.Title)
	return FindPageResult{Title: args.Title, Found: found, PageID: id}, nil
}

// ConvertMarkdownMCP is the MCP wrapper for the Markdown converter
func (u *Uploader) ConvertMarkdownMCP(_ context.Context, args ConvertMarkdownArgs) (ConvertMarkdownResult, error) {
	doc := u.converter.Convert([]byte(args.Markdown))
	return ConvertMarkdownResult{Storage: doc.Body, Labels: doc.Labels}, nil
}
