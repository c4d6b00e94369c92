// Package confluence provides a client for the Confluence Cloud content REST API.
// It looks pages up by exact title, creates pages under a parent and deletes
// page trees, returning explicit result values instead of keeping counters.
package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/olgasafonova/confluence-upload/internal/base"
	"github.com/olgasafonova/confluence-upload/internal/errors"
	"github.com/olgasafonova/confluence-upload/metrics"
	"github.com/olgasafonova/confluence-upload/tracing"
)

// DryRunIDPrefix marks synthetic page ids handed out in dry-run mode
const DryRunIDPrefix = "dry-run-"

// Client talks to one Confluence space
type Client struct {
	*base.Client
	config *Config
	logger *slog.Logger
	newID  func() string
}

// ClientOption configures the Client (re-export base.ClientOption)
type ClientOption = base.ClientOption

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return base.WithHTTPClient(c)
}

// NewClient creates a Confluence client for config
func NewClient(config *Config, logger *slog.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	baseOpts := []base.ClientOption{
		base.WithLogger(logger),
		base.WithBasicAuth(config.Email, config.APIToken),
		base.WithTimeout(config.Timeout),
	}
	baseOpts = append(baseOpts, opts...)

	return &Client{
		Client: base.NewClient(baseOpts...),
		config: config,
		logger: logger,
		newID:  func() string { return DryRunIDPrefix + uuid.NewString() },
	}
}

// Space returns the configured space key
func (c *Client) Space() string {
	return c.config.SpaceKey
}

// DryRun reports whether mutating calls are simulated
func (c *Client) DryRun() bool {
	return c.config.DryRun
}

// FindPage returns the id of the page whose title matches exactly.
// Non-success responses and transport errors count as "not found".
func (c *Client) FindPage(ctx context.Context, title string) (string, bool) {
	ctx, span := tracing.StartPageSpan(ctx, "find", c.config.SpaceKey, title)
	defer span.End()

	params := url.Values{}
	params.Set("title", title)
	params.Set("spaceKey", c.config.SpaceKey)
	params.Set("type", "page")

	body, status, err := c.DoRequest(ctx, base.RequestConfig{
		URL:       c.config.APIBase() + "/content?" + params.Encode(),
		Operation: "find",
	})
	if err != nil {
		c.logger.Warn("Page lookup failed", "title", title, "error", err)
		return "", false
	}
	if status != http.StatusOK {
		c.logger.Warn("Page lookup returned non-OK status", "title", title, "status", status)
		return "", false
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Warn("Page lookup returned unparseable body", "title", title, "error", err)
		return "", false
	}

	for _, r := range resp.Results {
		if r.Title == title {
			return r.ID, true
		}
	}
	return "", false
}

// CreatePage creates a page under in.ParentID unless a page with the same
// title already exists in the space.
func (c *Client) CreatePage(ctx context.Context, in PageInput) PageResult {
	ctx, span := tracing.StartPageSpan(ctx, "create", c.config.SpaceKey, in.Title)
	defer span.End()

	result := c.createPage(ctx, in)
	metrics.RecordOutcome(result.Kind.String())
	tracing.EndPage(span, result.Kind.String(), result.ID, result.Err)
	return result
}

func (c *Client) createPage(ctx context.Context, in PageInput) PageResult {
	if existing, ok := c.FindPage(ctx, in.Title); ok {
		c.logger.Info("Page exists, skipping", "title", in.Title, "id", existing)
		return PageResult{Kind: KindSkipped, Title: in.Title, ID: existing}
	}

	if c.config.DryRun {
		id := c.newID()
		c.logger.Info("[dry-run] Would create page", "title", in.Title, "parent", in.ParentID)
		return PageResult{Kind: KindSimulated, Title: in.Title, ID: id}
	}

	payload := createRequest{
		Type:  "page",
		Title: in.Title,
		Space: spaceRef{Key: c.config.SpaceKey},
		Body: pageBody{Storage: storageValue{
			Value:          in.Body,
			Representation: "storage",
		}},
	}
	if in.ParentID != "" {
		payload.Ancestors = []ancestorRef{{ID: in.ParentID}}
	}
	if len(in.Labels) > 0 {
		labels := make([]pageLabel, 0, len(in.Labels))
		for _, l := range in.Labels {
			labels = append(labels, pageLabel{Prefix: "global", Name: l})
		}
		payload.Metadata = &pageMetadata{Labels: labels}
	}

	body, status, err := c.DoRequest(ctx, base.RequestConfig{
		Method:    http.MethodPost,
		URL:       c.config.APIBase() + "/content",
		Body:      payload,
		Operation: "create",
	})
	if err != nil {
		c.logger.Error("Failed to create page", "title", in.Title, "error", err)
		return PageResult{Kind: KindFailed, Title: in.Title, Err: fmt.Errorf("create %q: %w", in.Title, err)}
	}

	if status != http.StatusOK && status != http.StatusCreated {
		apiErr := errors.NewAPIError("create", in.Title, status, errorMessage(body))
		c.logger.Error("Failed to create page",
			"title", in.Title,
			"status", status,
			"message", apiErr.Message)
		return PageResult{Kind: KindFailed, Title: in.Title, Err: apiErr}
	}

	var page pageSummary
	if err := json.Unmarshal(body, &page); err != nil || page.ID == "" {
		apiErr := errors.NewAPIError("create", in.Title, status, "response did not include a page id")
		c.logger.Error("Failed to create page", "title", in.Title, "status", status, "message", apiErr.Message)
		return PageResult{Kind: KindFailed, Title: in.Title, Err: apiErr}
	}

	c.logger.Info("Created page", "title", page.Title, "id", page.ID)
	return PageResult{Kind: KindCreated, Title: in.Title, ID: page.ID}
}

// DeletePage deletes the page with the given title. Confluence removes its
// descendants along with it.
func (c *Client) DeletePage(ctx context.Context, title string) DeleteResult {
	ctx, span := tracing.StartPageSpan(ctx, "delete", c.config.SpaceKey, title)
	defer span.End()

	result := c.deletePage(ctx, title)
	metrics.RecordOutcome(result.Kind.String())
	var spanErr error
	if result.Kind == DeleteFailed {
		spanErr = result.Err
	}
	tracing.EndPage(span, result.Kind.String(), result.ID, spanErr)
	return result
}

func (c *Client) deletePage(ctx context.Context, title string) DeleteResult {
	id, ok := c.FindPage(ctx, title)
	if !ok {
		c.logger.Warn("Page not found", "title", title, "space", c.config.SpaceKey)
		return DeleteResult{
			Kind:  DeleteNotFound,
			Title: title,
			Err:   errors.NewNotFoundError(c.config.SpaceKey, title),
		}
	}

	if c.config.DryRun {
		c.logger.Info("[dry-run] Would delete page", "title", title, "id", id)
		return DeleteResult{Kind: DeleteSimulated, Title: title, ID: id}
	}

	body, status, err := c.DoRequest(ctx, base.RequestConfig{
		Method:    http.MethodDelete,
		URL:       c.config.APIBase() + "/content/" + url.PathEscape(id),
		Operation: "delete",
	})
	if err != nil {
		c.logger.Error("Failed to delete page", "title", title, "id", id, "error", err)
		return DeleteResult{Kind: DeleteFailed, Title: title, ID: id, Err: fmt.Errorf("delete %q: %w", title, err)}
	}

	if status != http.StatusOK && status != http.StatusNoContent {
		apiErr := errors.NewAPIError("delete", title, status, errorMessage(body))
		c.logger.Error("Failed to delete page",
			"title", title,
			"id", id,
			"status", status,
			"message", apiErr.Message)
		return DeleteResult{Kind: DeleteFailed, Title: title, ID: id, Err: apiErr}
	}

	c.logger.Info("Deleted page and all children", "title", title, "id", id)
	return DeleteResult{Kind: DeleteDeleted, Title: title, ID: id}
}

// errorMessage extracts the message field from an error body, falling back
// to the first 200 bytes of raw text.
func errorMessage(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Message != "" {
		return resp.Message
	}
	return base.Truncate(string(body), 200)
}
