package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/olgasafonova/confluence-upload/internal/errors"
	"github.com/olgasafonova/confluence-upload/internal/uploader"
	"github.com/olgasafonova/confluence-upload/metrics"
	"github.com/olgasafonova/confluence-upload/tracing"
)

// HandlerRegistry provides type-safe tool registration by mapping
// tool names to their concrete handler implementations.
type HandlerRegistry struct {
	uploader *uploader.Uploader
	logger   *slog.Logger
}

// NewHandlerRegistry creates a new handler registry.
func NewHandlerRegistry(u *uploader.Uploader, logger *slog.Logger) *HandlerRegistry {
	return &HandlerRegistry{
		uploader: u,
		logger:   logger,
	}
}

// RegisterAll registers all tools with the MCP server.
func (h *HandlerRegistry) RegisterAll(server *mcp.Server) {
	for _, spec := range AllTools {
		h.registerByName(server, spec)
	}
	h.logger.Info("Registered all tools", "count", len(AllTools))
}

// registerByName dispatches to the correct typed registration function.
func (h *HandlerRegistry) registerByName(server *mcp.Server, spec ToolSpec) {
	tool := h.buildTool(spec)

	switch spec.Method {
	case "UploadDirectory":
		register(h, server, tool, spec, h.uploader.UploadDirectoryMCP)
	case "DeletePageTree":
		register(h, server, tool, spec, h.uploader.DeletePageTreeMCP)
	case "FindPage":
		register(h, server, tool, spec, h.uploader.FindPageMCP)
	case "ConvertMarkdown":
		register(h, server, tool, spec, h.uploader.ConvertMarkdownMCP)
	default:
		h.logger.Error("Unknown method, tool not registered", "method", spec.Method, "tool", spec.Name)
	}
}

// buildTool creates an mcp.Tool from a ToolSpec.
func (h *HandlerRegistry) buildTool(spec ToolSpec) *mcp.Tool {
	annotations := &mcp.ToolAnnotations{
		Title:          spec.Title,
		ReadOnlyHint:   spec.ReadOnly,
		IdempotentHint: spec.Idempotent,
	}
	if spec.Destructive {
		annotations.DestructiveHint = ptr(true)
	}
	if spec.OpenWorld {
		annotations.OpenWorldHint = ptr(true)
	}

	return &mcp.Tool{
		Name:        spec.Name,
		Description: spec.Description,
		Annotations: annotations,
	}
}

// register is a generic helper that registers a tool with the MCP server.
// It wraps the uploader method with panic recovery, metrics, tracing, and logging.
func register[Args, Result any](
	h *HandlerRegistry,
	server *mcp.Server,
	tool *mcp.Tool,
	spec ToolSpec,
	method func(context.Context, Args) (Result, error),
) {
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args Args) (_ *mcp.CallToolResult, result Result, err error) {
		defer h.recoverPanic(spec.Name, &err)

		ctx, span := tracing.StartSpan(ctx, "mcp.tool."+spec.Name)
		defer span.End()

		tracing.AddToolAttributes(span, spec.Name, spec.Category)
		span.SetAttributes(attribute.Bool("mcp.tool.readonly", spec.ReadOnly))

		metrics.RequestInFlight.WithLabelValues(spec.Name).Inc()
		defer metrics.RequestInFlight.WithLabelValues(spec.Name).Dec()

		start := time.Now()
		result, err = method(ctx, args)
		duration := time.Since(start).Seconds()

		span.SetAttributes(attribute.Float64("mcp.tool.duration_seconds", duration))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.RecordRequest(spec.Name, duration, false)
			var zero Result
			if status := errors.StatusCode(err); status != 0 {
				span.SetAttributes(attribute.Int("http.status_code", status))
				return nil, zero, fmt.Errorf("%s failed (Confluence returned HTTP %d): %w", spec.Name, status, err)
			}
			return nil, zero, fmt.Errorf("%s failed: %w", spec.Name, err)
		}

		span.SetStatus(codes.Ok, "")
		metrics.RecordRequest(spec.Name, duration, true)
		h.logExecution(spec, args, result)
		return nil, result, nil
	})
}

// recoverPanic recovers from panics in tool handlers and reports them as
// tool errors.
func (h *HandlerRegistry) recoverPanic(toolName string, errp *error) {
	if rec := recover(); rec != nil {
		metrics.PanicsRecovered.WithLabelValues(toolName).Inc()
		h.logger.Error("Panic recovered",
			"tool", toolName,
			"panic", rec,
			"stack", string(debug.Stack()))
		if errp != nil {
			*errp = fmt.Errorf("%s: internal error: %v", toolName, rec)
		}
	}
}

// logExecution logs tool execution details.
func (h *HandlerRegistry) logExecution(spec ToolSpec, args, result any) {
	attrs := []any{"tool", spec.Name, "category", spec.Category}

	switch a := args.(type) {
	case uploader.UploadDirectoryArgs:
		attrs = append(attrs, "dir", a.Dir, "parent_id", a.ParentID)
	case uploader.DeletePageTreeArgs:
		attrs = append(attrs, "title", a.Title)
	case uploader.FindPageArgs:
		attrs = append(attrs, "title", a.Title)
	case uploader.ConvertMarkdownArgs:
		attrs = append(attrs, "input_chars", len(a.Markdown))
	}

	switch r := result.(type) {
	case uploader.UploadDirectoryResult:
		attrs = append(attrs, "root_id", r.RootID, "created", r.Created, "skipped", r.Skipped, "failed", r.Failed)
	case uploader.DeletePageTreeResult:
		attrs = append(attrs, "outcome", r.Outcome)
	case uploader.FindPageResult:
		attrs = append(attrs, "found", r.Found)
	case uploader.ConvertMarkdownResult:
		attrs = append(attrs, "output_chars", len(r.Storage), "labels", len(r.Labels))
	}

	h.logger.Info("Tool executed", attrs...)
}
