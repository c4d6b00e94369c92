package uploader

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/olgasafonova/confluence-upload/internal/confluence/confluencetest"
	"github.com/olgasafonova/confluence-upload/tracing"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return sr
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestUpload_Spans(t *testing.T) {
	server := confluencetest.NewServer("PM")
	defer server.Close()
	parentID := server.AddPage("Team Space", "")
	sr := recordSpans(t)

	u := newTestUploader(t, server, false)
	if _, err := u.Upload(context.Background(), Options{Dir: docsTree(t), ParentID: parentID}); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	var run, walk sdktrace.ReadOnlySpan
	creates := 0
	for _, s := range sr.Ended() {
		switch s.Name() {
		case "uploader.upload":
			run = s
		case "uploader.walk":
			walk = s
		case "confluence.create_page":
			creates++
		}
	}
	if run == nil || walk == nil {
		t.Fatalf("missing run or walk span (run=%v walk=%v)", run != nil, walk != nil)
	}
	if creates != 4 {
		t.Errorf("create_page spans = %d, want 4", creates)
	}

	a := spanAttrs(run)
	if a[tracing.AttrRootTitle].AsString() != "Docs" {
		t.Errorf("root title = %q", a[tracing.AttrRootTitle].AsString())
	}
	if a[tracing.AttrParentID].AsString() != parentID {
		t.Errorf("parent id = %q", a[tracing.AttrParentID].AsString())
	}
	if a[tracing.AttrCreated].AsInt64() != 4 {
		t.Errorf("run created = %d, want 4", a[tracing.AttrCreated].AsInt64())
	}

	w := spanAttrs(walk)
	if w[tracing.AttrDir].AsString() != "guides" || w[tracing.AttrDepth].AsInt64() != 1 {
		t.Errorf("walk attributes = dir %q depth %d", w[tracing.AttrDir].AsString(), w[tracing.AttrDepth].AsInt64())
	}
	if w[tracing.AttrCreated].AsInt64() != 1 {
		t.Errorf("walk created = %d, want 1", w[tracing.AttrCreated].AsInt64())
	}
	if walk.Parent().SpanID() != run.SpanContext().SpanID() {
		t.Error("walk span should be a child of the run span")
	}
}
