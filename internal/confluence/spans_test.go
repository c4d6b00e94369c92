package confluence

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
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

// endedSpan returns the single ended span called name
func endedSpan(t *testing.T, sr *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	var found []sdktrace.ReadOnlySpan
	for _, s := range sr.Ended() {
		if s.Name() == name {
			found = append(found, s)
		}
	}
	if len(found) != 1 {
		t.Fatalf("spans named %s = %d, want 1", name, len(found))
	}
	return found[0]
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) string {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value.Emit()
		}
	}
	return ""
}

func TestCreatePage_Span(t *testing.T) {
	server := confluencetest.NewServer("PM")
	defer server.Close()
	server.FailCreate("Docs", 400)
	client := newTestClient(t, server, false)

	tests := []struct {
		name        string
		title       string
		wantOutcome string
		wantStatus  codes.Code
	}{
		{"created", "Intro", "created", codes.Unset},
		{"failed", "Docs", "failed", codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := recordSpans(t)

			client.CreatePage(context.Background(), PageInput{Title: tt.title, Body: "<p>x</p>", ParentID: "1"})

			span := endedSpan(t, sr, "confluence.create_page")
			if got := spanAttr(span, tracing.AttrSpace); got != "PM" {
				t.Errorf("space = %q", got)
			}
			if got := spanAttr(span, tracing.AttrTitle); got != tt.title {
				t.Errorf("title = %q, want %q", got, tt.title)
			}
			if got := spanAttr(span, tracing.AttrOutcome); got != tt.wantOutcome {
				t.Errorf("outcome = %q, want %q", got, tt.wantOutcome)
			}
			if span.Status().Code != tt.wantStatus {
				t.Errorf("status = %v, want %v", span.Status().Code, tt.wantStatus)
			}
		})
	}
}

func TestDeletePage_Span(t *testing.T) {
	server := confluencetest.NewServer("PM")
	defer server.Close()
	server.AddPage("Locked", "1")
	server.FailDelete("Locked", 403)
	client := newTestClient(t, server, false)

	tests := []struct {
		name        string
		title       string
		wantOutcome string
		wantStatus  codes.Code
	}{
		{"not found is not an error", "Missing", "not_found", codes.Unset},
		{"failed", "Locked", "failed", codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := recordSpans(t)

			client.DeletePage(context.Background(), tt.title)

			span := endedSpan(t, sr, "confluence.delete_page")
			if got := spanAttr(span, tracing.AttrSpace); got != "PM" {
				t.Errorf("space = %q", got)
			}
			if got := spanAttr(span, tracing.AttrOutcome); got != tt.wantOutcome {
				t.Errorf("outcome = %q, want %q", got, tt.wantOutcome)
			}
			if span.Status().Code != tt.wantStatus {
				t.Errorf("status = %v, want %v", span.Status().Code, tt.wantStatus)
			}
		})
	}
}
