package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/olgasafonova/confluence-upload/internal/confluence"
)

func TestHeader_Upload(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Header(Header{
		Instance:  "nebari-ai.atlassian.net",
		Space:     "PM",
		ParentID:  "71499794",
		Dir:       "/work/docs",
		RootTitle: "Docs",
	})

	out := buf.String()
	for _, want := range []string{"Uploading:", "/work/docs", "nebari-ai.atlassian.net", "PM", "71499794", "Root page:", "Docs"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "DRY RUN") {
		t.Error("dry-run banner shown for a real run")
	}
}

func TestHeader_DeleteDryRun(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Header(Header{Instance: "example.atlassian.net", Space: "PM", Delete: "Artefacts", DryRun: true})

	out := buf.String()
	for _, want := range []string{"DRY RUN MODE", "Deleting page tree:", "Artefacts"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Root page:") {
		t.Error("delete header should not show a root page")
	}
}

func TestProgressLines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.Directory("guides", 1)
	p.File("setup.md", 1)

	out := buf.String()
	if !strings.Contains(out, "  ") || !strings.Contains(out, "guides/") || !strings.Contains(out, "setup.md") {
		t.Errorf("unexpected progress output:\n%s", out)
	}
}

func TestStats(t *testing.T) {
	tests := []struct {
		name    string
		stats   confluence.Stats
		want    []string
		notWant []string
	}{
		{
			name:    "upload",
			stats:   confluence.Stats{Created: 4, Skipped: 1},
			want:    []string{"Results", "Created:", "4", "Skipped:", "1", "Failed:", "0"},
			notWant: []string{"Deleted:"},
		},
		{
			name:  "delete",
			stats: confluence.Stats{Deleted: 1},
			want:  []string{"Deleted:", "1", "Not found:", "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf).Stats(tt.stats)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Error(fmt.Errorf("could not create root page"))
	if !strings.Contains(buf.String(), "ERROR: ") || !strings.Contains(buf.String(), "could not create root page") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestIndent(t *testing.T) {
	if indent(0) != "" || indent(-1) != "" || indent(2) != "    " {
		t.Error("unexpected indentation")
	}
}
