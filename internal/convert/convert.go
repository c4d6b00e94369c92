// Package convert turns Markdown documents into Confluence storage format.
//
// The output is XHTML as accepted by the Confluence "storage" representation:
// GFM tables, hard line breaks, fenced code as the code macro and a [TOC]
// paragraph as the toc macro. Conversion never fails; empty documents yield a
// placeholder paragraph.
package convert

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// EmptyPlaceholder is the body used for documents with no content.
const EmptyPlaceholder = "<p><em>Empty document</em></p>"

const (
	tocMarker = "<p>[TOC]</p>"
	tocMacro  = `<ac:structured-macro ac:name="toc" />`
)

// Document is a converted Markdown file.
type Document struct {
	// Body is the storage-format markup.
	Body string
	// Title from front matter, if any. Page naming does not use it.
	Title string
	// Labels collected from front matter tags/labels, normalized for Confluence.
	Labels []string
}

// Converter renders Markdown to storage format. It is stateless after
// construction and safe for concurrent use.
type Converter struct {
	md goldmark.Markdown
}

// New constructs a Converter with the Confluence-oriented goldmark setup.
func New() *Converter {
	return &Converter{md: newEngine()}
}

var defaultConverter = New()

// ToStorage converts Markdown text with the default converter and returns
// only the body.
func ToStorage(text string) string {
	return defaultConverter.Convert([]byte(text)).Body
}

// Convert strips front matter and renders the remaining Markdown.
func (c *Converter) Convert(source []byte) Document {
	meta, body := splitFrontMatter(source)

	doc := Document{
		Title:  meta.Title,
		Labels: normalizeLabels(append(append([]string{}, meta.Tags...), meta.Labels...)),
	}

	if len(bytes.TrimSpace(body)) == 0 {
		doc.Body = EmptyPlaceholder
		return doc
	}

	var buf bytes.Buffer
	if err := c.md.Convert(body, &buf); err != nil {
		// Writing to a bytes.Buffer does not fail; keep the text visible anyway.
		doc.Body = "<p>" + string(util.EscapeHTML(body)) + "</p>"
		return doc
	}

	out := strings.ReplaceAll(buf.String(), tocMarker, tocMacro)
	if strings.TrimSpace(out) == "" {
		out = EmptyPlaceholder
	}
	doc.Body = out
	return doc
}

func newEngine() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(&macroRenderer{}, 100),
			),
		),
	)
}

type frontMatter struct {
	Title  string   `yaml:"title" toml:"title"`
	Tags   []string `yaml:"tags" toml:"tags"`
	Labels []string `yaml:"labels" toml:"labels"`
}

// frontMatterKeys are the keys that mark a leading block as metadata rather
// than a thematic break around ordinary content.
var frontMatterKeys = []string{"title", "tags", "labels"}

// splitFrontMatter returns the parsed metadata and the remaining body.
// Malformed front matter, and blocks without any known key, are left in place.
func splitFrontMatter(source []byte) (frontMatter, []byte) {
	var keys map[string]any
	if _, err := frontmatter.Parse(bytes.NewReader(source), &keys); err != nil {
		return frontMatter{}, source
	}
	if !hasFrontMatterKey(keys) {
		return frontMatter{}, source
	}

	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return frontMatter{}, source
	}
	return meta, body
}

func hasFrontMatterKey(keys map[string]any) bool {
	for _, k := range frontMatterKeys {
		if _, ok := keys[k]; ok {
			return true
		}
	}
	return false
}

// normalizeLabels lowercases labels, replaces whitespace with dashes and
// drops empties and duplicates while keeping first-seen order.
func normalizeLabels(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(raw))
	labels := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.ToLower(strings.Join(strings.Fields(l), "-"))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		labels = append(labels, l)
	}
	if len(labels) == 0 {
		return nil
	}
	return labels
}
