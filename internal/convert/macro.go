package convert

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// macroRenderer renders code blocks as the Confluence code macro instead of
// <pre><code>.
type macroRenderer struct{}

func (r *macroRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
}

func (r *macroRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	writeCodeMacro(w, string(n.Language(source)), blockText(n, source))
	return ast.WalkSkipChildren, nil
}

func (r *macroRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	writeCodeMacro(w, "", blockText(node, source))
	return ast.WalkSkipChildren, nil
}

func blockText(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(source))
	}
	return b.String()
}

func writeCodeMacro(w util.BufWriter, language, code string) {
	_, _ = w.WriteString(`<ac:structured-macro ac:name="code">`)
	if language != "" {
		_, _ = w.WriteString(`<ac:parameter ac:name="language">`)
		_, _ = w.Write(util.EscapeHTML([]byte(language)))
		_, _ = w.WriteString(`</ac:parameter>`)
	}
	_, _ = w.WriteString(`<ac:plain-text-body><![CDATA[`)
	_, _ = w.WriteString(escapeCDATA(code))
	_, _ = w.WriteString("]]></ac:plain-text-body></ac:structured-macro>\n")
}

// escapeCDATA splits any "]]>" so the section is not closed early.
func escapeCDATA(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}
