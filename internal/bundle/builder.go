package bundle

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/inkcell/surface/internal/renderer"
)

// Styles are the style variables injected into the surface document.
type Styles struct {
	FontFamily            string
	FontSize              int
	MarkdownFontSize      int
	OutputNodePadding     int
	OutputNodeLeftPadding int
}

// DefaultStyles returns the editor defaults.
func DefaultStyles() Styles {
	return Styles{
		FontFamily:            "sans-serif",
		FontSize:              13,
		MarkdownFontSize:      14,
		OutputNodePadding:     8,
		OutputNodeLeftPadding: 4,
	}
}

const skeleton = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta http-equiv="Content-Security-Policy" content="default-src 'none'; script-src 'unsafe-inline' 'unsafe-eval' surface: https:; style-src 'unsafe-inline' surface: https:; img-src surface: https: data:; font-src surface: https:;">
</head>
<body>
<div id="container"></div>
<div id="sentinel"></div>
</body>
</html>`

// Builder assembles the document loaded into the surface exactly once per
// attach: style rules, the bootstrap script, and every registered preview
// provider script, built-in providers first.
type Builder struct {
	transform func(uri string) string
}

// NewBuilder creates a builder. transform maps raw URIs to
// surface-addressable ones and is applied to every script source.
func NewBuilder(transform func(string) string) *Builder {
	return &Builder{transform: transform}
}

// Build produces the full surface document.
func (b *Builder) Build(bootstrap []byte, styles Styles, providers []renderer.MarkdownProvider) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(skeleton))
	if err != nil {
		return "", fmt.Errorf("bundle: parse skeleton: %w", err)
	}

	head := doc.Find("head")
	head.AppendHtml(fmt.Sprintf("<style>%s</style>", styleRules(styles)))

	body := doc.Find("body")

	// Built-in providers must load before externally contributed ones.
	ordered := append([]renderer.MarkdownProvider(nil), providers...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].BuiltIn && !ordered[j].BuiltIn
	})
	for _, p := range ordered {
		body.AppendHtml(fmt.Sprintf(`<script type="module" src="%s"></script>`, b.transform(p.Entrypoint)))
	}

	body.AppendHtml(fmt.Sprintf(`<script type="module">%s</script>`, string(bootstrap)))

	html, err := goquery.OuterHtml(doc.Find("html"))
	if err != nil {
		return "", fmt.Errorf("bundle: serialize: %w", err)
	}
	return "<!DOCTYPE html>\n" + html, nil
}

func styleRules(s Styles) string {
	var sb strings.Builder
	sb.WriteString(":root {\n")
	fmt.Fprintf(&sb, "  --surface-font-family: %s;\n", s.FontFamily)
	fmt.Fprintf(&sb, "  --surface-font-size: %dpx;\n", s.FontSize)
	fmt.Fprintf(&sb, "  --surface-markdown-font-size: %dpx;\n", s.MarkdownFontSize)
	fmt.Fprintf(&sb, "  --surface-output-node-padding: %dpx;\n", s.OutputNodePadding)
	fmt.Fprintf(&sb, "  --surface-output-node-left-padding: %dpx;\n", s.OutputNodeLeftPadding)
	sb.WriteString("}\n")
	sb.WriteString("body { margin: 0; padding: 0; font-family: var(--surface-font-family); }\n")
	return sb.String()
}
