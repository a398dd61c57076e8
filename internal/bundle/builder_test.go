package bundle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkcell/surface/internal/renderer"
)

func TestBuildEmbedsBootstrapAndStyles(t *testing.T) {
	b := NewBuilder(func(uri string) string { return "surface:" + uri })

	html, err := b.Build([]byte("console.log('boot');"), DefaultStyles(), nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "console.log('boot');")
	assert.Contains(t, html, "--surface-font-size: 13px")
	assert.Contains(t, html, `id="container"`)
}

func TestBuildOrdersBuiltInProvidersFirst(t *testing.T) {
	b := NewBuilder(func(uri string) string { return uri })

	html, err := b.Build(nil, DefaultStyles(), []renderer.MarkdownProvider{
		{Entrypoint: "ext:/katex/preview.js", BuiltIn: false},
		{Entrypoint: "builtin:/markdown/preview.js", BuiltIn: true},
	})
	require.NoError(t, err)

	builtinIdx := strings.Index(html, "builtin:/markdown/preview.js")
	contribIdx := strings.Index(html, "ext:/katex/preview.js")
	require.Positive(t, builtinIdx)
	require.Positive(t, contribIdx)
	assert.Less(t, builtinIdx, contribIdx)
}

func TestBuildAppliesTransformToProviderSources(t *testing.T) {
	b := NewBuilder(func(uri string) string { return "surface:" + uri })

	html, err := b.Build(nil, DefaultStyles(), []renderer.MarkdownProvider{
		{Entrypoint: "ext:/md/preview.js", BuiltIn: true},
	})
	require.NoError(t, err)
	assert.Contains(t, html, `src="surface:ext:/md/preview.js"`)
}
