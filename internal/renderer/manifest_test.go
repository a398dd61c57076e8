package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
renderers:
  - id: vendor.plot
    entrypoint: https://plugins.example/plot/main.js
    mimeTypes: ["application/vnd.plot+json"]
    preloads:
      - https://plugins.example/plot/runtime.js
    location: https://plugins.example/plot/
markdownProviders:
  - entrypoint: https://plugins.example/katex/preview.js
    builtIn: false
  - entrypoint: builtin:/markdown/preview.js
    builtIn: true
`

func TestParseManifest(t *testing.T) {
	d, err := ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	r, ok := d.Renderer("vendor.plot")
	require.True(t, ok)
	assert.Equal(t, "https://plugins.example/plot/main.js", r.Entrypoint)
	assert.Equal(t, []string{"https://plugins.example/plot/runtime.js"}, r.Preloads)

	_, ok = d.Renderer("missing")
	assert.False(t, ok)
}

func TestBuiltInProvidersSortFirst(t *testing.T) {
	d, err := ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	providers := d.MarkdownProviders()
	require.Len(t, providers, 2)
	assert.True(t, providers[0].BuiltIn)
	assert.False(t, providers[1].BuiltIn)
}

func TestParseManifestRejectsGarbage(t *testing.T) {
	_, err := ParseManifest([]byte("renderers: {not: [valid"))
	assert.Error(t, err)
}
