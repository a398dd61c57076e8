package renderer

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
)

// Manifest is a static renderer catalog loaded from disk. It stands in for
// a live plugin host in the demo daemon and in tests.
type Manifest struct {
	ContentRenderers []Renderer         `yaml:"renderers"`
	PreviewProviders []MarkdownProvider `yaml:"markdownProviders"`
}

// ManifestDiscovery implements Discovery over a parsed manifest.
type ManifestDiscovery struct {
	byID      map[string]Renderer
	renderers []Renderer
	providers []MarkdownProvider
}

// LoadManifest reads and parses a YAML renderer manifest.
func LoadManifest(path string) (*ManifestDiscovery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("renderer: read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest builds a discovery from raw YAML.
func ParseManifest(data []byte) (*ManifestDiscovery, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("renderer: parse manifest: %w", err)
	}
	return NewManifestDiscovery(m), nil
}

// NewManifestDiscovery indexes a manifest. Preview providers are sorted so
// built-in ones come first, matching their load order in the surface.
func NewManifestDiscovery(m Manifest) *ManifestDiscovery {
	d := &ManifestDiscovery{
		byID:      make(map[string]Renderer, len(m.ContentRenderers)),
		renderers: append([]Renderer(nil), m.ContentRenderers...),
		providers: append([]MarkdownProvider(nil), m.PreviewProviders...),
	}
	for _, r := range d.renderers {
		d.byID[r.ID] = r
	}
	sort.SliceStable(d.providers, func(i, j int) bool {
		return d.providers[i].BuiltIn && !d.providers[j].BuiltIn
	})
	return d
}

// Renderer resolves a renderer by namespace id.
func (d *ManifestDiscovery) Renderer(rendererID string) (Renderer, bool) {
	r, ok := d.byID[rendererID]
	return r, ok
}

// Renderers lists every known content renderer.
func (d *ManifestDiscovery) Renderers() []Renderer {
	return append([]Renderer(nil), d.renderers...)
}

// MarkdownProviders lists preview provider scripts, built-in first.
func (d *ManifestDiscovery) MarkdownProviders() []MarkdownProvider {
	return append([]MarkdownProvider(nil), d.providers...)
}
