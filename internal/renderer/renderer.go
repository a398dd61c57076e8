// Package renderer describes the rendering plugins the surface can host:
// content renderers contributed by extensions and markdown preview
// providers. Discovery itself is external; this package defines the
// descriptors, the query interface, and a YAML-manifest implementation
// used by the demo daemon.
package renderer

// Renderer describes an extension-contributed content renderer.
type Renderer struct {
	// ID is the renderer's namespace, globally unique across extensions.
	ID string `json:"id" yaml:"id"`
	// Entrypoint is the script loaded into the surface to drive rendering.
	Entrypoint string `json:"entrypoint" yaml:"entrypoint"`
	// MimeTypes lists the payload types this renderer can display.
	MimeTypes []string `json:"mimeTypes" yaml:"mimeTypes"`
	// Preloads are resources that must exist inside the surface before the
	// renderer executes.
	Preloads []string `json:"preloads,omitempty" yaml:"preloads"`
	// Location is the extension root granted resource access when this
	// renderer's preloads are pushed.
	Location string `json:"location" yaml:"location"`
}

// MarkdownProvider contributes a script that renders markdown previews
// inside the surface.
type MarkdownProvider struct {
	Entrypoint string `json:"entrypoint" yaml:"entrypoint"`
	// BuiltIn providers load before externally contributed ones.
	BuiltIn bool `json:"builtIn" yaml:"builtIn"`
}

// Discovery is the read-only view of the plugin system. Queried at session
// construction and again on reload recovery.
type Discovery interface {
	// Renderer resolves a renderer by namespace id.
	Renderer(rendererID string) (Renderer, bool)
	// Renderers lists every known content renderer.
	Renderers() []Renderer
	// MarkdownProviders lists preview provider scripts.
	MarkdownProviders() []MarkdownProvider
}
