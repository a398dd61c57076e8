// Package protocol defines the message contract between the host and the
// sandboxed rendering surface.
//
// Two closed sets of shapes exist: host → surface messages (inset creation,
// visibility, scroll batches, preload updates, markdown preview lifecycle)
// and surface → host events (readiness, dimension reports, pointer events,
// drag lifecycle, download clicks). Surface-originated messages carry a
// fixed discriminant flag separating framework traffic from arbitrary
// renderer passthrough payloads relayed over the same channel.
//
// Messages are plain serializable records. No live references cross the
// wire; routing is done by opaque string ids.
//
// Message Types (Host → Surface):
//   - html: create an output inset
//   - clear / clearOutput: wipe all insets or one output
//   - showOutput / hideOutput: visibility toggles for cached outputs
//   - view-scroll: batched repositioning, tagged with a monotonic version
//   - preload: resource URIs to load before renderers execute
//   - decorations: cell class-name deltas
//   - customRendererMessage: opaque renderer passthrough
//   - createMarkdownPreview, showMarkdownPreview, hideMarkdownPreviews,
//     unhideMarkdownPreviews, deleteMarkdownPreviews,
//     updateSelectedMarkdownPreviews, initializeMarkdownPreviews
//
// Message Types (Surface → Host):
//   - initialized: readiness signal
//   - dimension: rendered height report (output or preview)
//   - mouseenter / mouseleave, did-scroll-wheel, scroll-ack
//   - focus-editor, clicked-link, clicked-data-url
//   - customRendererMessage: opaque renderer passthrough
//   - clickedMarkdownPreview, mouseEnterMarkdownPreview,
//     mouseLeaveMarkdownPreview, toggleMarkdownPreview
//   - cell-drag-start, cell-drag, cell-drop, cell-drag-end
//   - initializedMarkdownPreview: bulk-initialize acknowledgment
package protocol
