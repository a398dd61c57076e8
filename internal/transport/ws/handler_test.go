package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inkcell/surface/internal/bundle"
	"github.com/inkcell/surface/internal/inset"
	"github.com/inkcell/surface/internal/protocol"
	"github.com/inkcell/surface/internal/renderer"
	"github.com/inkcell/surface/internal/session"
	"github.com/inkcell/surface/internal/shared/id"
)

type nopHost struct{}

func (nopHost) UpdateOutputHeight(inset.CellInfo, id.Handle, float64, bool) {}
func (nopHost) UpdateMarkdownHeight(string, float64)                        {}
func (nopHost) SetOutputHovered(id.Handle, bool)                            {}
func (nopHost) FocusEditor(string, bool)                                    {}
func (nopHost) DidScrollWheel(any)                                          {}
func (nopHost) DidScrollAck(uint64)                                         {}
func (nopHost) OpenLink(string)                                             {}
func (nopHost) RendererMessage(string, any)                                 {}
func (nopHost) ClickedMarkdownPreview(string, bool, bool, bool, bool)       {}
func (nopHost) SetMarkdownHovered(string, bool)                             {}
func (nopHost) ToggleMarkdownEditing(string)                                {}
func (nopHost) DragStart(string, float64)                                   {}
func (nopHost) Drag(string, float64)                                        {}
func (nopHost) Drop(string, bool, bool, float64)                            {}
func (nopHost) DragEnd(string)                                              {}

type wsHarness struct {
	handler *Handler
	server  *httptest.Server
	session *session.Session
	root    string
}

func newWSHarness(t *testing.T) *wsHarness {
	t.Helper()
	dir := t.TempDir()
	bootstrap := filepath.Join(dir, "bootstrap.js")
	require.NoError(t, os.WriteFile(bootstrap, []byte("export function boot() {}"), 0o644))
	root := filepath.Join(dir, "assets")
	require.NoError(t, os.MkdirAll(root, 0o755))

	manager := session.NewManager()
	handler := NewHandler(manager, "surface", root, nil, zap.NewNop())

	bridge := NewBridge()
	surf := NewSurface()
	discovery := renderer.NewManifestDiscovery(renderer.Manifest{
		PreviewProviders: []renderer.MarkdownProvider{
			{Entrypoint: "surface://ext/markdown/index.js", BuiltIn: true},
		},
	})
	sess, err := session.New(context.Background(), session.Options{
		Surface:       surf,
		Transport:     bridge,
		Host:          nopHost{},
		Discovery:     discovery,
		Transform:     func(uri string) string { return uri },
		Fetcher:       bundle.NewFetcher(),
		BootstrapURI:  "file://" + bootstrap,
		Styles:        bundle.DefaultStyles(),
		CommandScheme: "command",
	})
	require.NoError(t, err)
	handler.Register(sess, bridge, surf)

	server := httptest.NewServer(Router(handler, nil))
	t.Cleanup(server.Close)
	t.Cleanup(sess.Dispose)

	return &wsHarness{handler: handler, server: server, session: sess, root: root}
}

func (h *wsHarness) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.server.URL, "http") + "/channel/" + h.session.ID().String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, sonic.Unmarshal(data, &m))
	return m
}

func TestServeDocument(t *testing.T) {
	h := newWSHarness(t)

	resp, err := http.Get(h.server.URL + "/surface/" + h.session.ID().String())
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	resp, err = http.Get(h.server.URL + "/surface/surf_unknown")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChannelRoundTrip(t *testing.T) {
	h := newWSHarness(t)
	conn := h.dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"__surfaceMessage":true,"type":"initialized"}`)))
	require.Eventually(t, h.session.Ready, 2*time.Second, 10*time.Millisecond)

	h.session.SetDecorations("cell-1", []string{"running"}, nil)
	frame := readFrame(t, conn)
	assert.Equal(t, "decorations", frame["type"])
	assert.Equal(t, "cell-1", frame["cellId"])
}

func TestReconnectReplaysState(t *testing.T) {
	h := newWSHarness(t)
	first := h.dial(t)
	require.NoError(t, first.WriteMessage(websocket.TextMessage, []byte(`{"__surfaceMessage":true,"type":"initialized"}`)))
	require.Eventually(t, h.session.Ready, 2*time.Second, 10*time.Millisecond)

	handle := id.NewHandle()
	require.NoError(t, h.session.Present(context.Background(), handle, inset.CellInfo{CellID: "c"}, inset.Content{HTML: "<b>x</b>"}, 0, 0))
	created := readFrame(t, first)
	require.Equal(t, "html", created["type"])

	// A regenerated surface opens a fresh connection; the cached creation
	// replays there without the host re-presenting anything.
	second := h.dial(t)
	replayed := readFrame(t, second)
	assert.Equal(t, "html", replayed["type"])
	assert.Equal(t, created["outputId"], replayed["outputId"])
}

func TestResourceAuthorization(t *testing.T) {
	h := newWSHarness(t)

	bundled := filepath.Join(h.root, "widget.js")
	require.NoError(t, os.WriteFile(bundled, []byte("export const w = 1;"), 0o644))

	outside := filepath.Join(t.TempDir(), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("nope"), 0o644))

	// A sibling of the bundled root shares its name prefix but none of
	// its authorization.
	sibling := h.root + "-extra"
	require.NoError(t, os.MkdirAll(sibling, 0o755))
	leak := filepath.Join(sibling, "leak.js")
	require.NoError(t, os.WriteFile(leak, []byte("export const l = 1;"), 0o644))

	base := h.server.URL + "/resources/" + h.session.ID().String()

	resp, err := http.Get(base + bundled)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + outside)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = http.Get(base + leak)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A kernel preload request grants the directory as a resource root.
	h.session.Dispatch(&protocol.Initialized{})
	granted := "surface://" + strings.TrimPrefix(filepath.Dir(outside), "/")
	_, err = h.session.RequestKernelPreloads(context.Background(), nil, []string{granted})
	require.NoError(t, err)

	resp, err = http.Get(base + outside)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
