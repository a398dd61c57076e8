// Package ws carries the host↔surface channel over a WebSocket: outbound
// protocol messages, inbound surface events, and the resource requests the
// surface makes for preloaded scripts. A reconnect on an existing session
// is treated as a surface reload.
package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Bridge is the outbound half of a session's channel. It is created with
// the session, before any surface has connected; posts while detached are
// dropped, matching the fire-and-forget channel contract.
type Bridge struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewBridge creates a detached bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Post writes one encoded message to the connected surface. Drops the
// message when detached or when the write fails; the surface recovers
// state through the reload replay on its next connect. The mutex is held
// across the write because gorilla allows only one concurrent writer.
func (b *Bridge) Post(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return
	}
	_ = b.conn.WriteMessage(websocket.TextMessage, data)
}

// attach swaps in a new connection, returning the previous one (nil on
// first connect). A non-nil previous connection means the surface was
// regenerated and its state must be replayed.
func (b *Bridge) attach(conn *websocket.Conn) *websocket.Conn {
	b.mu.Lock()
	prev := b.conn
	b.conn = conn
	b.mu.Unlock()
	return prev
}

// detach clears the connection if it is still the current one.
func (b *Bridge) detach(conn *websocket.Conn) {
	b.mu.Lock()
	if b.conn == conn {
		b.conn = nil
	}
	b.mu.Unlock()
}

// Attached reports whether a surface is currently connected.
func (b *Bridge) Attached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}
