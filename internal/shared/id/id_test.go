package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionIDPrefix(t *testing.T) {
	sid := NewSessionID()
	assert.True(t, strings.HasPrefix(sid.String(), "surf_"))
}

func TestHandlePrefix(t *testing.T) {
	h := NewHandle()
	assert.True(t, strings.HasPrefix(h.String(), "inset_"))
}

func TestHandlesUnique(t *testing.T) {
	seen := make(map[Handle]struct{})
	for i := 0; i < 1000; i++ {
		h := NewHandle()
		_, dup := seen[h]
		assert.False(t, dup, "duplicate handle %s", h)
		seen[h] = struct{}{}
	}
}

func TestOutputIDsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewOutputID()
		_, dup := seen[id]
		assert.False(t, dup, "duplicate output id %s", id)
		seen[id] = struct{}{}
	}
}
