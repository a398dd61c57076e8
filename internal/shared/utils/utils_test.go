package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameValidator(t *testing.T) {
	v := NewFrameValidator(64)

	assert.NoError(t, v.ValidateFrame([]byte(`{"type":"initialized"}`)))
	assert.Error(t, v.ValidateFrame([]byte(`{"type":`)))
	assert.Error(t, v.ValidateFrame(bytes.Repeat([]byte("a"), 65)))
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("surf_01H3ZX", "session id"))
	assert.Error(t, ValidateID("", "session id"))
	assert.Error(t, ValidateID("../etc/passwd", "session id"))
}

func TestETagIsStableAndQuoted(t *testing.T) {
	h := DefaultHasher()
	tag := h.ETag([]byte("content"))
	assert.Equal(t, tag, h.ETag([]byte("content")))
	assert.NotEqual(t, tag, h.ETag([]byte("other")))
	assert.Equal(t, byte('"'), tag[0])
	assert.Equal(t, byte('"'), tag[len(tag)-1])
}
