package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCarriesTypeTag(t *testing.T) {
	data, err := Encode(ShowOutput{
		Type:     KindShowOutput,
		CellID:   "c1",
		OutputID: "out-1",
		CellTop:  100,
		Top:      120,
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"showOutput"`)
	assert.Contains(t, string(data), `"outputId":"out-1"`)
}

func TestDecodeFrameworkEvent(t *testing.T) {
	raw := []byte(`{"__surfaceMessage":true,"type":"dimension","id":"out-1","isOutput":true,"height":42.5}`)

	ev, err := Decode(raw)
	require.NoError(t, err)

	dim, ok := ev.(*Dimension)
	require.True(t, ok, "expected *Dimension, got %T", ev)
	assert.Equal(t, "out-1", dim.ID)
	assert.True(t, dim.IsOutput)
	assert.Equal(t, 42.5, dim.Height)
}

func TestDecodeRendererPassthrough(t *testing.T) {
	// No discriminant flag: arbitrary renderer payloads must never be
	// interpreted as framework traffic, whatever their type tag says.
	raw := []byte(`{"type":"dimension","rendererId":"vendor.plot","message":{"zoom":2}}`)

	ev, err := Decode(raw)
	require.NoError(t, err)

	re, ok := ev.(*RendererEvent)
	require.True(t, ok, "expected *RendererEvent, got %T", ev)
	assert.Equal(t, "vendor.plot", re.RendererID)
	assert.False(t, re.Framed)
}

func TestDecodeUnknownTypeRejected(t *testing.T) {
	raw := []byte(`{"__surfaceMessage":true,"type":"launch-missiles"}`)

	_, err := Decode(raw)
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestDecodeMalformedPayload(t *testing.T) {
	_, err := Decode([]byte(`{"__surfaceMessage":tru`))
	assert.Error(t, err)
}
