package protocol

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// ErrUnknownType is returned by Decode for a framework-tagged message whose
// type tag is outside the closed surface → host set.
var ErrUnknownType = errors.New("protocol: unknown message type")

// Encode serializes a host → surface message. The caller is responsible for
// populating the fixed Type tag (every constructor site in this module sets
// it to the message's Kind).
func Encode(msg ToSurface) ([]byte, error) {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s: %w", msg.Kind(), err)
	}
	return data, nil
}

// header is the minimal prefix decoded to route an inbound payload.
type header struct {
	Framed bool   `json:"__surfaceMessage"`
	Type   string `json:"type"`
}

// Decode parses a surface-originated payload into its concrete event type.
// Payloads without the framework discriminant are renderer passthrough and
// decode into RendererEvent regardless of their type tag.
func Decode(data []byte) (FromSurface, error) {
	var h header
	if err := sonic.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("protocol: decode header: %w", err)
	}
	if !h.Framed {
		ev := &RendererEvent{}
		if err := sonic.Unmarshal(data, ev); err != nil {
			return nil, fmt.Errorf("protocol: decode renderer event: %w", err)
		}
		return ev, nil
	}

	unmarshal := func(v FromSurface) (FromSurface, error) {
		if err := sonic.Unmarshal(data, v); err != nil {
			return nil, fmt.Errorf("protocol: decode %s: %w", h.Type, err)
		}
		return v, nil
	}

	switch h.Type {
	case KindInitialized:
		return unmarshal(&Initialized{})
	case KindDimension:
		return unmarshal(&Dimension{})
	case KindMouseEnter:
		return unmarshal(&MouseEnter{})
	case KindMouseLeave:
		return unmarshal(&MouseLeave{})
	case KindScrollWheel:
		return unmarshal(&ScrollWheel{})
	case KindScrollAck:
		return unmarshal(&ScrollAck{})
	case KindFocusEditor:
		return unmarshal(&FocusEditor{})
	case KindClickedLink:
		return unmarshal(&ClickedLink{})
	case KindClickedDataURL:
		return unmarshal(&ClickedDataURL{})
	case KindRendererEvent:
		return unmarshal(&RendererEvent{})
	case KindClickedMarkdown:
		return unmarshal(&ClickedMarkdown{})
	case KindMarkdownMouseEnter:
		return unmarshal(&MarkdownMouseEnter{})
	case KindMarkdownMouseLeave:
		return unmarshal(&MarkdownMouseLeave{})
	case KindToggleMarkdown:
		return unmarshal(&ToggleMarkdown{})
	case KindCellDragStart:
		return unmarshal(&CellDragStart{})
	case KindCellDrag:
		return unmarshal(&CellDrag{})
	case KindCellDrop:
		return unmarshal(&CellDrop{})
	case KindCellDragEnd:
		return unmarshal(&CellDragEnd{})
	case KindInitializedMarkdown:
		return unmarshal(&InitializedMarkdown{})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, h.Type)
	}
}
