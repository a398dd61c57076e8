// Package utils provides small shared helpers: inbound frame validation
// and content hashing for resource caching.
package utils

import (
	"fmt"
	"regexp"

	"github.com/bytedance/sonic"
)

// Frame size limits (in bytes)
const (
	// MaxFrameSize caps one inbound surface frame. Renderer passthrough
	// payloads dominate; anything larger is hostile or broken.
	MaxFrameSize = 1 * 1024 * 1024
	// MaxContentSize caps markdown content shipped into a preview.
	MaxContentSize = 512 * 1024
)

// SafeIDPattern allows alphanumeric, hyphens, underscores. Session ids
// and cell ids on HTTP routes must match it.
var SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// FrameValidator validates inbound frame size and shape before decoding.
type FrameValidator struct {
	maxSize int
}

// NewFrameValidator creates a validator with the specified max size.
func NewFrameValidator(maxSize int) *FrameValidator {
	return &FrameValidator{maxSize: maxSize}
}

// DefaultFrameValidator returns a validator with the default frame limit.
func DefaultFrameValidator() *FrameValidator {
	return NewFrameValidator(MaxFrameSize)
}

// ValidateSize checks if the data size is within limits.
func (v *FrameValidator) ValidateSize(data []byte) error {
	if len(data) > v.maxSize {
		return fmt.Errorf("frame size %d bytes exceeds maximum %d bytes", len(data), v.maxSize)
	}
	return nil
}

// ValidateFrame validates both size and JSON well-formedness.
func (v *FrameValidator) ValidateFrame(data []byte) error {
	if err := v.ValidateSize(data); err != nil {
		return err
	}
	if !sonic.Valid(data) {
		return fmt.Errorf("frame is not valid JSON")
	}
	return nil
}

// ValidateID validates a route id parameter (session or cell id).
func ValidateID(id, fieldName string) error {
	if id == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if len(id) > 128 {
		return fmt.Errorf("%s exceeds maximum length", fieldName)
	}
	if !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}
	return nil
}
