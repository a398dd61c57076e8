package session

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrBadDataURL marks a download click whose payload is not a decodable
// base64 data URL.
var ErrBadDataURL = errors.New("session: malformed data url")

// saveDataURL decodes a clicked data: link, prompts for a destination and
// writes the payload. A cancelled prompt is not an error. When no download
// name is supplied the extension is sniffed from the decoded bytes.
func (s *Session) saveDataURL(dataURL, downloadName string) error {
	if s.files == nil {
		return nil
	}
	payload, err := decodeDataURL(dataURL)
	if err != nil {
		return err
	}

	name := downloadName
	if name == "" {
		name = "download" + mimetype.Detect(payload).Extension()
	}

	path, ok := s.files.PromptSave(name)
	if !ok {
		return nil
	}
	if err := s.files.Write(path, payload); err != nil {
		return fmt.Errorf("session: write download: %w", err)
	}
	s.files.Open(path)
	return nil
}

// decodeDataURL extracts the base64 payload of a data URL. Only base64
// encoded bodies are accepted; percent-encoded ones are rejected.
func decodeDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, ErrBadDataURL
	}
	_, body, ok := strings.Cut(dataURL, ";base64,")
	if !ok {
		return nil, ErrBadDataURL
	}
	payload, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDataURL, err)
	}
	return payload, nil
}
