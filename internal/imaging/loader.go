package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"image/png"
	"strings"
)

// ErrInvalidDataURL is returned when a string is neither a base64 data URL
// nor bare base64.
var ErrInvalidDataURL = errors.New("invalid data URL")

// ErrTooLarge is returned when an image header declares more pixels than the
// decode limit allows.
var ErrTooLarge = errors.New("image too large")

// MaxPixels is the largest width*height Decode accepts, about 8000x5000.
const MaxPixels = 40_000_000

// Decode decodes PNG, JPEG or GIF bytes of at most MaxPixels pixels.
//
// Returns the decoded image and the registered format name ("png", "jpeg",
// "gif").
func Decode(data []byte) (image.Image, string, error) {
	return DecodeLimit(data, MaxPixels)
}

// DecodeLimit is Decode with a caller-chosen pixel limit. The header is read
// first, so oversized images fail with ErrTooLarge before any pixel buffer
// is allocated.
func DecodeLimit(data []byte, maxPixels int) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("failed to decode image: empty input")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if px := int64(cfg.Width) * int64(cfg.Height); px > int64(maxPixels) {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, maxPixels)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Dimensions reads only the image header.
func Dimensions(data []byte) (*DimensionsResult, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	return &DimensionsResult{Width: cfg.Width, Height: cfg.Height}, nil
}

// DecodeDataURL extracts the payload of a base64 data URL such as
// "data:image/png;base64,iVBOR...".
//
// Bare base64 (no "data:" prefix) is also accepted, since segmentation
// services commonly return masks that way; its MIME type is reported as "".
func DecodeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", fmt.Errorf("%w: empty", ErrInvalidDataURL)
	}

	mime := ""
	payload := s
	if strings.HasPrefix(s, "data:") {
		meta, rest, ok := strings.Cut(s[len("data:"):], ",")
		if !ok {
			return nil, "", fmt.Errorf("%w: missing ','", ErrInvalidDataURL)
		}
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
		}
		mime = strings.TrimSuffix(meta, ";base64")
		payload = rest
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some encoders drop the padding.
		var rawErr error
		data, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if rawErr != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
	}
	return data, mime, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeDataURL encodes img as a "data:image/png;base64," URL.
func EncodeDataURL(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
