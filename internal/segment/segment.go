// Package segment abstracts the image-segmentation capability behind room
// detection.
//
// A Segmenter takes encoded page image bytes and returns the regions it
// found, each with a free-text label, a score and an encoded mask image.
// The analysis service depends only on the interface, so the mask
// extractor and fallback logic are tested without network access.
//
// Three implementations ship:
//
//   - HTTPClient posts the page to a hosted segmentation model.
//   - OCRSegmenter (build tag "ocr") reads printed room names off the plan
//     with Tesseract and emits a rectangular mask around each one.
//   - RegionSegmenter masks every floor area enclosed by walls.
package segment

import (
	"context"
	"errors"
)

// Segment is one region returned by a segmentation model.
type Segment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Mask  []byte  `json:"-"` // Encoded mask image, usually PNG
}

// Segmenter detects labeled regions in an encoded page image.
type Segmenter interface {
	Segment(ctx context.Context, image []byte) ([]Segment, error)
}

// SegmenterFunc adapts a function to the Segmenter interface.
type SegmenterFunc func(ctx context.Context, image []byte) ([]Segment, error)

// Segment calls f.
func (f SegmenterFunc) Segment(ctx context.Context, image []byte) ([]Segment, error) {
	return f(ctx, image)
}

// ErrOCRUnavailable is returned by NewOCRSegmenter in builds without the
// "ocr" tag.
var ErrOCRUnavailable = errors.New("OCR segmenter not available: rebuild with -tags ocr")
