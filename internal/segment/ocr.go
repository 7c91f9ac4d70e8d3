//go:build ocr

package segment

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/floorplan-sandbox/internal/imaging"
)

// OCRSegmenter finds printed room names on a floorplan with Tesseract.
//
// Each text line that maps to a base room type becomes a segment whose mask
// is the line's box padded by OCROptions.Padding. It is a local stand-in for
// a hosted model on plans that label their rooms.
type OCRSegmenter struct {
	opts OCROptions
}

// NewOCRSegmenter returns a segmenter using opts. Zero fields take the
// defaults from DefaultOCROptions.
func NewOCRSegmenter(opts OCROptions) (Segmenter, error) {
	d := DefaultOCROptions()
	if opts.Language == "" {
		opts.Language = d.Language
	}
	if opts.Padding <= 0 {
		opts.Padding = d.Padding
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = d.MinConfidence
	}
	return &OCRSegmenter{opts: opts}, nil
}

// Segment runs OCR over the page image.
func (s *OCRSegmenter) Segment(ctx context.Context, image []byte) ([]Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dims, err := imaging.Dimensions(image)
	if err != nil {
		return nil, err
	}
	if dims.Width*dims.Height > imaging.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", imaging.ErrTooLarge, dims.Width, dims.Height)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(s.opts.Language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	lines, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes := make([]TextBox, 0, len(lines))
	for _, l := range lines {
		boxes = append(boxes, TextBox{
			Text:       l.Word,
			Confidence: l.Confidence / 100.0,
			Box:        l.Box,
		})
	}
	return segmentsFromText(boxes, dims.Width, dims.Height, s.opts)
}
