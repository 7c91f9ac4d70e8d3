package segment

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/ironsheep/floorplan-sandbox/internal/imaging"
	"github.com/ironsheep/floorplan-sandbox/internal/rooms"
)

// TextBox is a recognized line of text on the page.
type TextBox struct {
	Text       string
	Confidence float64 // 0-1
	Box        image.Rectangle
}

// OCROptions tunes how recognized labels become segments.
type OCROptions struct {
	// Language is the Tesseract language code.
	Language string

	// Padding grows each label box by this multiple of its larger side in
	// every direction, approximating the room around a printed name.
	Padding float64

	// MinConfidence drops recognitions below this score.
	MinConfidence float64
}

// DefaultOCROptions returns the options used when none are configured.
func DefaultOCROptions() OCROptions {
	return OCROptions{
		Language:      "eng",
		Padding:       2.0,
		MinConfidence: 0.5,
	}
}

// segmentsFromText keeps text boxes that name a base room type and renders
// a padded rectangular mask for each.
func segmentsFromText(boxes []TextBox, width, height int, opts OCROptions) ([]Segment, error) {
	segments := make([]Segment, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Text)
		if text == "" || b.Confidence < opts.MinConfidence {
			continue
		}
		if _, ok := rooms.MatchBaseType(text); !ok {
			continue
		}
		mask, err := labelMask(width, height, b.Box, opts.Padding)
		if err != nil {
			return nil, err
		}
		segments = append(segments, Segment{
			Label: text,
			Score: b.Confidence,
			Mask:  mask,
		})
	}
	return segments, nil
}

// labelMask encodes a width x height PNG that is transparent except for box
// grown by pad times its larger side, clipped to the image.
func labelMask(width, height int, box image.Rectangle, pad float64) ([]byte, error) {
	grow := int(math.Round(pad * float64(max(box.Dx(), box.Dy()))))
	canvas := image.Rect(0, 0, width, height)
	r := box.Inset(-grow).Intersect(canvas)

	img := image.NewAlpha(canvas)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetAlpha(x, y, color.Alpha{A: 255})
		}
	}
	return imaging.EncodePNG(img)
}
