// Package mask turns segmentation masks into room detections.
//
// A segmentation service returns, per detected region, a label, a score and
// a mask image whose non-transparent pixels cover the region. Extract
// reduces the mask to its tightest axis-aligned bounding box in page
// fractions and maps the label onto the room taxonomy.
package mask

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/floorplan-sandbox/internal/imaging"
	"github.com/ironsheep/floorplan-sandbox/internal/rooms"
)

const (
	// MinExtent is the smallest normalized width or height a boundary may
	// have. Narrower masks are widened from their left/top edge.
	MinExtent = 0.05

	MinConfidence = 0.10
	MaxConfidence = 0.99
)

// ErrDecode is wrapped by Extract when the mask bytes are not an image.
var ErrDecode = errors.New("mask decode failed")

// Bounds is a pixel bounding box with inclusive Min and Max corners.
type Bounds struct {
	MinX, MinY, MaxX, MaxY int
}

// Width returns the number of pixel columns covered.
func (b Bounds) Width() int { return b.MaxX - b.MinX + 1 }

// Height returns the number of pixel rows covered.
func (b Bounds) Height() int { return b.MaxY - b.MinY + 1 }

// OpaqueBounds scans every pixel and returns the bounding box of those with
// non-zero alpha, relative to the image origin. ok is false when no pixel
// qualifies.
//
// Alpha is read in place; the common decoder outputs have fast paths and
// other types go through At.
func OpaqueBounds(img image.Image) (b Bounds, ok bool) {
	r := img.Bounds()
	width, height := r.Dx(), r.Dy()

	var alphaAt func(x, y int) uint8
	switch m := img.(type) {
	case *image.NRGBA:
		alphaAt = func(x, y int) uint8 { return m.Pix[y*m.Stride+x*4+3] }
	case *image.RGBA:
		alphaAt = func(x, y int) uint8 { return m.Pix[y*m.Stride+x*4+3] }
	case *image.Alpha:
		alphaAt = func(x, y int) uint8 { return m.Pix[y*m.Stride+x] }
	case *image.Gray, *image.Gray16, *image.YCbCr:
		// No alpha channel: every pixel is opaque.
		if width == 0 || height == 0 {
			return Bounds{}, false
		}
		return Bounds{MaxX: width - 1, MaxY: height - 1}, true
	default:
		alphaAt = func(x, y int) uint8 {
			_, _, _, a := img.At(r.Min.X+x, r.Min.Y+y).RGBA()
			return uint8(a >> 8)
		}
	}

	minX, minY := width, height
	maxX, maxY := -1, -1
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if alphaAt(x, y) == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}

	if maxX < 0 {
		return Bounds{}, false
	}
	return Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}, true
}

// Normalize converts pixel bounds within a width x height image to page
// fractions, flooring width and height at MinExtent.
//
// X and Y are never adjusted, so a sliver at the right or bottom edge yields
// X+Width (or Y+Height) slightly above 1. Renderers clip.
func Normalize(b Bounds, width, height int) rooms.Boundary {
	w := float64(width)
	h := float64(height)
	return rooms.Boundary{
		X:      float64(b.MinX) / w,
		Y:      float64(b.MinY) / h,
		Width:  max(MinExtent, float64(b.Width())/w),
		Height: max(MinExtent, float64(b.Height())/h),
	}
}

// ClampConfidence limits a model score to [MinConfidence, MaxConfidence]
// and rounds it to 2 decimals.
func ClampConfidence(score float64) float64 {
	return rooms.Round2(rooms.Clamp(score, MinConfidence, MaxConfidence))
}

// Extract builds a detection from one segmentation mask.
//
// Parameters:
//   - data: Encoded mask image (PNG expected; JPEG and GIF also decode).
//   - label: Free-text label from the model, mapped with rooms.TypeForLabel.
//   - score: Model confidence, clamped with ClampConfidence.
//   - pageIndex, ordinal: Used for the detection ID "seg-<page>-<ordinal>".
//   - custom: Custom room types, consulted for the detection color.
//
// Returns ok=false with a nil error when the mask has no opaque pixel, and a
// wrapped ErrDecode when data cannot be decoded. Callers skip the segment in
// both cases.
func Extract(data []byte, label string, score float64, pageIndex, ordinal int, custom []rooms.TypeDefinition) (rooms.Detection, bool, error) {
	img, _, err := imaging.Decode(data)
	if err != nil {
		return rooms.Detection{}, false, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	b, ok := OpaqueBounds(img)
	if !ok {
		return rooms.Detection{}, false, nil
	}

	size := img.Bounds()
	key := rooms.TypeForLabel(label)
	return rooms.Detection{
		ID:         fmt.Sprintf("seg-%d-%d", pageIndex, ordinal),
		Label:      rooms.TitleCase(label),
		Type:       key,
		Confidence: ClampConfidence(score),
		Boundary:   Normalize(b, size.Dx(), size.Dy()),
		Color:      rooms.ColorFor(key, custom),
	}, true, nil
}
