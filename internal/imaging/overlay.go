package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/floorplan-sandbox/internal/rooms"
)

// OverlayOptions controls overlay rendering. Zero fields take the defaults
// from DefaultOverlayOptions.
type OverlayOptions struct {
	// MaxWidth scales wider pages down to this width, keeping aspect ratio.
	// Zero disables scaling.
	MaxWidth int

	// FillAlpha is the opacity (0-255) of each room's fill.
	FillAlpha uint8

	// StrokeWidth is the outline thickness in pixels.
	StrokeWidth int

	// ShowBadges draws each room's 1-based position in its top-left corner.
	ShowBadges bool
}

// DefaultOverlayOptions returns the options used by the export endpoints.
func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{
		MaxWidth:    1600,
		FillAlpha:   64,
		StrokeWidth: 2,
		ShowBadges:  true,
	}
}

func (o OverlayOptions) withDefaults() OverlayOptions {
	d := DefaultOverlayOptions()
	if o.FillAlpha == 0 {
		o.FillAlpha = d.FillAlpha
	}
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = d.StrokeWidth
	}
	return o
}

// RenderOverlay draws room boundaries over a page image.
//
// Each room gets a translucent fill composited over the page and an opaque
// outline in its color. Boundaries are mapped from page fractions to pixels
// and clipped to the canvas, so boxes that overflow the page edge are cut
// rather than rejected.
func RenderOverlay(page image.Image, dets []rooms.Detection, opts OverlayOptions) *image.RGBA {
	opts = opts.withDefaults()

	src := page
	if opts.MaxWidth > 0 && page.Bounds().Dx() > opts.MaxWidth {
		src = imaging.Resize(page, opts.MaxWidth, 0, imaging.Lanczos)
	}

	result := clone.AsRGBA(src)
	bounds := result.Bounds()

	// Fills are composited one room at a time so overlapping rooms blend.
	rects := make([]image.Rectangle, len(dets))
	for i, d := range dets {
		rects[i] = boundaryRect(d.Boundary, bounds)
		fill := image.NewUniform(parseRoomColor(d.Color, opts.FillAlpha))
		draw.Draw(result, rects[i], fill, image.Point{}, draw.Over)
	}

	for i, d := range dets {
		r := rects[i]
		if r.Empty() {
			continue
		}
		stroke := parseRoomColor(d.Color, 255)
		strokeRect(result, r, opts.StrokeWidth, stroke)
		if opts.ShowBadges {
			inset := opts.StrokeWidth + 1
			drawBadge(result, r.Min.Add(image.Pt(inset, inset)), i+1, stroke)
		}
	}

	return result
}

// boundaryRect maps a normalized boundary onto canvas pixels, clipped.
func boundaryRect(b rooms.Boundary, canvas image.Rectangle) image.Rectangle {
	w := float64(canvas.Dx())
	h := float64(canvas.Dy())
	r := image.Rect(
		canvas.Min.X+int(math.Round(b.X*w)),
		canvas.Min.Y+int(math.Round(b.Y*h)),
		canvas.Min.X+int(math.Round(b.Right()*w)),
		canvas.Min.Y+int(math.Round(b.Bottom()*h)),
	)
	return r.Intersect(canvas)
}

// strokeRect draws an outline of the given width just inside r.
func strokeRect(img *image.RGBA, r image.Rectangle, width int, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if x < r.Min.X+width || x >= r.Max.X-width || y < r.Min.Y+width || y >= r.Max.Y-width {
				img.Set(x, y, c)
			}
		}
	}
}

// Digit glyphs, 3 columns by 5 rows. Each row is a 3-bit mask, high bit on
// the left.
var digitGlyphs = [10][5]uint8{
	{7, 5, 5, 5, 7}, // 0
	{2, 6, 2, 2, 7}, // 1
	{7, 1, 7, 4, 7}, // 2
	{7, 1, 7, 1, 7}, // 3
	{5, 5, 7, 1, 1}, // 4
	{7, 4, 7, 1, 7}, // 5
	{7, 4, 7, 5, 7}, // 6
	{7, 1, 1, 1, 1}, // 7
	{7, 5, 7, 5, 7}, // 8
	{7, 5, 7, 1, 7}, // 9
}

const (
	glyphW   = 3
	glyphH   = 5
	glyphGap = 1
	badgePad = 1
)

// badgeRect returns the box a badge showing n occupies with its top-left
// corner at at.
func badgeRect(at image.Point, n int) image.Rectangle {
	digits := len(strconv.Itoa(n))
	w := 2*badgePad + digits*glyphW + (digits-1)*glyphGap
	h := 2*badgePad + glyphH
	return image.Rectangle{Min: at, Max: at.Add(image.Pt(w, h))}
}

// drawBadge draws n in a solid bg box at at, with text in a contrasting
// color. The badge is clipped to img.
func drawBadge(img *image.RGBA, at image.Point, n int, bg color.NRGBA) {
	box := badgeRect(at, n).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Src)

	fg := badgeTextColor(bg)
	origin := at.Add(image.Pt(badgePad, badgePad))
	for i, ch := range strconv.Itoa(n) {
		glyph := digitGlyphs[ch-'0']
		x0 := origin.X + i*(glyphW+glyphGap)
		for row, bits := range glyph {
			for col := 0; col < glyphW; col++ {
				if bits&(1<<(glyphW-1-col)) == 0 {
					continue
				}
				if p := image.Pt(x0+col, origin.Y+row); p.In(box) {
					img.Set(p.X, p.Y, fg)
				}
			}
		}
	}
}
