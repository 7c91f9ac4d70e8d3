package detection

import (
	"image"
	"sort"
)

// Options tunes region finding. Zero fields take the defaults from
// DefaultOptions.
type Options struct {
	// WallThreshold is the luminance (0-255) below which a pixel is a wall.
	WallThreshold uint8

	// WallDilation grows walls by this many pixels in every direction before
	// components are found. Negative disables dilation.
	WallDilation int

	// MinAreaFraction drops regions covering less than this share of the
	// page.
	MinAreaFraction float64
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		WallThreshold:   128,
		WallDilation:    2,
		MinAreaFraction: 0.01,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.WallThreshold == 0 {
		o.WallThreshold = d.WallThreshold
	}
	if o.WallDilation == 0 {
		o.WallDilation = d.WallDilation
	}
	if o.MinAreaFraction <= 0 {
		o.MinAreaFraction = d.MinAreaFraction
	}
	return o
}

// Region is one enclosed floor area.
type Region struct {
	// Bounds is the bounding box in image coordinates (exclusive max).
	Bounds image.Rectangle

	// Area is the number of floor pixels in the region.
	Area int

	// Fill is Area divided by the bounding box area, in (0, 1].
	Fill float64

	// Mask is an opaque-where-floor mask the size of the source image.
	Mask *image.Alpha
}

// FindRegions returns the enclosed floor regions of img, largest first.
func FindRegions(img image.Image, opts Options) []Region {
	opts = opts.withDefaults()
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	walls := wallMask(img, opts.WallThreshold)
	if opts.WallDilation > 0 {
		walls = dilate(walls, width, height, opts.WallDilation)
	}

	minArea := int(opts.MinAreaFraction * float64(width*height))
	visited := make([]bool, width*height)
	regions := make([]Region, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if walls[i] || visited[i] {
				continue
			}
			pixels, touchesBorder := floodFill(walls, visited, x, y, width, height)
			if touchesBorder || len(pixels) < minArea || len(pixels) == 0 {
				continue
			}
			regions = append(regions, newRegion(pixels, bounds))
		}
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Area > regions[j].Area
	})
	return regions
}

// newRegion builds a Region from component pixels given in 0-based
// coordinates, translating back to the image's own origin.
func newRegion(pixels []image.Point, bounds image.Rectangle) Region {
	minX, minY := pixels[0].X, pixels[0].Y
	maxX, maxY := minX, minY
	for _, p := range pixels[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}

	mask := image.NewAlpha(bounds)
	for _, p := range pixels {
		mask.Pix[p.Y*mask.Stride+p.X] = 255
	}

	box := image.Rect(minX, minY, maxX+1, maxY+1).Add(bounds.Min)
	return Region{
		Bounds: box,
		Area:   len(pixels),
		Fill:   float64(len(pixels)) / float64(box.Dx()*box.Dy()),
		Mask:   mask,
	}
}

// wallMask marks pixels darker than threshold, indexed y*width+x from the
// image's top-left corner.
func wallMask(img image.Image, threshold uint8) []bool {
	b := img.Bounds()
	width := b.Dx()
	walls := make([]bool, width*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			walls[(y-b.Min.Y)*width+(x-b.Min.X)] = grayValue(img, x, y) < threshold
		}
	}
	return walls
}

// dilate grows every wall pixel into a (2r+1) square.
//
// Done as two separable passes (horizontal then vertical) so the cost is
// linear in r.
func dilate(walls []bool, width, height, r int) []bool {
	horiz := make([]bool, len(walls))
	for y := 0; y < height; y++ {
		row := y * width
		last := -2*r - 1 // column of the most recent wall pixel seen
		for x := 0; x < width+r; x++ {
			if x < width && walls[row+x] {
				last = x
			}
			if t := x - r; t >= 0 && t < width && x-last <= 2*r {
				horiz[row+t] = true
			}
		}
	}

	out := make([]bool, len(walls))
	for x := 0; x < width; x++ {
		last := -2*r - 1
		for y := 0; y < height+r; y++ {
			if y < height && horiz[y*width+x] {
				last = y
			}
			if t := y - r; t >= 0 && t < height && y-last <= 2*r {
				out[t*width+x] = true
			}
		}
	}
	return out
}

// floodFill collects the 4-connected floor component containing (startX,
// startY) and reports whether it reaches the image border.
//
// Uses an explicit stack rather than recursion so large rooms cannot
// overflow the goroutine stack.
func floodFill(walls, visited []bool, startX, startY, width, height int) ([]image.Point, bool) {
	stack := []image.Point{{X: startX, Y: startY}}
	pixels := make([]image.Point, 0)
	touchesBorder := false

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		i := p.Y*width + p.X
		if visited[i] || walls[i] {
			continue
		}

		visited[i] = true
		pixels = append(pixels, p)
		if p.X == 0 || p.Y == 0 || p.X == width-1 || p.Y == height-1 {
			touchesBorder = true
		}

		stack = append(stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}
	return pixels, touchesBorder
}

// grayValue converts a pixel to grayscale using ITU-R BT.601 luminance weights.
// Formula: Y = 0.299*R + 0.587*G + 0.114*B, in integer thousandths.
func grayValue(img image.Image, x, y int) uint8 {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8((299*(r>>8) + 587*(g>>8) + 114*(b>>8)) / 1000)
}
