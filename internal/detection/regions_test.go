package detection

import (
	"image"
	"image/color"
	"testing"
)

// floorplan returns a white w x h page.
func floorplan(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// wall draws a black axis-aligned wall of the given thickness covering r.
func wall(img *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, color.Black)
		}
	}
}

// outline draws a closed rectangle of walls 2px thick around r.
func outline(img *image.RGBA, r image.Rectangle) {
	wall(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+2))
	wall(img, image.Rect(r.Min.X, r.Max.Y-2, r.Max.X, r.Max.Y))
	wall(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+2, r.Max.Y))
	wall(img, image.Rect(r.Max.X-2, r.Min.Y, r.Max.X, r.Max.Y))
}

func noDilation() Options {
	o := DefaultOptions()
	o.WallDilation = -1
	return o
}

func TestFindRegions_SingleRoom(t *testing.T) {
	img := floorplan(100, 100)
	outline(img, image.Rect(10, 10, 60, 50))

	regions := FindRegions(img, noDilation())
	if len(regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(regions))
	}

	r := regions[0]
	want := image.Rect(12, 12, 58, 48)
	if r.Bounds != want {
		t.Errorf("Bounds = %v, want %v", r.Bounds, want)
	}
	if r.Area != want.Dx()*want.Dy() {
		t.Errorf("Area = %d, want %d", r.Area, want.Dx()*want.Dy())
	}
	if r.Fill != 1.0 {
		t.Errorf("Fill = %v, want 1.0", r.Fill)
	}
	if got := r.Mask.AlphaAt(30, 30).A; got != 255 {
		t.Errorf("mask inside room = %d, want 255", got)
	}
	if got := r.Mask.AlphaAt(5, 5).A; got != 0 {
		t.Errorf("mask outside room = %d, want 0", got)
	}
}

func TestFindRegions_SplitRoomsLargestFirst(t *testing.T) {
	img := floorplan(120, 80)
	outline(img, image.Rect(10, 10, 110, 70))
	// Interior wall splitting the plan 3:1.
	wall(img, image.Rect(84, 10, 86, 70))

	regions := FindRegions(img, noDilation())
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(regions))
	}
	if regions[0].Area <= regions[1].Area {
		t.Errorf("regions not sorted by area: %d, %d", regions[0].Area, regions[1].Area)
	}
	if regions[0].Bounds.Min.X != 12 || regions[1].Bounds.Min.X != 86 {
		t.Errorf("unexpected bounds: %v, %v", regions[0].Bounds, regions[1].Bounds)
	}
}

func TestFindRegions_ExteriorIgnored(t *testing.T) {
	// A plan with no enclosed area has only exterior.
	img := floorplan(50, 50)
	wall(img, image.Rect(0, 25, 50, 27))

	if regions := FindRegions(img, noDilation()); len(regions) != 0 {
		t.Errorf("got %d regions, want 0", len(regions))
	}
}

func TestFindRegions_MinArea(t *testing.T) {
	img := floorplan(100, 100)
	outline(img, image.Rect(10, 10, 80, 80))
	// 4x4 closet: 16 px, well under 1% of the page.
	outline(img, image.Rect(85, 85, 93, 93))

	regions := FindRegions(img, noDilation())
	if len(regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(regions))
	}

	opts := noDilation()
	opts.MinAreaFraction = 0.001
	if regions := FindRegions(img, opts); len(regions) != 2 {
		t.Errorf("with lower threshold got %d regions, want 2", len(regions))
	}
}

func TestFindRegions_DilationClosesDoorGap(t *testing.T) {
	img := floorplan(120, 80)
	outline(img, image.Rect(10, 10, 110, 70))
	// Interior wall with a 3px door gap.
	wall(img, image.Rect(59, 10, 61, 40))
	wall(img, image.Rect(59, 43, 61, 70))

	if regions := FindRegions(img, noDilation()); len(regions) != 1 {
		t.Errorf("without dilation got %d regions, want 1 joined room", len(regions))
	}

	opts := DefaultOptions()
	opts.WallDilation = 2
	if regions := FindRegions(img, opts); len(regions) != 2 {
		t.Errorf("with dilation got %d regions, want 2", len(regions))
	}
}

func TestFindRegions_LShapeFill(t *testing.T) {
	img := floorplan(100, 100)
	outline(img, image.Rect(10, 10, 90, 90))
	// Fill the top-right quadrant solid to carve an L.
	wall(img, image.Rect(50, 10, 90, 50))

	regions := FindRegions(img, noDilation())
	if len(regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(regions))
	}
	if f := regions[0].Fill; f <= 0.5 || f >= 0.9 {
		t.Errorf("Fill = %v, want between 0.5 and 0.9 for an L shape", f)
	}
}

func TestFindRegions_OffsetBounds(t *testing.T) {
	base := floorplan(100, 100)
	outline(base, image.Rect(10, 10, 60, 60))
	sub := base.SubImage(image.Rect(5, 5, 95, 95))

	regions := FindRegions(sub, noDilation())
	if len(regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(regions))
	}
	if want := image.Rect(12, 12, 58, 58); regions[0].Bounds != want {
		t.Errorf("Bounds = %v, want %v", regions[0].Bounds, want)
	}
	if regions[0].Mask.Bounds() != sub.Bounds() {
		t.Errorf("mask bounds = %v, want %v", regions[0].Mask.Bounds(), sub.Bounds())
	}
	if regions[0].Mask.AlphaAt(30, 30).A != 255 {
		t.Error("mask not set at room interior in source coordinates")
	}
}

func TestFindRegions_Empty(t *testing.T) {
	if regions := FindRegions(image.NewRGBA(image.Rect(0, 0, 0, 0)), Options{}); regions != nil {
		t.Errorf("got %v, want nil", regions)
	}
}

func TestDilate(t *testing.T) {
	w, h := 7, 7
	walls := make([]bool, w*h)
	walls[3*w+3] = true

	out := dilate(walls, w, h, 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := x >= 2 && x <= 4 && y >= 2 && y <= 4
			if out[y*w+x] != want {
				t.Errorf("(%d,%d) = %v, want %v", x, y, out[y*w+x], want)
			}
		}
	}
}

func TestGrayValue(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want uint8
	}{
		{"white", color.White, 255},
		{"black", color.Black, 0},
		{"red", color.RGBA{255, 0, 0, 255}, 76},
		{"green", color.RGBA{0, 255, 0, 255}, 149},
		{"blue", color.RGBA{0, 0, 255, 255}, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 1, 1))
			img.Set(0, 0, tt.c)
			if got := grayValue(img, 0, 0); got != tt.want {
				t.Errorf("grayValue = %d, want %d", got, tt.want)
			}
		})
	}
}
