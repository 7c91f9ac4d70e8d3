package rooms

import (
	"fmt"
	"math"
	"strings"
)

// TypeDefinition is a named room type with its display color.
//
// Label doubles as the type key referenced by Detection.Type.
type TypeDefinition struct {
	Label string `json:"label" yaml:"label"` // Type key and display name
	Color string `json:"color" yaml:"color"` // Hex color "#RRGGBB"
}

// Boundary is an axis-aligned box expressed as fractions of the page size.
//
// All fields are nominally in [0, 1]. X+Width and Y+Height are expected to
// stay at or below 1 but are not checked; see the mask package for the one
// case where they may slightly exceed it.
type Boundary struct {
	X      float64 `json:"x"`      // Left edge as a fraction of page width
	Y      float64 `json:"y"`      // Top edge as a fraction of page height
	Width  float64 `json:"width"`  // Horizontal extent as a fraction of page width
	Height float64 `json:"height"` // Vertical extent as a fraction of page height
}

// Right returns X+Width.
func (b Boundary) Right() float64 { return b.X + b.Width }

// Bottom returns Y+Height.
func (b Boundary) Bottom() float64 { return b.Y + b.Height }

// Detection is a single detected (or user-drawn) room on a page.
type Detection struct {
	// ID is unique within a page's room list.
	ID string `json:"id"`

	// Label is the display text shown next to the room outline.
	Label string `json:"label"`

	// Type is the room type key. It usually names a TypeDefinition but may
	// be an ad-hoc key produced from an unrecognized model label.
	Type string `json:"type"`

	// Confidence is the detector's score in [0, 1], rounded to 2 decimals.
	Confidence float64 `json:"confidence"`

	// Boundary locates the room on the page.
	Boundary Boundary `json:"boundary"`

	// Color is the outline and fill color, "#RRGGBB".
	Color string `json:"color"`

	// Manual is set once a user edits the detection.
	Manual bool `json:"manual"`
}

// ConstructionType classifies a floorplan. It only biases the mock
// detector's type and confidence distribution.
type ConstructionType string

const (
	Residential ConstructionType = "residential"
	Commercial  ConstructionType = "commercial"
)

// Valid reports whether c is one of the known construction types.
func (c ConstructionType) Valid() bool {
	return c == Residential || c == Commercial
}

// ParseConstructionType parses a classification string, ignoring case and
// surrounding whitespace.
func ParseConstructionType(s string) (ConstructionType, error) {
	c := ConstructionType(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown classification %q: want %q or %q", s, Residential, Commercial)
	}
	return c, nil
}

// Round2 rounds a non-negative value to 2 decimal places, with halves
// rounded up.
func Round2(v float64) float64 {
	return math.Floor(float64(v*100)+0.5) / 100
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
