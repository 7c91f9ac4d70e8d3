// Package mock fabricates reproducible room detections for a page.
//
// It stands in for the hosted segmentation model when none is configured or
// when a page's model call yields nothing usable. Output depends only on the
// page index, classification and custom type list, so the same page always
// renders the same rooms.
package mock

import (
	"fmt"
	"math"

	"github.com/ironsheep/floorplan-sandbox/internal/rooms"
)

const (
	minRooms      = 3
	roomCountSpan = 6

	maxConfidence  = 0.99
	baseConfidence = 0.65
	confidenceSpan = 0.3

	minWidth   = 0.25
	widthSpan  = 0.45
	minHeight  = 0.20
	heightSpan = 0.40
)

// roomNames are display labels assigned by room position, independent of
// the room's type.
var roomNames = []string{
	"North Zone",
	"South Zone",
	"East Wing",
	"West Wing",
	"Central Core",
	"Annex",
	"Upper Level",
	"Lower Level",
}

// biases scale confidence per room type. Types missing from a table use 1.0.
var biases = map[rooms.ConstructionType]map[string]float64{
	rooms.Residential: {
		rooms.LivingRoom:  1.10,
		rooms.Kitchen:     1.08,
		rooms.Bedroom:     1.06,
		rooms.Bathroom:    1.04,
		rooms.Storage:     0.90,
		rooms.Mechanical:  0.80,
		rooms.Workspace:   0.85,
		rooms.Circulation: 0.92,
	},
	rooms.Commercial: {
		rooms.Workspace:   1.10,
		rooms.Circulation: 1.08,
		rooms.Mechanical:  1.06,
		rooms.Storage:     1.04,
		rooms.LivingRoom:  0.80,
		rooms.Kitchen:     0.90,
		rooms.Bedroom:     0.75,
		rooms.Bathroom:    0.95,
	},
}

func bias(classification rooms.ConstructionType, key string) float64 {
	if b, ok := biases[classification][key]; ok {
		return b
	}
	return 1.0
}

// Analyze returns between 3 and 8 fabricated detections for a page.
//
// The generator is seeded with pageIndex+1. Each room consumes six draws in
// a fixed order: type, confidence, width, height, x, y. Boundaries always lie
// inside the unit square. Intermediate products are rounded explicitly so no
// platform fuses them into FMA instructions.
func Analyze(pageIndex int, classification rooms.ConstructionType, custom []rooms.TypeDefinition) []rooms.Detection {
	rng := NewParkMiller(int64(pageIndex) + 1)
	types := rooms.AllTypes(custom)

	count := int(math.Floor(float64(rng.Float64() * roomCountSpan)))
	if count < minRooms {
		count = minRooms
	}

	detections := make([]rooms.Detection, 0, count)
	for i := 0; i < count; i++ {
		def := types[int(math.Floor(float64(rng.Float64()*float64(len(types)))))]

		raw := float64(float64(baseConfidence+float64(rng.Float64()*confidenceSpan)) * bias(classification, def.Label))
		confidence := rooms.Round2(math.Min(maxConfidence, raw))

		width := minWidth + float64(rng.Float64()*widthSpan)
		height := minHeight + float64(rng.Float64()*heightSpan)
		x := float64(rng.Float64() * float64(1-width))
		y := float64(rng.Float64() * float64(1-height))

		detections = append(detections, rooms.Detection{
			ID:         fmt.Sprintf("page-%d-room-%d", pageIndex, i+1),
			Label:      roomNames[i%len(roomNames)],
			Type:       def.Label,
			Confidence: confidence,
			Boundary: rooms.Boundary{
				X:      x,
				Y:      y,
				Width:  width,
				Height: height,
			},
			Color: def.Color,
		})
	}
	return detections
}
