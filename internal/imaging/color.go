package imaging

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/floorplan-sandbox/internal/rooms"
)

// parseRoomColor converts a room's "#RRGGBB" color to NRGBA with the given
// alpha. Unparseable colors fall back to the neutral room color.
func parseRoomColor(hex string, alpha uint8) color.NRGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(rooms.NeutralColor)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

// badgeTextColor picks black or white text, whichever reads better on bg.
func badgeTextColor(bg color.NRGBA) color.NRGBA {
	c, _ := colorful.MakeColor(color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: 255})
	l, _, _ := c.Lab()
	if l > 0.6 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
}
