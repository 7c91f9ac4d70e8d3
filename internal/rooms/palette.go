package rooms

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// NeutralColor is used for type keys found in neither the base palette nor
// the caller's custom types.
const NeutralColor = "#9CA3AF"

// Base room type keys.
const (
	LivingRoom  = "Living Room"
	Kitchen     = "Kitchen"
	Bedroom     = "Bedroom"
	Bathroom    = "Bathroom"
	Storage     = "Storage"
	Mechanical  = "Mechanical"
	Workspace   = "Workspace"
	Circulation = "Circulation"
)

var baseTypes = []TypeDefinition{
	{Label: LivingRoom, Color: "#F59E0B"},
	{Label: Kitchen, Color: "#EF4444"},
	{Label: Bedroom, Color: "#3B82F6"},
	{Label: Bathroom, Color: "#06B6D4"},
	{Label: Storage, Color: "#8B5CF6"},
	{Label: Mechanical, Color: "#64748B"},
	{Label: Workspace, Color: "#10B981"},
	{Label: Circulation, Color: "#EC4899"},
}

// BaseTypes returns a copy of the fixed palette in its canonical order.
func BaseTypes() []TypeDefinition {
	out := make([]TypeDefinition, len(baseTypes))
	copy(out, baseTypes)
	return out
}

// AllTypes returns the base palette followed by custom, in order. Duplicates
// are kept; the mock detector indexes into this list, so its order matters.
func AllTypes(custom []TypeDefinition) []TypeDefinition {
	out := make([]TypeDefinition, 0, len(baseTypes)+len(custom))
	out = append(out, baseTypes...)
	return append(out, custom...)
}

// DedupeTypes drops later entries whose label repeats an earlier one and
// entries with an empty label.
func DedupeTypes(types []TypeDefinition) []TypeDefinition {
	seen := make(map[string]bool, len(types))
	out := make([]TypeDefinition, 0, len(types))
	for _, t := range types {
		if t.Label == "" || seen[t.Label] {
			continue
		}
		seen[t.Label] = true
		out = append(out, t)
	}
	return out
}

// IsBaseType reports whether key names one of the eight base types.
func IsBaseType(key string) bool {
	for _, t := range baseTypes {
		if t.Label == key {
			return true
		}
	}
	return false
}

// ColorFor returns the display color for a type key.
//
// The base palette is consulted first, then custom (exact label match).
// Unknown keys get NeutralColor.
func ColorFor(key string, custom []TypeDefinition) string {
	for _, t := range baseTypes {
		if t.Label == key {
			return t.Color
		}
	}
	for _, t := range custom {
		if t.Label == key {
			return t.Color
		}
	}
	return NeutralColor
}

// NormalizeColor parses a hex color ("#RGB" or "#RRGGBB", leading '#'
// optional) and returns it in upper-case "#RRGGBB" form.
func NormalizeColor(s string) (string, error) {
	in := strings.TrimSpace(s)
	hex := "#" + strings.TrimPrefix(in, "#")
	if len(hex) != 4 && len(hex) != 7 {
		return "", fmt.Errorf("invalid color %q: want #RGB or #RRGGBB", in)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", in, err)
	}
	return strings.ToUpper(c.Hex()), nil
}

// ValidateCustomTypes checks that every custom type has a label and returns
// the list with labels trimmed.
//
// Colors are display values supplied by the caller. Hex colors are
// normalized with NormalizeColor; anything else ("gray", "rgb(...)") is kept
// as given, and renderers that cannot parse it draw NeutralColor. An empty
// color becomes NeutralColor.
func ValidateCustomTypes(custom []TypeDefinition) ([]TypeDefinition, error) {
	out := make([]TypeDefinition, 0, len(custom))
	for i, t := range custom {
		label := strings.TrimSpace(t.Label)
		if label == "" {
			return nil, fmt.Errorf("custom room type %d: empty label", i)
		}
		color := strings.TrimSpace(t.Color)
		switch normalized, err := NormalizeColor(color); {
		case color == "":
			color = NeutralColor
		case err == nil:
			color = normalized
		}
		out = append(out, TypeDefinition{Label: label, Color: color})
	}
	return out, nil
}
