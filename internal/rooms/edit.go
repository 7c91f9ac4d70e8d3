package rooms

import "fmt"

// Edit is a partial update to a Detection. Nil fields are left unchanged.
type Edit struct {
	Type       *string   `json:"type,omitempty"`
	Label      *string   `json:"label,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Boundary   *Boundary `json:"boundary,omitempty"`
}

// Empty reports whether the edit changes nothing.
func (e Edit) Empty() bool {
	return e.Type == nil && e.Label == nil && e.Confidence == nil && e.Boundary == nil
}

// Validate rejects boundaries outside the page and negative sizes.
func (e Edit) Validate() error {
	if e.Type != nil && *e.Type == "" {
		return fmt.Errorf("type must not be empty")
	}
	if b := e.Boundary; b != nil {
		if b.X < 0 || b.Y < 0 || b.Width <= 0 || b.Height <= 0 {
			return fmt.Errorf("boundary must have non-negative origin and positive size")
		}
		if b.Right() > 1 || b.Bottom() > 1 {
			return fmt.Errorf("boundary (%.3f,%.3f %.3fx%.3f) extends past the page", b.X, b.Y, b.Width, b.Height)
		}
	}
	return nil
}

// ApplyEdit applies e to d and marks d as manual when anything changed.
//
// A type change recolors the detection using ColorFor with custom.
// Confidence is clamped to [0, 1] and rounded to 2 decimals.
func (d *Detection) ApplyEdit(e Edit, custom []TypeDefinition) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.Empty() {
		return nil
	}

	if e.Type != nil {
		d.Type = *e.Type
		d.Color = ColorFor(d.Type, custom)
	}
	if e.Label != nil {
		d.Label = *e.Label
	}
	if e.Confidence != nil {
		d.Confidence = Round2(Clamp(*e.Confidence, 0, 1))
	}
	if e.Boundary != nil {
		d.Boundary = *e.Boundary
	}
	d.Manual = true
	return nil
}
