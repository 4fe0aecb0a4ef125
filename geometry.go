package loom

import "math"

// Unbounded marks a constraint axis with no upper limit
const Unbounded = math.MaxFloat64

// Offset is a position in cell coordinates relative to some origin
type Offset struct {
	X, Y float64
}

// Add returns the component-wise sum of two offsets
func (o Offset) Add(other Offset) Offset {
	return Offset{X: o.X + other.X, Y: o.Y + other.Y}
}

// Size is a width and height in cells
type Size struct {
	W, H float64
}

// IsEmpty reports whether the size has no area
func (s Size) IsEmpty() bool {
	return s.W <= 0 || s.H <= 0
}

// Constraints bound the size a render object may choose during layout.
// A render object must return a size within [Min, Max] on both axes.
type Constraints struct {
	MinW, MaxW float64
	MinH, MaxH float64
}

// Tight returns constraints that admit exactly one size
func Tight(s Size) Constraints {
	return Constraints{MinW: s.W, MaxW: s.W, MinH: s.H, MaxH: s.H}
}

// TightFor returns tight constraints for the given dimensions
func TightFor(w, h float64) Constraints {
	return Constraints{MinW: w, MaxW: w, MinH: h, MaxH: h}
}

// Loose returns constraints with a zero minimum and the given maximum
func Loose(s Size) Constraints {
	return Constraints{MaxW: s.W, MaxH: s.H}
}

// IsTight reports whether the constraints admit exactly one size
func (c Constraints) IsTight() bool {
	return c.MinW == c.MaxW && c.MinH == c.MaxH
}

// IsBoundedW reports whether the width axis has a finite maximum
func (c Constraints) IsBoundedW() bool {
	return c.MaxW < Unbounded
}

// IsBoundedH reports whether the height axis has a finite maximum
func (c Constraints) IsBoundedH() bool {
	return c.MaxH < Unbounded
}

// Constrain clamps a size into the constraint bounds
func (c Constraints) Constrain(s Size) Size {
	return Size{
		W: clampF(s.W, c.MinW, c.MaxW),
		H: clampF(s.H, c.MinH, c.MaxH),
	}
}

// ConstrainW clamps a width into the horizontal bounds
func (c Constraints) ConstrainW(w float64) float64 {
	return clampF(w, c.MinW, c.MaxW)
}

// ConstrainH clamps a height into the vertical bounds
func (c Constraints) ConstrainH(h float64) float64 {
	return clampF(h, c.MinH, c.MaxH)
}

// IsSatisfiedBy reports whether the size lies within the bounds
func (c Constraints) IsSatisfiedBy(s Size) bool {
	return s.W >= c.MinW && s.W <= c.MaxW && s.H >= c.MinH && s.H <= c.MaxH
}

// Loosen returns the constraints with minimums dropped to zero
func (c Constraints) Loosen() Constraints {
	return Constraints{MaxW: c.MaxW, MaxH: c.MaxH}
}

// Deflate shrinks the bounds by the given insets, flooring at zero
func (c Constraints) Deflate(horizontal, vertical float64) Constraints {
	out := Constraints{
		MinW: math.Max(0, c.MinW-horizontal),
		MinH: math.Max(0, c.MinH-vertical),
		MaxW: c.MaxW,
		MaxH: c.MaxH,
	}
	if c.IsBoundedW() {
		out.MaxW = math.Max(out.MinW, c.MaxW-horizontal)
	}
	if c.IsBoundedH() {
		out.MaxH = math.Max(out.MinH, c.MaxH-vertical)
	}
	return out
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EdgeInsets is per-side spacing in cells
type EdgeInsets struct {
	Top, Right, Bottom, Left float64
}

// InsetsAll returns uniform insets on all four sides
func InsetsAll(v float64) EdgeInsets {
	return EdgeInsets{Top: v, Right: v, Bottom: v, Left: v}
}

// InsetsSymmetric returns insets mirrored across both axes
func InsetsSymmetric(horizontal, vertical float64) EdgeInsets {
	return EdgeInsets{Top: vertical, Right: horizontal, Bottom: vertical, Left: horizontal}
}

// Horizontal returns the sum of the left and right insets
func (e EdgeInsets) Horizontal() float64 {
	return e.Left + e.Right
}

// Vertical returns the sum of the top and bottom insets
func (e EdgeInsets) Vertical() float64 {
	return e.Top + e.Bottom
}
