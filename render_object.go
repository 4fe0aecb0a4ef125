package loom

import (
	"fmt"

	"github.com/lixenwraith/loom/render"
)

// LayoutViolation reports a render object that returned a size outside
// its constraints. The size is clamped into range; the violation goes
// to the pipeline's error sink.
type LayoutViolation struct {
	Constraints Constraints
	Size        Size
}

func (v LayoutViolation) Error() string {
	return fmt.Sprintf("layout violation: size %gx%g outside [%g-%g, %g-%g]",
		v.Size.W, v.Size.H, v.Constraints.MinW, v.Constraints.MaxW,
		v.Constraints.MinH, v.Constraints.MaxH)
}

// RenderObject is a node of the layout and paint tree. Implementations
// embed RenderBase and provide sizing in PerformLayout and drawing in
// Paint against a canvas already clipped and translated by the parent.
type RenderObject interface {
	Base() *RenderBase

	// PerformLayout chooses a size within the constraints, laying out
	// children through LayoutChild
	PerformLayout(c Constraints) Size
	// Paint draws the object at the given origin on the canvas
	Paint(canvas *render.Canvas, origin Offset)
}

// RenderBase carries the tree links and layout bookkeeping shared by
// all render objects
type RenderBase struct {
	self     RenderObject
	parent   RenderObject
	children []RenderObject
	pipeline *PipelineOwner
	depth    int

	size        Size
	constraints Constraints
	hasLayout   bool

	// Offset of this object within its parent, set by the parent
	// during layout
	parentOffset Offset
	// Absolute position on the frame buffer, refreshed each paint
	worldOffset Offset

	needsLayout      bool
	relayoutBoundary *RenderBase
}

// Base returns the embedded bookkeeping
func (b *RenderBase) Base() *RenderBase { return b }

// Size returns the size chosen by the last layout
func (b *RenderBase) Size() Size { return b.size }

// Constraints returns the constraints of the last layout
func (b *RenderBase) Constraints() Constraints { return b.constraints }

// Children returns the render children in paint order
func (b *RenderBase) Children() []RenderObject { return b.children }

// ChildCount returns the number of render children
func (b *RenderBase) ChildCount() int { return len(b.children) }

// ChildAt returns the child at index i, or nil when out of range
func (b *RenderBase) ChildAt(i int) RenderObject {
	if i < 0 || i >= len(b.children) {
		return nil
	}
	return b.children[i]
}

// SetChildOffset positions a child within this object. Call during
// PerformLayout after laying the child out.
func (b *RenderBase) SetChildOffset(child RenderObject, off Offset) {
	child.Base().parentOffset = off
}

// ChildOffset returns the offset assigned to a child by its parent
func ChildOffset(child RenderObject) Offset {
	return child.Base().parentOffset
}

// MarkNeedsLayout records that this object's size or placement is
// stale. The request walks up to the nearest relayout boundary, which
// is queued with the pipeline owner; everything between is marked so
// the downward pass revisits it.
func (b *RenderBase) MarkNeedsLayout() {
	if b.needsLayout {
		return
	}
	b.needsLayout = true

	if b.relayoutBoundary != b && b.relayoutBoundary != nil {
		if b.parent != nil {
			b.parent.Base().MarkNeedsLayout()
			return
		}
	}
	if b.pipeline != nil {
		b.pipeline.RequestLayout(b.self)
	}
}

// MarkNeedsPaint schedules a repaint without relayout
func (b *RenderBase) MarkNeedsPaint() {
	if b.pipeline != nil {
		b.pipeline.RequestPaint(b.self)
	}
}

func (b *RenderBase) detach() {
	b.pipeline = nil
	b.parent = nil
	for _, child := range b.children {
		child.Base().detach()
	}
}

// LayoutChild lays out a child with the given constraints and returns
// its size. parentUsesSize declares that this object's own size
// depends on the child's, which keeps the child inside this object's
// relayout boundary.
func (b *RenderBase) LayoutChild(child RenderObject, c Constraints, parentUsesSize bool) Size {
	layout(child, c, parentUsesSize)
	return child.Base().size
}

// Layout performs the root layout pass with tight constraints
func Layout(root RenderObject, c Constraints) {
	layout(root, c, false)
}

func layout(ro RenderObject, c Constraints, parentUsesSize bool) {
	b := ro.Base()

	// A boundary isolates its subtree: when the constraints pin the
	// size or the parent ignores it, relayout below never propagates
	// above this node
	if c.IsTight() || !parentUsesSize || b.parent == nil {
		b.relayoutBoundary = b
	} else {
		b.relayoutBoundary = b.parent.Base().relayoutBoundary
	}

	if !b.needsLayout && b.hasLayout && c == b.constraints {
		return
	}

	b.constraints = c
	size := ro.PerformLayout(c)
	if !c.IsSatisfiedBy(size) {
		if b.pipeline != nil {
			b.pipeline.reportError(LayoutViolation{Constraints: c, Size: size})
		}
		size = c.Constrain(size)
	}
	b.size = size
	b.hasLayout = true
	b.needsLayout = false
}
