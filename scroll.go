package loom

import (
	"math"

	"github.com/lixenwraith/loom/render"
)

// ScrollView shows a vertically scrollable viewport over content
// taller than itself. Wheel events over the viewport move it; the
// offset clamps to the content extent.
type ScrollView struct {
	ComponentBase
	Content Component
}

func (s ScrollView) CreateState() State {
	return &scrollState{}
}

type scrollState struct {
	StateBase
	offset float64
}

func (s *scrollState) Build(ctx BuildContext) Component {
	comp := s.element().Component().(ScrollView)
	return viewport{
		offset:  s.offset,
		content: comp.Content,
		onScroll: func(next float64) {
			s.SetState(func() { s.offset = next })
		},
	}
}

// viewport is the render component behind ScrollView
type viewport struct {
	ComponentBase
	offset   float64
	content  Component
	onScroll func(next float64)
}

func (v viewport) Child() Component { return v.content }

func (v viewport) CreateRenderObject() RenderObject {
	return &renderViewport{offset: v.offset, onScroll: v.onScroll}
}

func (v viewport) UpdateRenderObject(ro RenderObject) {
	r := ro.(*renderViewport)
	r.offset = v.offset
	r.onScroll = v.onScroll
}

type renderViewport struct {
	RenderBase
	offset      float64
	childExtent float64
	onScroll    func(next float64)
}

func (r *renderViewport) maxScroll() float64 {
	return math.Max(0, r.childExtent-r.size.H)
}

func (r *renderViewport) PerformLayout(c Constraints) Size {
	size := c.Constrain(Size{W: c.MaxW, H: c.MaxH})

	child := r.ChildAt(0)
	if child == nil {
		r.childExtent = 0
		return size
	}

	childC := Constraints{
		MinW: 0, MaxW: size.W,
		MinH: 0, MaxH: Unbounded,
	}
	sz := r.LayoutChild(child, childC, true)
	r.childExtent = sz.H

	// Content may have shrunk below the current offset
	r.offset = math.Min(r.offset, r.maxScroll())
	r.SetChildOffset(child, Offset{Y: -r.offset})
	return size
}

func (r *renderViewport) Paint(canvas *render.Canvas, origin Offset) {
	child := r.ChildAt(0)
	if child == nil {
		return
	}
	sub := canvas.Sub(render.Rect{
		X: int(origin.X), Y: int(origin.Y),
		W: int(r.size.W), H: int(r.size.H),
	})
	PaintChild(sub, child, Offset{})
}

func (r *renderViewport) HandleScroll(delta int) bool {
	next := clampF(r.offset+float64(delta), 0, r.maxScroll())
	if next == r.offset {
		return false
	}
	r.offset = next
	if r.onScroll != nil {
		r.onScroll(next)
	}
	return true
}
