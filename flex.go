package loom

import (
	"math"

	"github.com/lixenwraith/loom/render"
)

// Axis selects the main direction of a flex layout
type Axis uint8

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

// MainAxisAlignment distributes free space along the main axis
type MainAxisAlignment uint8

const (
	MainStart MainAxisAlignment = iota
	MainCenter
	MainEnd
	MainSpaceBetween
	MainSpaceAround
	MainSpaceEvenly
)

// CrossAxisAlignment positions children across the main axis
type CrossAxisAlignment uint8

const (
	CrossStart CrossAxisAlignment = iota
	CrossCenter
	CrossEnd
	CrossStretch
)

// Row lays out its children left to right
type Row struct {
	ComponentBase
	Items          []Component
	MainAlignment  MainAxisAlignment
	CrossAlignment CrossAxisAlignment
	// Gap is extra spacing between adjacent children in cells
	Gap float64
}

func (r Row) Children() []Component { return r.Items }

func (r Row) CreateRenderObject() RenderObject {
	return &renderFlex{axis: AxisHorizontal, main: r.MainAlignment, cross: r.CrossAlignment, gap: r.Gap}
}

func (r Row) UpdateRenderObject(ro RenderObject) {
	f := ro.(*renderFlex)
	f.axis = AxisHorizontal
	f.main = r.MainAlignment
	f.cross = r.CrossAlignment
	f.gap = r.Gap
}

// Column lays out its children top to bottom
type Column struct {
	ComponentBase
	Items          []Component
	MainAlignment  MainAxisAlignment
	CrossAlignment CrossAxisAlignment
	Gap            float64
}

func (c Column) Children() []Component { return c.Items }

func (c Column) CreateRenderObject() RenderObject {
	return &renderFlex{axis: AxisVertical, main: c.MainAlignment, cross: c.CrossAlignment, gap: c.Gap}
}

func (c Column) UpdateRenderObject(ro RenderObject) {
	f := ro.(*renderFlex)
	f.axis = AxisVertical
	f.main = c.MainAlignment
	f.cross = c.CrossAlignment
	f.gap = c.Gap
}

type renderFlex struct {
	RenderBase
	axis  Axis
	main  MainAxisAlignment
	cross CrossAxisAlignment
	gap   float64
}

func (f *renderFlex) mainOf(s Size) float64 {
	if f.axis == AxisHorizontal {
		return s.W
	}
	return s.H
}

func (f *renderFlex) crossOf(s Size) float64 {
	if f.axis == AxisHorizontal {
		return s.H
	}
	return s.W
}

func (f *renderFlex) PerformLayout(c Constraints) Size {
	children := f.Children()
	if len(children) == 0 {
		return c.Constrain(Size{})
	}

	childC := f.childConstraints(c)

	var mainUsed, crossMax float64
	for _, child := range children {
		sz := f.LayoutChild(child, childC, true)
		mainUsed += f.mainOf(sz)
		crossMax = math.Max(crossMax, f.crossOf(sz))
	}
	mainUsed += f.gap * float64(len(children)-1)

	var size Size
	if f.axis == AxisHorizontal {
		size = c.Constrain(Size{W: mainUsed, H: crossMax})
	} else {
		size = c.Constrain(Size{W: crossMax, H: mainUsed})
	}

	f.place(children, size, mainUsed)
	return size
}

// childConstraints loosens the main axis and, under CrossStretch,
// tightens the cross axis to the incoming maximum
func (f *renderFlex) childConstraints(c Constraints) Constraints {
	out := c.Loosen()
	if f.axis == AxisHorizontal {
		out.MaxW = Unbounded
		if f.cross == CrossStretch && c.IsBoundedH() {
			out.MinH = c.MaxH
			out.MaxH = c.MaxH
		}
	} else {
		out.MaxH = Unbounded
		if f.cross == CrossStretch && c.IsBoundedW() {
			out.MinW = c.MaxW
			out.MaxW = c.MaxW
		}
	}
	return out
}

// place assigns child offsets from the alignment rules. Fractional
// centering positions floor toward the leading edge.
func (f *renderFlex) place(children []RenderObject, size Size, mainUsed float64) {
	mainExtent := f.mainOf(size)
	crossExtent := f.crossOf(size)
	free := math.Max(0, mainExtent-mainUsed)

	var lead, between float64
	n := float64(len(children))
	switch f.main {
	case MainStart:
	case MainCenter:
		lead = math.Floor(free / 2)
	case MainEnd:
		lead = free
	case MainSpaceBetween:
		if n > 1 {
			between = free / (n - 1)
		}
	case MainSpaceAround:
		between = free / n
		lead = between / 2
	case MainSpaceEvenly:
		between = free / (n + 1)
		lead = between
	}

	pos := lead
	for _, child := range children {
		sz := child.Base().Size()

		var crossPos float64
		switch f.cross {
		case CrossStart, CrossStretch:
		case CrossCenter:
			crossPos = math.Floor((crossExtent - f.crossOf(sz)) / 2)
		case CrossEnd:
			crossPos = crossExtent - f.crossOf(sz)
		}

		if f.axis == AxisHorizontal {
			f.SetChildOffset(child, Offset{X: math.Floor(pos), Y: crossPos})
		} else {
			f.SetChildOffset(child, Offset{X: crossPos, Y: math.Floor(pos)})
		}
		pos += f.mainOf(sz) + f.gap + between
	}
}

func (f *renderFlex) Paint(canvas *render.Canvas, origin Offset) {
	for _, child := range f.Base().children {
		PaintChild(canvas, child, origin)
	}
}
