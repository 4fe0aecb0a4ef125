package loom

import (
	"math"

	"github.com/lixenwraith/loom/render"
	"github.com/lixenwraith/loom/terminal"
)

// SizedBox forces a fixed size on its child, or occupies the size
// itself when childless. A zero dimension passes the incoming
// constraint through on that axis.
type SizedBox struct {
	ComponentBase
	Width, Height float64
	Content       Component
}

func (s SizedBox) Child() Component { return s.Content }

func (s SizedBox) CreateRenderObject() RenderObject {
	return &renderSizedBox{width: s.Width, height: s.Height}
}

func (s SizedBox) UpdateRenderObject(ro RenderObject) {
	r := ro.(*renderSizedBox)
	r.width = s.Width
	r.height = s.Height
}

type renderSizedBox struct {
	RenderBase
	width, height float64
}

func (r *renderSizedBox) PerformLayout(c Constraints) Size {
	inner := c
	if r.width > 0 {
		w := c.ConstrainW(r.width)
		inner.MinW, inner.MaxW = w, w
	}
	if r.height > 0 {
		h := c.ConstrainH(r.height)
		inner.MinH, inner.MaxH = h, h
	}

	if child := r.ChildAt(0); child != nil {
		sz := r.LayoutChild(child, inner, true)
		r.SetChildOffset(child, Offset{})
		return c.Constrain(sz)
	}
	return c.Constrain(Size{W: inner.MinW, H: inner.MinH})
}

func (r *renderSizedBox) Paint(canvas *render.Canvas, origin Offset) {
	if child := r.ChildAt(0); child != nil {
		PaintChild(canvas, child, origin)
	}
}

// Padding insets its child by the given edge amounts
type Padding struct {
	ComponentBase
	Insets  EdgeInsets
	Content Component
}

func (p Padding) Child() Component { return p.Content }

func (p Padding) CreateRenderObject() RenderObject {
	return &renderPadding{insets: p.Insets}
}

func (p Padding) UpdateRenderObject(ro RenderObject) {
	ro.(*renderPadding).insets = p.Insets
}

type renderPadding struct {
	RenderBase
	insets EdgeInsets
}

func (r *renderPadding) PerformLayout(c Constraints) Size {
	h := r.insets.Horizontal()
	v := r.insets.Vertical()

	child := r.ChildAt(0)
	if child == nil {
		return c.Constrain(Size{W: h, H: v})
	}

	sz := r.LayoutChild(child, c.Deflate(h, v), true)
	r.SetChildOffset(child, Offset{X: r.insets.Left, Y: r.insets.Top})
	return c.Constrain(Size{W: sz.W + h, H: sz.H + v})
}

func (r *renderPadding) Paint(canvas *render.Canvas, origin Offset) {
	if child := r.ChildAt(0); child != nil {
		PaintChild(canvas, child, origin)
	}
}

// Center expands to fill its constraints and centers the child, with
// fractional positions floored toward the top left
type Center struct {
	ComponentBase
	Content Component
}

func (c Center) Child() Component { return c.Content }

func (c Center) CreateRenderObject() RenderObject {
	return &renderCenter{}
}

func (c Center) UpdateRenderObject(ro RenderObject) {}

type renderCenter struct {
	RenderBase
}

func (r *renderCenter) PerformLayout(c Constraints) Size {
	size := Size{W: c.MaxW, H: c.MaxH}
	if !c.IsBoundedW() {
		size.W = c.MinW
	}
	if !c.IsBoundedH() {
		size.H = c.MinH
	}

	child := r.ChildAt(0)
	if child == nil {
		return c.Constrain(size)
	}

	sz := r.LayoutChild(child, c.Loosen(), true)
	if !c.IsBoundedW() {
		size.W = math.Max(size.W, sz.W)
	}
	if !c.IsBoundedH() {
		size.H = math.Max(size.H, sz.H)
	}
	size = c.Constrain(size)

	r.SetChildOffset(child, Offset{
		X: math.Floor((size.W - sz.W) / 2),
		Y: math.Floor((size.H - sz.H) / 2),
	})
	return size
}

func (r *renderCenter) Paint(canvas *render.Canvas, origin Offset) {
	if child := r.ChildAt(0); child != nil {
		PaintChild(canvas, child, origin)
	}
}

// DecoratedBox paints a background fill and an optional border behind
// its child. With a border the child is inset one cell on every side.
type DecoratedBox struct {
	ComponentBase
	Background  terminal.Style
	Border      bool
	BorderStyle render.BorderStyle
	BorderColor terminal.Style
	Content     Component
}

func (d DecoratedBox) Child() Component { return d.Content }

func (d DecoratedBox) CreateRenderObject() RenderObject {
	return &renderDecoratedBox{
		background:  d.Background,
		border:      d.Border,
		borderStyle: d.BorderStyle,
		borderColor: d.BorderColor,
	}
}

func (d DecoratedBox) UpdateRenderObject(ro RenderObject) {
	r := ro.(*renderDecoratedBox)
	r.background = d.Background
	r.border = d.Border
	r.borderStyle = d.BorderStyle
	r.borderColor = d.BorderColor
}

type renderDecoratedBox struct {
	RenderBase
	background  terminal.Style
	border      bool
	borderStyle render.BorderStyle
	borderColor terminal.Style
}

func (r *renderDecoratedBox) inset() float64 {
	if r.border {
		return 1
	}
	return 0
}

func (r *renderDecoratedBox) PerformLayout(c Constraints) Size {
	in := r.inset()

	child := r.ChildAt(0)
	if child == nil {
		return c.Constrain(Size{W: 2 * in, H: 2 * in})
	}

	sz := r.LayoutChild(child, c.Deflate(2*in, 2*in), true)
	r.SetChildOffset(child, Offset{X: in, Y: in})
	return c.Constrain(Size{W: sz.W + 2*in, H: sz.H + 2*in})
}

func (r *renderDecoratedBox) Paint(canvas *render.Canvas, origin Offset) {
	rect := render.Rect{
		X: int(origin.X), Y: int(origin.Y),
		W: int(r.size.W), H: int(r.size.H),
	}
	canvas.DrawRect(rect, r.background)
	if r.border {
		canvas.DrawBorder(rect, r.borderColor, r.borderStyle)
	}
	if child := r.ChildAt(0); child != nil {
		PaintChild(canvas, child, origin)
	}
}

// Container is a convenience wrapper composing size, padding,
// decoration, and centering around a child
type Container struct {
	ComponentBase
	Width, Height float64
	Insets        EdgeInsets
	Background    terminal.Style
	Border        bool
	BorderStyle   render.BorderStyle
	BorderColor   terminal.Style
	CenterChild   bool
	Content       Component
}

func (c Container) Build(ctx BuildContext) Component {
	child := c.Content

	if c.CenterChild && child != nil {
		child = Center{Content: child}
	}
	if c.Insets != (EdgeInsets{}) {
		child = Padding{Insets: c.Insets, Content: child}
	}

	var out Component = DecoratedBox{
		Background:  c.Background,
		Border:      c.Border,
		BorderStyle: c.BorderStyle,
		BorderColor: c.BorderColor,
		Content:     child,
	}

	if c.Width > 0 || c.Height > 0 {
		out = SizedBox{Width: c.Width, Height: c.Height, Content: out}
	}
	return out
}
