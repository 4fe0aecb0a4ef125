package loom

import (
	"github.com/lixenwraith/loom/render"
	"github.com/lixenwraith/loom/terminal"
	"github.com/lixenwraith/loom/textwidth"
)

// Text displays a single line of styled text sized to its display
// width
type Text struct {
	ComponentBase
	Content string
	Style   terminal.Style
}

// NewText creates an unstyled text component
func NewText(content string) Text {
	return Text{Content: content}
}

// Styled returns a copy with the given style
func (t Text) Styled(style terminal.Style) Text {
	t.Style = style
	return t
}

func (t Text) CreateRenderObject() RenderObject {
	return &renderText{content: t.Content, style: t.Style}
}

func (t Text) UpdateRenderObject(ro RenderObject) {
	r := ro.(*renderText)
	r.content = t.Content
	r.style = t.Style
}

type renderText struct {
	RenderBase
	content string
	style   terminal.Style
}

func (r *renderText) PerformLayout(c Constraints) Size {
	w := float64(textwidth.StringWidth(r.content))
	return c.Constrain(Size{W: w, H: 1})
}

func (r *renderText) Paint(canvas *render.Canvas, origin Offset) {
	s := r.content
	if maxW := int(r.size.W); textwidth.StringWidth(s) > maxW {
		s = textwidth.TruncateWidth(s, maxW)
	}
	canvas.DrawText(int(origin.X), int(origin.Y), s, r.style)
}
