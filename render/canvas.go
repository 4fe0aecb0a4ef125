package render

import (
	"github.com/lixenwraith/loom/terminal"
	"github.com/lixenwraith/loom/textwidth"
)

// Rect is an integer rectangle in cell coordinates
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle has no area
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the point lies inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersect returns the overlap of two rectangles
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.W, o.X+o.W)
	y2 := min(r.Y+r.H, o.Y+o.H)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// BorderStyle selects a box-drawing character set
type BorderStyle uint8

const (
	BorderSingle BorderStyle = iota
	BorderRounded
	BorderDouble
	BorderHeavy
)

// boxChars holds the glyphs for one border style:
// horizontal, vertical, top-left, top-right, bottom-left, bottom-right
type boxChars struct {
	h, v, tl, tr, bl, br rune
}

var borderSets = [...]boxChars{
	BorderSingle:  {'─', '│', '┌', '┐', '└', '┘'},
	BorderRounded: {'─', '│', '╭', '╮', '╰', '╯'},
	BorderDouble:  {'═', '║', '╔', '╗', '╚', '╝'},
	BorderHeavy:   {'━', '┃', '┏', '┓', '┗', '┛'},
}

// Canvas is a clipped drawing surface over a Buffer. Coordinates are
// local to the canvas origin; everything outside the clip is dropped.
type Canvas struct {
	buf  *Buffer
	clip Rect // In buffer coordinates
}

// NewCanvas creates a canvas covering the whole buffer
func NewCanvas(buf *Buffer) *Canvas {
	return &Canvas{
		buf:  buf,
		clip: Rect{W: buf.Width(), H: buf.Height()},
	}
}

// Size returns the canvas dimensions
func (c *Canvas) Size() (int, int) {
	return c.clip.W, c.clip.H
}

// Sub returns a nested canvas clipped to the given local rectangle
func (c *Canvas) Sub(r Rect) *Canvas {
	// Clamp to this canvas before translating
	if r.X < 0 {
		r.W += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.H += r.Y
		r.Y = 0
	}
	if r.X+r.W > c.clip.W {
		r.W = c.clip.W - r.X
	}
	if r.Y+r.H > c.clip.H {
		r.H = c.clip.H - r.Y
	}
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}

	return &Canvas{
		buf:  c.buf,
		clip: Rect{X: c.clip.X + r.X, Y: c.clip.Y + r.Y, W: r.W, H: r.H},
	}
}

// SetCell writes one rune at local coordinates
func (c *Canvas) SetCell(x, y int, r rune, style terminal.Style) {
	if x < 0 || x >= c.clip.W || y < 0 || y >= c.clip.H {
		return
	}
	// A wide rune whose second half would cross the clip edge degrades
	// to a space
	if textwidth.RuneWidth(r) == 2 && x+1 >= c.clip.W {
		c.buf.SetCell(c.clip.X+x, c.clip.Y+y, ' ', style)
		return
	}
	c.buf.SetCell(c.clip.X+x, c.clip.Y+y, r, style)
}

// DrawText writes a string starting at (x, y), advancing by display
// width. Zero-width codepoints are skipped; the text clips at the
// canvas edge.
func (c *Canvas) DrawText(x, y int, s string, style terminal.Style) int {
	if y < 0 || y >= c.clip.H {
		return 0
	}
	col := x
	for _, r := range s {
		w := textwidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= c.clip.W {
			break
		}
		if col >= 0 {
			c.SetCell(col, y, r, style)
		}
		col += w
	}
	return col - x
}

// Fill sets every cell of the local rectangle
func (c *Canvas) Fill(r Rect, ch rune, style terminal.Style) {
	area := r.Intersect(Rect{W: c.clip.W, H: c.clip.H})
	for y := area.Y; y < area.Y+area.H; y++ {
		for x := area.X; x < area.X+area.W; x++ {
			c.SetCell(x, y, ch, style)
		}
	}
}

// DrawRect fills a rectangle with spaces in the given style
func (c *Canvas) DrawRect(r Rect, style terminal.Style) {
	c.Fill(r, ' ', style)
}

// DrawBorder draws a box outline on the rectangle's edge
func (c *Canvas) DrawBorder(r Rect, style terminal.Style, bs BorderStyle) {
	if r.W < 2 || r.H < 2 {
		return
	}
	chars := borderSets[bs]

	for x := r.X + 1; x < r.X+r.W-1; x++ {
		c.SetCell(x, r.Y, chars.h, style)
		c.SetCell(x, r.Y+r.H-1, chars.h, style)
	}
	for y := r.Y + 1; y < r.Y+r.H-1; y++ {
		c.SetCell(r.X, y, chars.v, style)
		c.SetCell(r.X+r.W-1, y, chars.v, style)
	}

	c.SetCell(r.X, r.Y, chars.tl, style)
	c.SetCell(r.X+r.W-1, r.Y, chars.tr, style)
	c.SetCell(r.X, r.Y+r.H-1, chars.bl, style)
	c.SetCell(r.X+r.W-1, r.Y+r.H-1, chars.br, style)
}
