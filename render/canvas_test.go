package render

import (
	"testing"

	"github.com/lixenwraith/loom/terminal"
)

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		a, b, want Rect
	}{
		{Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, Rect{5, 5, 5, 5}},
		{Rect{0, 0, 4, 4}, Rect{4, 0, 4, 4}, Rect{}},
		{Rect{0, 0, 10, 10}, Rect{2, 3, 4, 5}, Rect{2, 3, 4, 5}},
		{Rect{0, 0, 0, 5}, Rect{0, 0, 5, 5}, Rect{}},
	}
	for _, tt := range tests {
		if got := tt.a.Intersect(tt.b); got != tt.want {
			t.Errorf("%v.Intersect(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 1, Y: 1, W: 3, H: 2}
	if !r.Contains(1, 1) || !r.Contains(3, 2) {
		t.Error("interior points not contained")
	}
	if r.Contains(4, 1) || r.Contains(1, 3) || r.Contains(0, 0) {
		t.Error("exterior points contained")
	}
}

func TestCanvasDrawText(t *testing.T) {
	buf := NewBuffer(10, 2)
	c := NewCanvas(buf)

	adv := c.DrawText(1, 0, "ab", terminal.Style{})
	if adv != 2 {
		t.Errorf("advance = %d, want 2", adv)
	}
	if cell, _ := buf.GetCell(1, 0); cell.Rune != 'a' {
		t.Errorf("cell (1,0) = %q", cell.Rune)
	}
	if cell, _ := buf.GetCell(2, 0); cell.Rune != 'b' {
		t.Errorf("cell (2,0) = %q", cell.Rune)
	}
}

func TestCanvasDrawTextWide(t *testing.T) {
	buf := NewBuffer(10, 1)
	c := NewCanvas(buf)

	adv := c.DrawText(0, 0, "a世b", terminal.Style{})
	if adv != 4 {
		t.Errorf("advance = %d, want 4", adv)
	}
	if cell, _ := buf.GetCell(1, 0); cell.Rune != '世' {
		t.Errorf("cell (1,0) = %q", cell.Rune)
	}
	if cell, _ := buf.GetCell(2, 0); !cell.IsContinuation() {
		t.Errorf("cell (2,0) not continuation: %+v", cell)
	}
	if cell, _ := buf.GetCell(3, 0); cell.Rune != 'b' {
		t.Errorf("cell (3,0) = %q", cell.Rune)
	}
}

func TestCanvasDrawTextSkipsZeroWidth(t *testing.T) {
	buf := NewBuffer(10, 1)
	c := NewCanvas(buf)

	adv := c.DrawText(0, 0, "a\u0301b", terminal.Style{})
	if adv != 2 {
		t.Errorf("advance = %d, want 2", adv)
	}
	if cell, _ := buf.GetCell(1, 0); cell.Rune != 'b' {
		t.Errorf("cell (1,0) = %q", cell.Rune)
	}
}

func TestCanvasClipsText(t *testing.T) {
	buf := NewBuffer(10, 3)
	c := NewCanvas(buf).Sub(Rect{X: 2, Y: 1, W: 3, H: 1})

	c.DrawText(0, 0, "abcdef", terminal.Style{})

	if cell, _ := buf.GetCell(2, 1); cell.Rune != 'a' {
		t.Errorf("cell (2,1) = %q", cell.Rune)
	}
	if cell, _ := buf.GetCell(4, 1); cell.Rune != 'c' {
		t.Errorf("cell (4,1) = %q", cell.Rune)
	}
	if cell, _ := buf.GetCell(5, 1); cell.Rune != 0 && cell.Rune != ' ' {
		t.Errorf("text escaped clip: %q", cell.Rune)
	}
}

func TestCanvasWideRuneAtClipEdge(t *testing.T) {
	buf := NewBuffer(10, 1)
	c := NewCanvas(buf).Sub(Rect{X: 0, Y: 0, W: 3, H: 1})

	// Second half of the wide rune would cross the clip boundary
	c.SetCell(2, 0, '世', terminal.Style{})
	if cell, _ := buf.GetCell(2, 0); cell.Rune != ' ' {
		t.Errorf("cell (2,0) = %q, want space", cell.Rune)
	}
	if cell, _ := buf.GetCell(3, 0); cell != terminal.EmptyCell() {
		t.Errorf("cell outside clip touched: %+v", cell)
	}
}

func TestCanvasSubClamps(t *testing.T) {
	buf := NewBuffer(10, 10)
	c := NewCanvas(buf)

	sub := c.Sub(Rect{X: -2, Y: -2, W: 5, H: 5})
	if w, h := sub.Size(); w != 3 || h != 3 {
		t.Errorf("negative origin sub = %dx%d, want 3x3", w, h)
	}

	sub = c.Sub(Rect{X: 8, Y: 8, W: 5, H: 5})
	if w, h := sub.Size(); w != 2 || h != 2 {
		t.Errorf("overflowing sub = %dx%d, want 2x2", w, h)
	}

	sub = c.Sub(Rect{X: 20, Y: 0, W: 5, H: 5})
	if w, h := sub.Size(); w != 0 {
		t.Errorf("out-of-range sub = %dx%d, want zero width", w, h)
	}
}

func TestCanvasNestedSub(t *testing.T) {
	buf := NewBuffer(10, 10)
	outer := NewCanvas(buf).Sub(Rect{X: 2, Y: 2, W: 6, H: 6})
	inner := outer.Sub(Rect{X: 1, Y: 1, W: 3, H: 3})

	inner.SetCell(0, 0, 'x', terminal.Style{})
	if cell, _ := buf.GetCell(3, 3); cell.Rune != 'x' {
		t.Errorf("nested write landed at wrong place")
	}
}

func TestCanvasFillClips(t *testing.T) {
	buf := NewBuffer(4, 4)
	c := NewCanvas(buf).Sub(Rect{X: 1, Y: 1, W: 2, H: 2})

	c.Fill(Rect{X: -5, Y: -5, W: 20, H: 20}, '#', terminal.Style{})

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			cell, _ := buf.GetCell(x, y)
			inside := x >= 1 && x < 3 && y >= 1 && y < 3
			if inside && cell.Rune != '#' {
				t.Errorf("cell (%d,%d) = %q, want #", x, y, cell.Rune)
			}
			if !inside && cell.Rune == '#' {
				t.Errorf("fill escaped clip at (%d,%d)", x, y)
			}
		}
	}
}

func TestCanvasDrawBorder(t *testing.T) {
	buf := NewBuffer(5, 4)
	c := NewCanvas(buf)

	c.DrawBorder(Rect{X: 0, Y: 0, W: 5, H: 4}, terminal.Style{}, BorderSingle)

	corners := []struct {
		x, y int
		want rune
	}{
		{0, 0, '┌'}, {4, 0, '┐'}, {0, 3, '└'}, {4, 3, '┘'},
	}
	for _, tt := range corners {
		if cell, _ := buf.GetCell(tt.x, tt.y); cell.Rune != tt.want {
			t.Errorf("corner (%d,%d) = %q, want %q", tt.x, tt.y, cell.Rune, tt.want)
		}
	}
	if cell, _ := buf.GetCell(2, 0); cell.Rune != '─' {
		t.Errorf("top edge = %q", cell.Rune)
	}
	if cell, _ := buf.GetCell(0, 1); cell.Rune != '│' {
		t.Errorf("left edge = %q", cell.Rune)
	}
	if cell, _ := buf.GetCell(2, 1); cell != terminal.EmptyCell() {
		t.Errorf("interior touched: %+v", cell)
	}
}

func TestCanvasDrawBorderTooSmall(t *testing.T) {
	buf := NewBuffer(4, 4)
	c := NewCanvas(buf)
	c.DrawBorder(Rect{X: 0, Y: 0, W: 1, H: 4}, terminal.Style{}, BorderSingle)
	if cell, _ := buf.GetCell(0, 0); cell != terminal.EmptyCell() {
		t.Errorf("degenerate border drew: %+v", cell)
	}
}
