package render

import (
	"testing"

	"github.com/lixenwraith/loom/terminal"
)

func TestNewBufferEmpty(t *testing.T) {
	b := NewBuffer(3, 2)
	if b.Width() != 3 || b.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", b.Width(), b.Height())
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			c, ok := b.GetCell(x, y)
			if !ok {
				t.Fatalf("GetCell(%d,%d) out of bounds", x, y)
			}
			if c != terminal.EmptyCell() {
				t.Errorf("cell (%d,%d) = %+v, want empty", x, y, c)
			}
		}
	}
}

func TestNewBufferNegative(t *testing.T) {
	b := NewBuffer(-1, -5)
	if b.Width() != 0 || b.Height() != 0 {
		t.Errorf("size = %dx%d, want 0x0", b.Width(), b.Height())
	}
}

func TestSetCellNarrow(t *testing.T) {
	b := NewBuffer(4, 2)
	style := terminal.Style{}.Foreground(terminal.Red)
	b.SetCell(1, 0, 'x', style)

	c, _ := b.GetCell(1, 0)
	if c.Rune != 'x' || c.Style != style {
		t.Errorf("cell = %+v", c)
	}
	next, _ := b.GetCell(2, 0)
	if next != terminal.EmptyCell() {
		t.Errorf("neighbor touched: %+v", next)
	}
}

func TestSetCellWideClaimsContinuation(t *testing.T) {
	b := NewBuffer(4, 1)
	style := terminal.Style{}.Foreground(terminal.Cyan)
	b.SetCell(1, 0, '世', style)

	lead, _ := b.GetCell(1, 0)
	if lead.Rune != '世' {
		t.Fatalf("lead = %+v", lead)
	}
	cont, _ := b.GetCell(2, 0)
	if !cont.IsContinuation() {
		t.Fatalf("expected continuation at (2,0), got %+v", cont)
	}
	if cont.Style != style {
		t.Errorf("continuation style = %+v, want %+v", cont.Style, style)
	}
}

func TestSetCellWideAtRightEdge(t *testing.T) {
	b := NewBuffer(4, 1)
	b.SetCell(3, 0, '世', terminal.Style{})

	c, _ := b.GetCell(3, 0)
	if c.Rune != ' ' {
		t.Errorf("edge cell = %q, want space", c.Rune)
	}
}

func TestSetCellOutOfBounds(t *testing.T) {
	b := NewBuffer(2, 2)
	b.SetCell(-1, 0, 'x', terminal.Style{})
	b.SetCell(0, -1, 'x', terminal.Style{})
	b.SetCell(2, 0, 'x', terminal.Style{})
	b.SetCell(0, 2, 'x', terminal.Style{})

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if c, _ := b.GetCell(x, y); c != terminal.EmptyCell() {
				t.Errorf("cell (%d,%d) modified: %+v", x, y, c)
			}
		}
	}
}

func TestBufferClear(t *testing.T) {
	b := NewBuffer(3, 1)
	b.SetCell(0, 0, 'a', terminal.Style{})
	b.Clear()
	if c, _ := b.GetCell(0, 0); c != terminal.EmptyCell() {
		t.Errorf("cell after clear = %+v", c)
	}
}

func TestBufferResizePreservesContent(t *testing.T) {
	b := NewBuffer(4, 3)
	b.SetCell(1, 1, 'x', terminal.Style{})
	b.Resize(6, 5)

	if b.Width() != 6 || b.Height() != 5 {
		t.Fatalf("size = %dx%d", b.Width(), b.Height())
	}
	if c, _ := b.GetCell(1, 1); c.Rune != 'x' {
		t.Errorf("content lost on grow: %+v", c)
	}
	if c, _ := b.GetCell(5, 4); c != terminal.EmptyCell() {
		t.Errorf("new area not empty: %+v", c)
	}
}

func TestBufferResizeCutsWideRune(t *testing.T) {
	b := NewBuffer(4, 1)
	b.SetCell(2, 0, '世', terminal.Style{})
	b.Resize(3, 1)

	// The lead survives but its continuation was cut off
	if c, _ := b.GetCell(2, 0); c.Rune != ' ' {
		t.Errorf("split wide rune = %q, want space", c.Rune)
	}
}

func TestBufferEqual(t *testing.T) {
	a := NewBuffer(3, 2)
	b := NewBuffer(3, 2)
	if !a.Equal(b) {
		t.Error("fresh buffers differ")
	}
	b.SetCell(0, 0, 'x', terminal.Style{})
	if a.Equal(b) {
		t.Error("modified buffer equal")
	}
	c := NewBuffer(2, 3)
	if a.Equal(c) {
		t.Error("different sizes equal")
	}
}
