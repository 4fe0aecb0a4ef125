// Package render provides the cell buffer and clipped drawing canvas
// that sit between the widget layer and the terminal.
package render

import (
	"github.com/lixenwraith/loom/terminal"
	"github.com/lixenwraith/loom/textwidth"
)

// Buffer is a row-major grid of terminal cells. Wide runes occupy two
// cells: the glyph cell followed by a continuation filler that is never
// emitted to the terminal.
type Buffer struct {
	width  int
	height int
	cells  []terminal.Cell
}

// NewBuffer creates a buffer filled with empty cells
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{
		width:  width,
		height: height,
		cells:  make([]terminal.Cell, width*height),
	}
	for i := range b.cells {
		b.cells[i] = terminal.EmptyCell()
	}
	return b
}

// Width returns the buffer width
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height
func (b *Buffer) Height() int {
	return b.height
}

// Cells exposes the backing slice for flushing to a Terminal
func (b *Buffer) Cells() []terminal.Cell {
	return b.cells
}

// SetCell writes a rune with style at (x, y). Out-of-bounds writes are
// dropped. A width-2 rune also claims the cell to its right with a
// continuation filler sharing the style; at the right edge it degrades
// to a plain space so the row cannot overflow.
func (b *Buffer) SetCell(x, y int, r rune, style terminal.Style) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}

	idx := y*b.width + x

	if textwidth.RuneWidth(r) == 2 {
		if x+1 >= b.width {
			b.cells[idx] = terminal.Cell{Rune: ' ', Style: style}
			return
		}
		b.cells[idx] = terminal.Cell{Rune: r, Style: style}
		b.cells[idx+1] = terminal.Continuation(style)
		return
	}

	b.cells[idx] = terminal.Cell{Rune: r, Style: style}
}

// GetCell returns the cell at (x, y) and whether the position is in
// bounds
func (b *Buffer) GetCell(x, y int) (terminal.Cell, bool) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return terminal.Cell{}, false
	}
	return b.cells[y*b.width+x], true
}

// Fill sets every cell to the given rune and style
func (b *Buffer) Fill(r rune, style terminal.Style) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.SetCell(x, y, r, style)
		}
	}
}

// Clear resets the buffer to empty cells
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = terminal.EmptyCell()
	}
}

// Resize changes buffer dimensions, preserving overlapping content
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == b.width && height == b.height {
		return
	}

	cells := make([]terminal.Cell, width*height)
	for i := range cells {
		cells[i] = terminal.EmptyCell()
	}

	copyW := min(width, b.width)
	copyH := min(height, b.height)
	for y := 0; y < copyH; y++ {
		copy(cells[y*width:y*width+copyW], b.cells[y*b.width:y*b.width+copyW])
	}

	// A wide rune split by the new right edge leaves a dangling
	// continuation; degrade it to a space
	if copyW > 0 && copyW < b.width {
		for y := 0; y < copyH; y++ {
			idx := y*width + copyW - 1
			if !cells[idx].IsContinuation() && textwidth.RuneWidth(cells[idx].Rune) == 2 {
				cells[idx] = terminal.Cell{Rune: ' ', Style: cells[idx].Style}
			}
		}
	}

	b.width = width
	b.height = height
	b.cells = cells
}

// Equal reports whether two buffers have identical size and content
func (b *Buffer) Equal(other *Buffer) bool {
	if b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}
