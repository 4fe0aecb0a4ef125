package terminal

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrReverse   Attr = 1 << 5
)

// Has returns true if the attribute set contains attr
func (a Attr) Has(attr Attr) bool {
	return a&attr != 0
}

// ColorKind selects how a Color value is interpreted
type ColorKind uint8

const (
	ColorDefault ColorKind = iota // Terminal default fg/bg
	ColorBasic                    // Basic 16-color palette, Index 0-15
	ColorPalette                  // xterm 256-color palette, Index 0-255
	ColorRGB                      // 24-bit true color
)

// Color represents an optional terminal color.
// The zero value is the terminal default.
type Color struct {
	Kind    ColorKind
	R, G, B uint8
	Index   uint8
}

// DefaultColor returns the terminal's default color
func DefaultColor() Color {
	return Color{}
}

// Basic returns one of the 16 basic palette colors
func Basic(index uint8) Color {
	return Color{Kind: ColorBasic, Index: index & 0x0f}
}

// Palette returns one of the 256 palette colors
func Palette(index uint8) Color {
	return Color{Kind: ColorPalette, Index: index}
}

// RGBColor returns a 24-bit true color
func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// Hex returns a 24-bit color from a packed value (e.g. 0xFF5500)
func Hex(v uint32) Color {
	return Color{
		Kind: ColorRGB,
		R:    uint8(v >> 16),
		G:    uint8(v >> 8),
		B:    uint8(v),
	}
}

// Basic color shorthands
var (
	Black   = Basic(0)
	Red     = Basic(1)
	Green   = Basic(2)
	Yellow  = Basic(3)
	Blue    = Basic(4)
	Magenta = Basic(5)
	Cyan    = Basic(6)
	White   = Basic(7)

	BrightBlack   = Basic(8)
	BrightRed     = Basic(9)
	BrightGreen   = Basic(10)
	BrightYellow  = Basic(11)
	BrightBlue    = Basic(12)
	BrightMagenta = Basic(13)
	BrightCyan    = Basic(14)
	BrightWhite   = Basic(15)
)

// IsDefault returns true for the terminal default color
func (c Color) IsDefault() bool {
	return c.Kind == ColorDefault
}

// Style combines foreground, background and attributes.
// The zero value is the terminal default style.
type Style struct {
	Fg    Color
	Bg    Color
	Attrs Attr
}

// DefaultStyle returns the zero style
func DefaultStyle() Style {
	return Style{}
}

// IsDefault reports whether the style needs no SGR sequence
func (s Style) IsDefault() bool {
	return s.Fg.IsDefault() && s.Bg.IsDefault() && s.Attrs == AttrNone
}

// Foreground returns a copy with the foreground set
func (s Style) Foreground(c Color) Style {
	s.Fg = c
	return s
}

// Background returns a copy with the background set
func (s Style) Background(c Color) Style {
	s.Bg = c
	return s
}

// Bold returns a copy with bold enabled
func (s Style) Bold() Style {
	s.Attrs |= AttrBold
	return s
}

// Dim returns a copy with dim enabled
func (s Style) Dim() Style {
	s.Attrs |= AttrDim
	return s
}

// Italic returns a copy with italic enabled
func (s Style) Italic() Style {
	s.Attrs |= AttrItalic
	return s
}

// Underline returns a copy with underline enabled
func (s Style) Underline() Style {
	s.Attrs |= AttrUnderline
	return s
}

// Reverse returns a copy with reverse video enabled
func (s Style) Reverse() Style {
	s.Attrs |= AttrReverse
	return s
}

// ContinuationRune marks the right-hand cell of a double-width glyph.
// Continuation cells carry no glyph and are skipped during emission.
const ContinuationRune = '\u200b'

// Cell represents a single terminal cell
type Cell struct {
	Rune  rune
	Style Style
}

// EmptyCell returns a space cell with default style
func EmptyCell() Cell {
	return Cell{Rune: ' '}
}

// Continuation returns the filler cell written after a wide glyph
func Continuation(style Style) Cell {
	return Cell{Rune: ContinuationRune, Style: style}
}

// IsContinuation reports whether the cell is a wide-glyph filler
func (c Cell) IsContinuation() bool {
	return c.Rune == ContinuationRune
}
