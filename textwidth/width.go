// Package textwidth computes terminal display widths for runes and
// strings. Explicit tables cover the zero-width and wide ranges that
// matter for cell alignment; everything else defers to go-runewidth.
package textwidth

import (
	"github.com/mattn/go-runewidth"
)

type runeRange struct {
	lo, hi rune
}

// Zero-width codepoints: combining marks, joiners, directional marks,
// variation selectors
var zeroWidthRanges = []runeRange{
	{0x0300, 0x036F},   // Combining diacritical marks
	{0x0483, 0x0489},   // Cyrillic combining
	{0x0591, 0x05BD},   // Hebrew points
	{0x1AB0, 0x1AFF},   // Combining diacritical extended
	{0x1DC0, 0x1DFF},   // Combining diacritical supplement
	{0x200B, 0x200F},   // ZWSP, ZWNJ, ZWJ, LRM, RLM
	{0x202A, 0x202E},   // Directional embedding
	{0x2060, 0x2064},   // Word joiner, invisible operators
	{0x20D0, 0x20FF},   // Combining marks for symbols
	{0xFE00, 0xFE0F},   // Variation selectors
	{0xFEFF, 0xFEFF},   // BOM
	{0xE0100, 0xE01EF}, // Variation selectors supplement
}

// Wide codepoints: East Asian Wide/Fullwidth blocks plus emoji
var wideRanges = []runeRange{
	{0x1100, 0x115F}, // Hangul jamo
	{0x2600, 0x27BF}, // Misc symbols, dingbats (emoji presentation)
	{0x2B1B, 0x2B1C}, // Black/white large square
	{0x2B50, 0x2B50}, // Star
	{0x2B55, 0x2B55}, // Heavy large circle
	{0x2E80, 0x303E}, // CJK radicals, punctuation
	{0x3041, 0x33FF}, // Hiragana through CJK compatibility
	{0x3400, 0x4DBF}, // CJK extension A
	{0x4E00, 0x9FFF}, // CJK unified
	{0xA000, 0xA4CF}, // Yi
	{0xAC00, 0xD7A3}, // Hangul syllables
	{0xF900, 0xFAFF}, // CJK compatibility ideographs
	{0xFE30, 0xFE4F}, // CJK compatibility forms
	{0xFF00, 0xFF60}, // Fullwidth forms
	{0xFFE0, 0xFFE6}, // Fullwidth signs
	{0x1F000, 0x1FFFF}, // Mahjong through symbols extended (emoji planes)
}

func inRanges(r rune, ranges []runeRange) bool {
	lo, hi := 0, len(ranges)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if r < ranges[mid].lo {
			hi = mid - 1
		} else if r > ranges[mid].hi {
			lo = mid + 1
		} else {
			return true
		}
	}
	return false
}

// RuneWidth returns the display width of a rune in terminal cells:
// 0 for combining and invisible codepoints, 2 for East Asian wide and
// emoji, 1 otherwise. C0 control characters (below U+0020) count as 1;
// the renderer draws them unchanged.
func RuneWidth(r rune) int {
	if r < 0x20 {
		return 1
	}
	if r < 0x7f {
		return 1
	}
	if inRanges(r, zeroWidthRanges) {
		return 0
	}
	if inRanges(r, wideRanges) {
		return 2
	}
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return 0
	}
	if w > 2 {
		return 2
	}
	return w
}

// StringWidth returns the total display width of a string as the sum
// of its rune widths. Joined emoji sequences count each part.
func StringWidth(s string) int {
	total := 0
	for _, r := range s {
		total += RuneWidth(r)
	}
	return total
}
