package textwidth

import (
	"strings"

	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// graphemeWidth returns the display width of one grapheme cluster as
// the sum of its rune widths
func graphemeWidth(cluster string) int {
	w := 0
	for _, r := range cluster {
		w += RuneWidth(r)
	}
	return w
}

// TruncateWidth shortens s to at most max display cells, appending an
// ellipsis when anything is cut. Grapheme clusters are never split.
func TruncateWidth(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if StringWidth(s) <= max {
		return s
	}
	if max == 1 {
		return ellipsis
	}

	budget := max - 1 // Reserve one cell for the ellipsis
	var b strings.Builder
	used := 0

	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		w := graphemeWidth(cluster)
		if used+w > budget {
			break
		}
		b.WriteString(cluster)
		used += w
	}

	b.WriteString(ellipsis)
	return b.String()
}

// PadRightWidth pads s with spaces to exactly width cells, truncating
// when it is too long
func PadRightWidth(s string, width int) string {
	w := StringWidth(s)
	if w > width {
		return TruncateWidth(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// PadLeftWidth pads s on the left with spaces to exactly width cells
func PadLeftWidth(s string, width int) string {
	w := StringWidth(s)
	if w > width {
		return TruncateWidth(s, width)
	}
	return strings.Repeat(" ", width-w) + s
}

// CenterWidth centers s within width cells, biasing the extra cell to
// the right
func CenterWidth(s string, width int) string {
	w := StringWidth(s)
	if w >= width {
		return TruncateWidth(s, width)
	}
	left := (width - w) / 2
	right := width - w - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// WrapWidth wraps s into lines of at most width cells, breaking at
// spaces where possible and by grapheme cluster for overlong words. A
// cluster wider than width is replaced by an ellipsis.
func WrapWidth(s string, width int) []string {
	if width <= 0 {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, wrapLine(para, width)...)
	}
	return lines
}

func wrapLine(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur strings.Builder
	curWidth := 0

	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curWidth = 0
	}

	for _, word := range words {
		ww := StringWidth(word)

		if ww > width {
			// Hard-break an overlong word by grapheme
			if curWidth > 0 {
				flush()
			}
			g := uniseg.NewGraphemes(word)
			for g.Next() {
				cluster := g.Str()
				cw := graphemeWidth(cluster)
				if cw > width {
					cluster, cw = ellipsis, 1
				}
				if curWidth+cw > width && curWidth > 0 {
					flush()
				}
				cur.WriteString(cluster)
				curWidth += cw
			}
			continue
		}

		sep := 0
		if curWidth > 0 {
			sep = 1
		}
		if curWidth+sep+ww > width {
			flush()
			sep = 0
		}
		if sep == 1 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(word)
		curWidth += ww
	}

	if curWidth > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}
