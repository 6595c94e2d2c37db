package domain

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	// MinWidth and MaxWidth bound the frame's inner width in cells.
	MinWidth = 24
	MaxWidth = 48
	// MaxLines caps the wrapped card body; overflow text is dropped.
	MaxLines = 10

	// targetHeightRatio shapes the frame toward a near-square aspect.
	targetHeightRatio = 0.20
	maxExtraRows      = 10
)

// ComputeInnerWidth derives the frame's inner width from the card text:
// the longest word plus breathing room, clamped to [MinWidth, MaxWidth].
func ComputeInnerWidth(text string) int {
	longest := 6
	for _, w := range strings.Fields(text) {
		if dw := runewidth.StringWidth(w); dw > longest {
			longest = dw
		}
	}
	width := longest + 8
	if width < MinWidth {
		width = MinWidth
	}
	if width > MaxWidth {
		width = MaxWidth
	}
	return width
}

// WrapText greedily word-wraps text to the given width, never splitting a
// word. A single word wider than the width is kept whole on its own line
// and overflows the frame's interior. Output is capped at MaxLines;
// remaining text is silently dropped.
func WrapText(text string, width int) []string {
	var lines []string
	var current string
	currentWidth := 0

	for _, word := range strings.Fields(text) {
		ww := runewidth.StringWidth(word)
		switch {
		case current == "":
			current = word
			currentWidth = ww
		case currentWidth+1+ww <= width:
			current += " " + word
			currentWidth += 1 + ww
		default:
			lines = append(lines, current)
			current = word
			currentWidth = ww
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) > MaxLines {
		lines = lines[:MaxLines]
	}
	return lines
}

// ComputeSquarePadding returns the blank rows to insert above and below
// the body so the frame approaches a square aspect. The padded height is
// clamped to [lineCount+2, lineCount+maxExtraRows]; the extra rows are
// split floor/ceil between top and bottom.
func ComputeSquarePadding(width, lineCount int) (top, bottom int) {
	target := int(math.Round(float64(width) * targetHeightRatio))
	if target < lineCount+2 {
		target = lineCount + 2
	}
	if target > lineCount+maxExtraRows {
		target = lineCount + maxExtraRows
	}
	extra := target - lineCount
	top = extra / 2
	bottom = extra - top
	return top, bottom
}

// PadCenter centers s within width cells. A string at or beyond the target
// width is truncated to exactly that width rather than wrapped.
func PadCenter(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	left := (width - w) / 2
	right := width - w - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// BuildFrame assembles the bordered card block: top border, centered
// ornament header, one blank interior row, padTop blank rows, the content
// lines centered (or truncated) to width, padBottom blank rows, one blank
// interior row, the reversed-ornament footer, bottom border. Every
// interior row is wrapped by the vertical glyph with a one-space margin,
// so all rows span the same number of cells.
func BuildFrame(lines []string, style Style, width, padTop, padBottom int) string {
	blank := strings.Repeat(" ", width)
	head := PadCenter(style.Ornament, width)
	foot := PadCenter(reverseString(style.Ornament), width)

	interior := func(s string) string {
		return style.Vertical + " " + s + " " + style.Vertical
	}

	rows := make([]string, 0, len(lines)+padTop+padBottom+6)
	rows = append(rows, style.TopLeft+strings.Repeat(style.Horizontal, width+2)+style.TopRight)
	rows = append(rows, interior(head), interior(blank))
	for i := 0; i < padTop; i++ {
		rows = append(rows, interior(blank))
	}
	for _, ln := range lines {
		rows = append(rows, interior(PadCenter(ln, width)))
	}
	for i := 0; i < padBottom; i++ {
		rows = append(rows, interior(blank))
	}
	rows = append(rows, interior(blank), interior(foot))
	rows = append(rows, style.BottomLeft+strings.Repeat(style.Horizontal, width+2)+style.BottomRight)
	return strings.Join(rows, "\n")
}
