package ui

import (
	"strings"

	"mathsticks/internal/segments"

	"charm.land/lipgloss/v2"
)

// Digit cell geometry. Each digit is drawn on a 6x7 grid:
//
//	 aaaa
//	f    b
//	f    b
//	 gggg
//	e    c
//	e    c
//	 dddd
const (
	digitW   = 6
	digitH   = 7
	digitGap = 3
	boardTop = 5
)

func boardWidth(n int) int {
	if n <= 0 {
		return 0
	}
	return n*digitW + (n-1)*digitGap
}

// boardLeft is the column of the first digit for a board of n digits.
func boardLeft(cols, n int) int {
	return max(0, (cols-boardWidth(n))/2)
}

// segmentAtCell maps a cell inside one digit to a segment.
func segmentAtCell(col, row int) (int, bool) {
	if col < 0 || col >= digitW || row < 0 || row >= digitH {
		return -1, false
	}
	inner := col >= 1 && col <= digitW-2
	left := col <= 1
	right := col >= digitW-2
	switch row {
	case 0:
		if inner {
			return segments.A, true
		}
	case 3:
		if inner {
			return segments.G, true
		}
	case 6:
		if inner {
			return segments.D, true
		}
	case 1, 2:
		if left {
			return segments.F, true
		}
		if right {
			return segments.B, true
		}
	case 4, 5:
		if left {
			return segments.E, true
		}
		if right {
			return segments.C, true
		}
	}
	return -1, false
}

// hitTest maps a screen cell to (digit, segment) on a board of n digits.
func hitTest(x, y, cols, n int) (int, int, bool) {
	row := y - boardTop
	if row < 0 || row >= digitH {
		return -1, -1, false
	}
	digit, ok := digitAtColumn(x, cols, n)
	if !ok {
		return -1, -1, false
	}
	col := x - boardLeft(cols, n) - digit*(digitW+digitGap)
	seg, ok := segmentAtCell(col, row)
	if !ok {
		return -1, -1, false
	}
	return digit, seg, true
}

// digitAtColumn maps a screen column to the digit drawn above it.
func digitAtColumn(x, cols, n int) (int, bool) {
	rel := x - boardLeft(cols, n)
	if n <= 0 || rel < 0 {
		return -1, false
	}
	digit := rel / (digitW + digitGap)
	if digit >= n || rel%(digitW+digitGap) >= digitW {
		return -1, false
	}
	return digit, true
}

type glyphs struct {
	hOn, hOff, vOn, vOff string
}

var (
	unicodeGlyphs = glyphs{hOn: "━━━━", hOff: "┄┄┄┄", vOn: "┃", vOff: "┆"}
	asciiGlyphs   = glyphs{hOn: "====", hOff: "....", vOn: "#", vOff: ":"}
)

type boardStyle struct {
	on, off, target lipgloss.Style
	g               glyphs
}

// renderDigit draws one digit as digitH lines of width digitW. hl is the
// segment to call out, or -1.
func renderDigit(p segments.Pattern, hl int, st boardStyle) []string {
	seg := func(i int, on, off string) string {
		glyph := off
		style := st.off
		if p[i] {
			glyph = on
			style = st.on
		}
		if i == hl {
			style = st.target
		}
		return style.Render(glyph)
	}
	h := func(i int) string { return " " + seg(i, st.g.hOn, st.g.hOff) + " " }
	v := func(l, r int) string {
		return seg(l, st.g.vOn, st.g.vOff) + strings.Repeat(" ", digitW-2) + seg(r, st.g.vOn, st.g.vOff)
	}
	return []string{
		h(segments.A),
		v(segments.F, segments.B),
		v(segments.F, segments.B),
		h(segments.G),
		v(segments.E, segments.C),
		v(segments.E, segments.C),
		h(segments.D),
	}
}

// renderBoard lays digits side by side, left padded to center on cols.
func renderBoard(digits []segments.Pattern, hlDigit, hlSeg, cols int, st boardStyle) []string {
	rows := make([]string, digitH)
	pad := strings.Repeat(" ", boardLeft(cols, len(digits)))
	gap := strings.Repeat(" ", digitGap)
	for i := range rows {
		rows[i] = pad
	}
	for d, p := range digits {
		hl := -1
		if d == hlDigit {
			hl = hlSeg
		}
		for i, line := range renderDigit(p, hl, st) {
			if d > 0 {
				rows[i] += gap
			}
			rows[i] += line
		}
	}
	return rows
}

// cursorLine marks the selected digit under the board.
func cursorLine(n, selected, cols int, mark string) string {
	if n == 0 || selected < 0 || selected >= n {
		return ""
	}
	col := boardLeft(cols, n) + selected*(digitW+digitGap) + (digitW-len([]rune(mark)))/2
	return strings.Repeat(" ", max(0, col)) + mark
}
