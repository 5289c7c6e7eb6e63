package ui

import (
	"strings"
	"testing"

	"mathsticks/internal/segments"

	"charm.land/lipgloss/v2"
)

func plainBoardStyle(g glyphs) boardStyle {
	s := lipgloss.NewStyle()
	return boardStyle{on: s, off: s, target: s, g: g}
}

func TestSegmentAtCellCoversEverySegment(t *testing.T) {
	cases := []struct {
		col, row int
		want     int
	}{
		{2, 0, segments.A},
		{5, 1, segments.B},
		{5, 5, segments.C},
		{3, 6, segments.D},
		{0, 4, segments.E},
		{0, 2, segments.F},
		{1, 3, segments.G},
	}
	for _, tc := range cases {
		got, ok := segmentAtCell(tc.col, tc.row)
		if !ok || got != tc.want {
			t.Fatalf("cell (%d,%d): expected %s, got %d ok=%v", tc.col, tc.row, segments.Name(tc.want), got, ok)
		}
	}
	if _, ok := segmentAtCell(3, 2); ok {
		t.Fatalf("digit interior must not hit a segment")
	}
	if _, ok := segmentAtCell(digitW, 0); ok {
		t.Fatalf("cells past the digit width must not hit")
	}
}

func TestHitTestSkipsGapsAndRows(t *testing.T) {
	left := boardLeft(80, 2)
	if d, s, ok := hitTest(left+2, boardTop, 80, 2); !ok || d != 0 || s != segments.A {
		t.Fatalf("expected digit 0 segment a, got %d %d %v", d, s, ok)
	}
	if _, _, ok := hitTest(left+digitW+1, boardTop+1, 80, 2); ok {
		t.Fatalf("gap between digits must not hit")
	}
	if d, s, ok := hitTest(left+digitW+digitGap, boardTop+5, 80, 2); !ok || d != 1 || s != segments.E {
		t.Fatalf("expected digit 1 segment e, got %d %d %v", d, s, ok)
	}
	if _, _, ok := hitTest(left+2, boardTop-1, 80, 2); ok {
		t.Fatalf("row above board must not hit")
	}
	if _, _, ok := hitTest(left-1, boardTop, 80, 2); ok {
		t.Fatalf("column left of board must not hit")
	}
}

func TestRenderBoardGeometry(t *testing.T) {
	c, err := segments.Encode(18)
	if err != nil {
		t.Fatal(err)
	}
	rows := renderBoard(c, -1, -1, 40, plainBoardStyle(asciiGlyphs))
	if len(rows) != digitH {
		t.Fatalf("expected %d rows, got %d", digitH, len(rows))
	}
	want := boardLeft(40, 2) + boardWidth(2)
	for i, row := range rows {
		if len([]rune(row)) != want {
			t.Fatalf("row %d: expected width %d, got %d (%q)", i, want, len([]rune(row)), row)
		}
	}
	// 1 has no top bar; 8 has all of them.
	top := strings.TrimSpace(rows[0])
	if !strings.HasPrefix(top, "....") || !strings.HasSuffix(top, "====") {
		t.Fatalf("unexpected top row %q", rows[0])
	}
}

func TestRenderDigitMarksActiveSticks(t *testing.T) {
	rows := renderDigit(segments.Digit(7), -1, plainBoardStyle(asciiGlyphs))
	if rows[0] != " ==== " {
		t.Fatalf("expected lit top bar, got %q", rows[0])
	}
	if rows[1] != ":    #" {
		t.Fatalf("expected ghost f and lit b, got %q", rows[1])
	}
	if rows[6] != " .... " {
		t.Fatalf("expected ghost bottom bar, got %q", rows[6])
	}
}

func TestCursorLineCentersMark(t *testing.T) {
	line := cursorLine(2, 1, 40, "^")
	want := boardLeft(40, 2) + digitW + digitGap + (digitW-1)/2
	if strings.Index(line, "^") != want {
		t.Fatalf("expected mark at %d, got %q", want, line)
	}
	if cursorLine(2, 5, 40, "^") != "" {
		t.Fatalf("out of range selection renders nothing")
	}
}

func TestDigitAtColumn(t *testing.T) {
	left := boardLeft(60, 3)
	if d, ok := digitAtColumn(left+digitW+digitGap, 60, 3); !ok || d != 1 {
		t.Fatalf("expected digit 1, got %d ok=%v", d, ok)
	}
	if _, ok := digitAtColumn(left+digitW, 60, 3); ok {
		t.Fatalf("gap column must not map to a digit")
	}
	if _, ok := digitAtColumn(left+boardWidth(3), 60, 3); ok {
		t.Fatalf("column past the board must not map to a digit")
	}
}
