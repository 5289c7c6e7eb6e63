package ui

// Minimum terminal size for the play screen.
const (
	MinCols = 40
	MinRows = 18
)

func DetermineLayoutMode(cols, rows int) LayoutMode {
	if cols < MinCols || rows < MinRows {
		return LayoutTooSmall
	}
	if cols < 80 || rows < 24 {
		return LayoutCompact
	}
	return LayoutWide
}
