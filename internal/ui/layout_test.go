package ui

import "testing"

func TestDetermineLayoutMode(t *testing.T) {
	if got := DetermineLayoutMode(120, 30); got != LayoutWide {
		t.Fatalf("expected wide, got %v", got)
	}
	if got := DetermineLayoutMode(60, 30); got != LayoutCompact {
		t.Fatalf("expected compact, got %v", got)
	}
	if got := DetermineLayoutMode(100, 20); got != LayoutCompact {
		t.Fatalf("expected compact by height, got %v", got)
	}
	if got := DetermineLayoutMode(39, 30); got != LayoutTooSmall {
		t.Fatalf("expected too-small, got %v", got)
	}
	if got := DetermineLayoutMode(100, 17); got != LayoutTooSmall {
		t.Fatalf("expected too-small by height, got %v", got)
	}
}
