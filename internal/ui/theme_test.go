package ui

import "testing"

func TestUnknownVariantFallsBackToArcade(t *testing.T) {
	got := ThemeForVariant("nope").Stick.GetForeground()
	want := ThemeForVariant("modern_arcade").Stick.GetForeground()
	if got != want {
		t.Fatalf("expected arcade stick color, got %v want %v", got, want)
	}
	if ThemeForVariant("retro_terminal").Stick.GetForeground() == want {
		t.Fatalf("variants should not share a stick color")
	}
}

func TestTargetStandsOutFromSticks(t *testing.T) {
	for _, v := range []string{"modern_arcade", "cozy_clean", "retro_terminal"} {
		th := ThemeForVariant(v)
		if !th.Target.GetUnderline() {
			t.Fatalf("%s: target slot should be underlined", v)
		}
		if th.Target.GetForeground() == th.Stick.GetForeground() || th.Ghost.GetForeground() == th.Stick.GetForeground() {
			t.Fatalf("%s: stick, ghost and target need distinct colors", v)
		}
	}
}
