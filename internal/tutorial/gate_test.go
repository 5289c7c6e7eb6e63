package tutorial

import (
	"testing"

	"mathsticks/internal/segments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeenFlagStartsInactive(t *testing.T) {
	g := NewGate(true)
	assert.False(t, g.Active())
	assert.Equal(t, Inactive, g.Step())
	assert.True(t, g.AllowToggle(2, segments.G))
	assert.True(t, g.AllowSubmit())
	assert.True(t, g.AllowReset())
}

func TestFullWalkthrough(t *testing.T) {
	g := NewGate(false)
	require.Equal(t, StepIntro, g.Step())
	assert.False(t, g.AllowToggle(0, segments.E), "intro freezes the board")
	assert.False(t, g.AllowSubmit())

	require.True(t, g.Fire(EventStart))
	require.Equal(t, StepPickUp, g.Step())
	hl, ok := g.Highlight()
	require.True(t, ok)
	assert.Equal(t, Target{Digit: 0, Segment: segments.E}, hl)

	assert.True(t, g.AllowToggle(0, segments.E))
	require.True(t, g.Toggled(0, segments.E))
	require.Equal(t, StepPlace, g.Step())
	hl, ok = g.Highlight()
	require.True(t, ok)
	assert.Equal(t, Target{Digit: 0, Segment: segments.B}, hl)

	require.True(t, g.Toggled(0, segments.B))
	require.Equal(t, StepSubmit, g.Step())
	assert.True(t, g.AllowSubmit())
	assert.False(t, g.AllowToggle(0, segments.B))
	_, ok = g.Highlight()
	assert.False(t, ok)

	require.True(t, g.Fire(EventSubmitted))
	require.Equal(t, StepDone, g.Step())
	assert.False(t, g.AllowSubmit())

	require.True(t, g.Fire(EventFinish))
	assert.Equal(t, Inactive, g.Step())
}

func TestPickUpStepIgnoresOtherSegments(t *testing.T) {
	g := NewGate(false)
	g.Fire(EventStart)
	for seg := 0; seg < segments.Count; seg++ {
		if seg == segments.E {
			continue
		}
		assert.False(t, g.AllowToggle(0, seg), "segment %s", segments.Name(seg))
		assert.False(t, g.Toggled(0, seg))
	}
	assert.Equal(t, StepPickUp, g.Step())
}

func TestPlaceStepIgnoresOtherSegments(t *testing.T) {
	g := NewGate(false)
	g.Fire(EventStart)
	require.True(t, g.Toggled(0, segments.E))
	require.Equal(t, StepPlace, g.Step())
	for seg := 0; seg < segments.Count; seg++ {
		if seg == segments.B {
			continue
		}
		assert.False(t, g.AllowToggle(0, seg), "segment %s", segments.Name(seg))
		assert.False(t, g.Toggled(0, seg))
	}
	assert.False(t, g.AllowToggle(1, segments.B), "only digit 0 takes the stick")
	assert.False(t, g.AllowSubmit())
	assert.False(t, g.AllowReset())
	assert.Equal(t, StepPlace, g.Step())
}

func TestSkipFromAnyStep(t *testing.T) {
	for _, walk := range [][]Event{
		nil,
		{EventStart},
		{EventStart, EventPickedUp},
		{EventStart, EventPickedUp, EventPlaced},
		{EventStart, EventPickedUp, EventPlaced, EventSubmitted},
	} {
		g := NewGate(false)
		for _, e := range walk {
			require.True(t, g.Fire(e))
		}
		assert.True(t, g.Fire(EventSkip))
		assert.Equal(t, Inactive, g.Step())
		assert.False(t, g.Fire(EventSkip))
	}
}

func TestUnknownTransitionsAreIgnored(t *testing.T) {
	g := NewGate(false)
	assert.False(t, g.Fire(EventFinish))
	assert.False(t, g.Fire(EventSubmitted))
	assert.Equal(t, StepIntro, g.Step())
	assert.False(t, g.AllowReset())
	assert.True(t, g.TimerFrozen())
}

func TestDefaultScriptMatchesSteps(t *testing.T) {
	s, err := DefaultScript()
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Math Sticks!", s.Text(StepIntro).Title)
	assert.NotEmpty(t, s.Text(StepDone).Title)
	assert.NotEmpty(t, s.RulesMD)
	assert.Empty(t, s.Text(Inactive).Title)
}

func TestParseScriptRejectsMissingSteps(t *testing.T) {
	_, err := ParseScript([]byte("kind: tutorial\nschema_version: 1\nsteps:\n  - id: 0\n    title: x\n"))
	require.Error(t, err)

	_, err = ParseScript([]byte("kind: level\nschema_version: 1\n"))
	require.Error(t, err)
}
