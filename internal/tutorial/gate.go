// Package tutorial gates player input while the onboarding walkthrough runs.
package tutorial

import "mathsticks/internal/segments"

// Seed is the number every tutorial round starts from.
const Seed = 6

type Step int

const (
	Inactive Step = -1

	StepIntro Step = iota - 1
	StepPickUp
	StepPlace
	StepSubmit
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepIntro:
		return "intro"
	case StepPickUp:
		return "pick_up"
	case StepPlace:
		return "place"
	case StepSubmit:
		return "submit"
	case StepDone:
		return "done"
	default:
		return "inactive"
	}
}

type Event int

const (
	EventStart Event = iota
	EventPickedUp
	EventPlaced
	EventSubmitted
	EventFinish
	EventSkip
)

// Target addresses one segment on the board.
type Target struct {
	Digit   int
	Segment int
}

type transition struct {
	from  Step
	event Event
}

var transitions = map[transition]Step{
	{StepIntro, EventStart}:      StepPickUp,
	{StepPickUp, EventPickedUp}:  StepPlace,
	{StepPlace, EventPlaced}:     StepSubmit,
	{StepSubmit, EventSubmitted}: StepDone,
	{StepDone, EventFinish}:      Inactive,
}

// The walkthrough turns 6 into 9 by moving the lower-left stick to the upper right.
var (
	mandatedPickUp = Target{Digit: 0, Segment: segments.E}
	mandatedPlace  = Target{Digit: 0, Segment: segments.B}
)

// Gate is the tutorial state machine.
type Gate struct {
	step Step
}

// NewGate returns a gate at the intro step, or inactive when seen is set.
func NewGate(seen bool) *Gate {
	if seen {
		return &Gate{step: Inactive}
	}
	return &Gate{step: StepIntro}
}

func (g *Gate) Step() Step   { return g.step }
func (g *Gate) Active() bool { return g.step != Inactive }

// Restart puts the gate back at the intro step.
func (g *Gate) Restart() { g.step = StepIntro }

// Fire applies e and reports whether the step changed. Skip is accepted from
// any active step; anything not in the table is ignored.
func (g *Gate) Fire(e Event) bool {
	if e == EventSkip {
		if g.step == Inactive {
			return false
		}
		g.step = Inactive
		return true
	}
	next, ok := transitions[transition{g.step, e}]
	if !ok {
		return false
	}
	g.step = next
	return true
}

// AllowToggle reports whether a toggle at (digit, segment) may reach the board.
func (g *Gate) AllowToggle(digit, segment int) bool {
	t := Target{Digit: digit, Segment: segment}
	switch g.step {
	case Inactive:
		return true
	case StepPickUp:
		return t == mandatedPickUp
	case StepPlace:
		return t == mandatedPlace
	default:
		return false
	}
}

// Toggled advances the gate after the board accepted a toggle at t.
func (g *Gate) Toggled(digit, segment int) bool {
	t := Target{Digit: digit, Segment: segment}
	switch {
	case g.step == StepPickUp && t == mandatedPickUp:
		return g.Fire(EventPickedUp)
	case g.step == StepPlace && t == mandatedPlace:
		return g.Fire(EventPlaced)
	}
	return false
}

func (g *Gate) AllowSubmit() bool { return g.step == Inactive || g.step == StepSubmit }
func (g *Gate) AllowReset() bool  { return g.step == Inactive }

// TimerFrozen reports whether the countdown must hold.
func (g *Gate) TimerFrozen() bool { return g.Active() }

// Highlight names the segment the player should touch next.
func (g *Gate) Highlight() (Target, bool) {
	switch g.step {
	case StepPickUp:
		return mandatedPickUp, true
	case StepPlace:
		return mandatedPlace, true
	}
	return Target{}, false
}
