package devtools

import "context"

type Demo interface {
	Resolve(name string) Scenario
	Names() []string
	SetState(ctx context.Context, cacheDir string, state any) error
}

// Action is one scripted player input.
type Action int

const (
	ActStart Action = iota
	ActToggle
	ActSubmit
	ActSettle
	ActTick
	ActEnd
	ActTutorialStart
	ActTutorialSkip
	ActReplayTutorial
)

type Step struct {
	Action  Action
	Digit   int
	Segment int
	// Repeat applies to ActTick.
	Repeat int
}

// Scenario drives a fresh controller to a screen worth looking at.
type Scenario struct {
	Name  string
	Seed  int
	Steps []Step
}
