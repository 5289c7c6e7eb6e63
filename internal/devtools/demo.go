// Package devtools scripts the game into fixed states for screenshots and
// manual checks. Only used with --dev.
package devtools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"mathsticks/internal/game"
	"mathsticks/internal/segments"
)

type Manager struct{}

func NewManager() *Manager { return &Manager{} }

// sixToNine moves the lower-left stick of a lone 6 to the upper right.
var sixToNine = []Step{
	{Action: ActToggle, Digit: 0, Segment: segments.E},
	{Action: ActToggle, Digit: 0, Segment: segments.B},
	{Action: ActSubmit},
	{Action: ActSettle},
}

var scenarios = map[string]Scenario{
	"tutorial_intro": {
		Name:  "tutorial_intro",
		Steps: []Step{{Action: ActReplayTutorial}},
	},
	"tutorial_place": {
		Name: "tutorial_place",
		Steps: []Step{
			{Action: ActReplayTutorial},
			{Action: ActTutorialStart},
			{Action: ActToggle, Digit: 0, Segment: segments.E},
		},
	},
	"tutorial_done": {
		Name: "tutorial_done",
		Steps: append([]Step{
			{Action: ActReplayTutorial},
			{Action: ActTutorialStart},
		}, sixToNine...),
	},
	"playing": {
		Name:  "playing",
		Seed:  808,
		Steps: []Step{{Action: ActStart}},
	},
	"holding": {
		Name: "holding",
		Seed: 808,
		Steps: []Step{
			{Action: ActStart},
			{Action: ActToggle, Digit: 0, Segment: segments.G},
		},
	},
	"game_over": {
		Name: "game_over",
		Seed: 123,
		Steps: []Step{
			{Action: ActStart},
			{Action: ActTick, Repeat: game.RoundSeconds},
		},
	},
	"new_high_score": {
		Name: "new_high_score",
		Seed: 6,
		Steps: append(append([]Step{{Action: ActStart}}, sixToNine...),
			Step{Action: ActEnd}),
	},
}

// Resolve returns the named scenario, or "playing" for unknown names.
func (m *Manager) Resolve(name string) Scenario {
	if sc, ok := scenarios[name]; ok {
		return sc
	}
	return scenarios["playing"]
}

func (m *Manager) Names() []string {
	out := make([]string, 0, len(scenarios))
	for name := range scenarios {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SetState drops a JSON copy of state into cacheDir for external tooling.
func (m *Manager) SetState(ctx context.Context, cacheDir string, state any) error {
	_ = ctx
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		cacheDir = filepath.Join(home, ".cache", "mathsticks")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cacheDir, "dev_state.json"), b, 0o644)
}
