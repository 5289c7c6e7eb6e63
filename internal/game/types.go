package game

import (
	"time"

	"mathsticks/internal/segments"
	"mathsticks/internal/tutorial"
)

const (
	// RoundSeconds is the countdown every round starts with.
	RoundSeconds = 45
	MinSeed      = 100
	MaxSeed      = 999
)

// RunState is the scoreboard of one run.
type RunState struct {
	Score    int  `json:"score"`
	Round    int  `json:"round"`
	TimeLeft int  `json:"time_left"`
	Over     bool `json:"over"`
}

// RoundsCompleted counts successful rounds.
func (r RunState) RoundsCompleted() int {
	if r.Round < 1 {
		return 0
	}
	return r.Round - 1
}

// Outcome is the result of the last player action, for transient feedback.
type Outcome struct {
	Action  string `json:"action"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

type RunSummary struct {
	Score        int
	Rounds       int
	NewHighScore bool
	EndedAt      time.Time
}

// TutorialView is what the view needs to draw the walkthrough.
type TutorialView struct {
	Step      tutorial.Step    `json:"step"`
	Title     string           `json:"title,omitempty"`
	Body      string           `json:"body,omitempty"`
	Highlight *tutorial.Target `json:"highlight,omitempty"`
}

// Snapshot is a read-only copy of everything the view renders.
type Snapshot struct {
	SessionID    string          `json:"session_id"`
	Digits       segments.Config `json:"digits"`
	Target       int             `json:"target"`
	Hand         int             `json:"hand"`
	Cost         float64         `json:"cost"`
	Run          RunState        `json:"run"`
	NewHighScore bool            `json:"new_high_score"`
	HighScore    HighScore       `json:"high_score"`
	History      []int           `json:"history"`
	Busy         bool            `json:"busy"`
	Tutorial     TutorialView    `json:"tutorial"`
	Outcome      Outcome         `json:"outcome"`
	TimerGen     uint64          `json:"timer_gen"`
	BusyGen      uint64          `json:"busy_gen"`
	Strict       bool            `json:"strict"`
}
