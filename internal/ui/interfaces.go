package ui

import "mathsticks/internal/segments"

type Controller interface {
	OnToggle(digit, segment int)
	OnSubmit()
	OnReset()
	OnNewGame()
	OnEndRun()
	OnTutorialStart()
	OnTutorialSkip()
	OnTutorialFinish()
	OnReplayTutorial()
	OnOpenStats()
	OnQuit()
}

type View interface {
	Run() error
	Stop()
	SetController(Controller)
	SetBoard(BoardState)
	SetRules(md string)
	SetInfo(title, text string, open bool)
	FlashStatus(msg string)
	RequestDraw()
}

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutCompact
	LayoutTooSmall
)

// Tutorial steps as the view sees them.
const (
	TutorialInactive = -1
	TutorialIntro    = 0
	TutorialPickUp   = 1
	TutorialPlace    = 2
	TutorialSubmit   = 3
	TutorialDone     = 4
)

// BoardState is everything drawn on the play screen.
type BoardState struct {
	Digits       []segments.Pattern
	Target       int
	Hand         int
	Cost         float64
	Budget       int
	Score        int
	Round        int
	TimeLeft     int
	RoundSeconds int
	Over         bool
	NewHighScore bool
	HighScore    int
	HighRounds   int
	History      []int
	Busy         bool
	Strict       bool
	Message      string
	MessageOK    bool
	Tutorial     TutorialState
}

type TutorialState struct {
	Step  int
	Title string
	Body  string
	// Highlight is set when HighlightDigit/HighlightSegment name a segment.
	Highlight        bool
	HighlightDigit   int
	HighlightSegment int
}

func (t TutorialState) Active() bool { return t.Step != TutorialInactive }
