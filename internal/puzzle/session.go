// Package puzzle holds one round of the matchstick puzzle: the layout the
// round started from, the layout being edited, and the sticks in hand.
package puzzle

import (
	"fmt"

	"mathsticks/internal/moves"
	"mathsticks/internal/segments"
)

type State int

const (
	StateReady State = iota
	StateEditing
)

func (s State) String() string {
	if s == StateEditing {
		return "editing"
	}
	return "ready"
}

type MoveKind int

const (
	PickUp MoveKind = iota
	Place
)

func (k MoveKind) String() string {
	if k == Place {
		return "place"
	}
	return "pick_up"
}

// Move describes an accepted toggle.
type Move struct {
	Digit   int
	Segment int
	Kind    MoveKind
}

// Result is a successful submission.
type Result struct {
	Number int
	Moves  float64
}

// Rules tunes submission checks beyond the fixed budget.
type Rules struct {
	// RequireLarger rejects numbers not above every number already found.
	RequireLarger bool
}

// Session is a single round. It is not safe for concurrent use.
type Session struct {
	target  int
	start   segments.Config
	current segments.Config
	hand    int
	history *History
	rules   Rules
}

// New builds a round seeded by target. history is shared with the run and
// must already contain the run's seed.
func New(target int, history *History, rules Rules) (*Session, error) {
	if history == nil {
		return nil, fmt.Errorf("new round %d: nil history", target)
	}
	start, err := segments.Encode(target)
	if err != nil {
		return nil, fmt.Errorf("new round: %w", err)
	}
	return &Session{
		target:  target,
		start:   start,
		current: segments.Clone(start),
		history: history,
		rules:   rules,
	}, nil
}

func (s *Session) Target() int { return s.target }
func (s *Session) Hand() int   { return s.hand }

// Start returns a copy of the layout the round began with.
func (s *Session) Start() segments.Config { return segments.Clone(s.start) }

// Current returns a copy of the live layout.
func (s *Session) Current() segments.Config { return segments.Clone(s.current) }

// Cost is the live move count against the starting layout.
func (s *Session) Cost() float64 { return moves.Cost(s.start, s.current) }

func (s *Session) State() State {
	if s.hand == 0 && segments.Equal(s.start, s.current) {
		return StateReady
	}
	return StateEditing
}

// Toggle picks up the stick at (digit, segment) or places one from the hand
// there. A toggle that would push the move count over budget is refused and
// leaves the round untouched.
func (s *Session) Toggle(digit, segment int) (Move, error) {
	if digit < 0 || digit >= len(s.current) || segment < 0 || segment >= segments.Count {
		return Move{}, fmt.Errorf("%w: digit %d segment %d", ErrOutOfRange, digit, segment)
	}
	mv := Move{Digit: digit, Segment: segment, Kind: PickUp}
	hand := s.hand + 1
	if !s.current[digit][segment] {
		if s.hand == 0 {
			return Move{}, ErrEmptyHand
		}
		mv.Kind = Place
		hand = s.hand - 1
	}

	next := segments.Clone(s.current)
	next[digit][segment] = !next[digit][segment]
	if cost := moves.Cost(s.start, next); !moves.Within(cost) {
		return Move{}, fmt.Errorf("%w (%.1f)", ErrMoveBudgetExceeded, cost)
	}
	s.current = next
	s.hand = hand
	return mv, nil
}

// Submit validates the live layout. Failures leave the round unchanged.
func (s *Session) Submit() (Result, error) {
	if s.hand != 0 {
		return Result{}, fmt.Errorf("%w (%d in hand)", ErrHandNotEmpty, s.hand)
	}
	n, ok := segments.DecodeNumber(s.current)
	if !ok {
		return Result{}, ErrInvalidNumber
	}
	cost := moves.Cost(s.start, s.current)
	if !moves.Within(cost) {
		return Result{}, fmt.Errorf("%w: used %.0f, max %d", ErrTooManyMoves, cost, moves.Budget)
	}
	if s.history.Contains(n) {
		return Result{}, fmt.Errorf("%w: %d", ErrNumberAlreadySeen, n)
	}
	if s.rules.RequireLarger {
		if best := s.history.Max(); n <= best {
			return Result{}, fmt.Errorf("%w than %d", ErrNotLarger, best)
		}
	}
	s.history.add(n)
	return Result{Number: n, Moves: cost}, nil
}

// Reset restores the starting layout and empties the hand.
func (s *Session) Reset() {
	s.current = segments.Clone(s.start)
	s.hand = 0
}
