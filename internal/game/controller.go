// Package game runs a whole play session: the countdown, the score, the
// rounds, the tutorial walkthrough and the high score. It is synchronous and
// not safe for concurrent use; callers serialize events.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"mathsticks/internal/moves"
	"mathsticks/internal/puzzle"
	"mathsticks/internal/tutorial"
)

var (
	ErrBusy    = errors.New("still showing the last result")
	ErrRunOver = errors.New("the run is over")

	// ErrTutorialBlocked marks input the tutorial swallows. It carries no feedback.
	ErrTutorialBlocked = errors.New("blocked by tutorial")
)

type Options struct {
	SessionID string
	KV        KV
	Recorder  Recorder
	Logger    Logger
	// Rand draws seeds; nil uses the global source.
	Rand   *rand.Rand
	Rules  puzzle.Rules
	Script tutorial.Script
	Now    func() time.Time
}

type Controller struct {
	opts   Options
	logger Logger

	gate    *tutorial.Gate
	session *puzzle.Session
	history *puzzle.History

	run       RunState
	best      HighScore
	newHigh   bool
	finalized bool

	busy     bool
	busyGen  uint64
	timerGen uint64
	last     Outcome
}

// New reads the high score and tutorial flag once. Read failures are logged
// and fall back to defaults. Call StartRun before sending events.
func New(ctx context.Context, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Controller{opts: opts, logger: logger}

	seen := false
	if opts.KV != nil {
		best, err := LoadHighScore(ctx, opts.KV)
		if err != nil {
			logger.Warn("highscore.load_failed", map[string]any{"error": err.Error()})
		}
		c.best = best
		seen, err = TutorialSeen(ctx, opts.KV)
		if err != nil {
			logger.Warn("tutorial.flag_load_failed", map[string]any{"error": err.Error()})
		}
	}
	c.gate = tutorial.NewGate(seen)
	return c
}

// StartRun begins a fresh run. A nil seed draws one from [MinSeed, MaxSeed];
// while the tutorial is active the seed is always tutorial.Seed.
func (c *Controller) StartRun(ctx context.Context, seed *int) error {
	target := 0
	switch {
	case c.gate.Active():
		c.gate.Restart()
		target = tutorial.Seed
	case seed != nil:
		if *seed < 0 {
			return fmt.Errorf("start run: negative seed %d", *seed)
		}
		target = *seed
	default:
		target = c.randomSeed()
	}

	history := puzzle.NewHistory(target)
	session, err := puzzle.New(target, history, c.opts.Rules)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}
	c.history = history
	c.session = session
	c.run = RunState{Score: 0, Round: 1, TimeLeft: RoundSeconds}
	c.newHigh = false
	c.finalized = false
	c.busy = false
	c.busyGen++
	c.timerGen++
	c.last = Outcome{Action: "start", OK: true, Message: fmt.Sprintf("Start number: %d. Make a new number!", target)}
	c.logger.Info("run.start", map[string]any{
		"session":  c.opts.SessionID,
		"seed":     target,
		"tutorial": c.gate.Step().String(),
	})
	return nil
}

func (c *Controller) randomSeed() int {
	span := MaxSeed - MinSeed + 1
	if c.opts.Rand != nil {
		return MinSeed + c.opts.Rand.IntN(span)
	}
	return MinSeed + rand.IntN(span)
}

// Tick takes one second off the clock unless the run is over, a result is
// on screen, or the tutorial is running. It reports whether time moved.
func (c *Controller) Tick(ctx context.Context) bool {
	if c.session == nil || c.run.Over || c.busy || c.gate.TimerFrozen() {
		return false
	}
	c.run.TimeLeft--
	if c.run.TimeLeft <= 0 {
		c.run.TimeLeft = 0
		c.run.Over = true
		c.logger.Info("run.timeout", map[string]any{"session": c.opts.SessionID, "round": c.run.Round})
		c.finalize(ctx)
	}
	return true
}

// Toggle forwards a segment toggle to the round, through the tutorial gate.
func (c *Controller) Toggle(digit, segment int) (puzzle.Move, error) {
	if err := c.acceptInput(); err != nil {
		return puzzle.Move{}, err
	}
	if !c.gate.AllowToggle(digit, segment) {
		return puzzle.Move{}, ErrTutorialBlocked
	}
	mv, err := c.session.Toggle(digit, segment)
	if err != nil {
		c.last = Outcome{Action: "toggle", Message: err.Error(), Err: err}
		return puzzle.Move{}, err
	}
	if c.gate.Toggled(digit, segment) {
		c.logger.Debug("tutorial.advance", map[string]any{"step": c.gate.Step().String()})
	}
	c.last = Outcome{Action: "toggle", OK: true}
	return mv, nil
}

// Submit checks the live layout. Success and failure both open a busy
// window that lasts until Settle.
func (c *Controller) Submit(ctx context.Context) (puzzle.Result, error) {
	if err := c.acceptInput(); err != nil {
		return puzzle.Result{}, err
	}
	if !c.gate.AllowSubmit() {
		return puzzle.Result{}, ErrTutorialBlocked
	}
	res, err := c.session.Submit()
	c.busy = true
	c.busyGen++
	if err != nil {
		if errors.Is(err, puzzle.ErrTooManyMoves) {
			c.logger.Error("round.submit_over_budget", map[string]any{
				"session": c.opts.SessionID,
				"cost":    c.session.Cost(),
				"note":    "toggle guard let an over-budget layout through",
			})
		}
		c.last = Outcome{Action: "submit", Message: err.Error(), Err: err}
		c.logger.Info("round.submit_rejected", map[string]any{"reason": err.Error(), "round": c.run.Round})
		return puzzle.Result{}, err
	}

	c.onSubmitSuccess(res)
	if c.gate.Step() == tutorial.StepSubmit {
		c.gate.Fire(tutorial.EventSubmitted)
	}
	c.last = Outcome{
		Action:  "submit",
		OK:      true,
		Message: fmt.Sprintf("Success! Found %d. Moves used: %s.", res.Number, formatMoves(res.Moves)),
	}
	return res, nil
}

func (c *Controller) onSubmitSuccess(res puzzle.Result) {
	session, err := puzzle.New(res.Number, c.history, c.opts.Rules)
	if err != nil {
		// Decoded numbers are never negative, so this is unreachable.
		c.logger.Error("round.advance_failed", map[string]any{"error": err.Error()})
		return
	}
	c.run.Score += res.Number
	c.run.Round++
	c.run.TimeLeft = RoundSeconds
	c.session = session
	c.timerGen++
	c.logger.Info("round.success", map[string]any{
		"session": c.opts.SessionID,
		"number":  res.Number,
		"moves":   res.Moves,
		"score":   c.run.Score,
		"round":   c.run.Round,
	})
}

// Settle ends the busy window opened by the submit that produced gen.
// Stale generations are ignored.
func (c *Controller) Settle(gen uint64) bool {
	if !c.busy || gen != c.busyGen {
		return false
	}
	c.busy = false
	return true
}

// Reset puts the round back to its starting layout.
func (c *Controller) Reset() error {
	if err := c.acceptInput(); err != nil {
		return err
	}
	if !c.gate.AllowReset() {
		return ErrTutorialBlocked
	}
	c.session.Reset()
	c.last = Outcome{Action: "reset", OK: true, Message: "Reset to start."}
	return nil
}

// EndRun stops the run early. The high score is still considered.
func (c *Controller) EndRun(ctx context.Context) error {
	if c.session == nil || c.run.Over {
		return ErrRunOver
	}
	if c.gate.Active() {
		return ErrTutorialBlocked
	}
	c.run.Over = true
	c.busy = false
	c.timerGen++
	c.finalize(ctx)
	return nil
}

func (c *Controller) acceptInput() error {
	if c.session == nil || c.run.Over {
		return ErrRunOver
	}
	if c.busy {
		return ErrBusy
	}
	return nil
}

// finalize runs once per run, when the run first becomes over.
func (c *Controller) finalize(ctx context.Context) {
	if c.finalized {
		return
	}
	c.finalized = true
	rec := HighScore{Score: c.run.Score, Rounds: c.run.RoundsCompleted()}
	if rec.Beats(c.best) {
		c.best = rec
		c.newHigh = true
		if c.opts.KV != nil {
			if err := SaveHighScore(ctx, c.opts.KV, rec); err != nil {
				c.logger.Error("highscore.save_failed", map[string]any{"error": err.Error()})
			}
		}
	}
	if c.opts.Recorder != nil {
		err := c.opts.Recorder.RecordRun(ctx, RunSummary{
			Score:        rec.Score,
			Rounds:       rec.Rounds,
			NewHighScore: c.newHigh,
			EndedAt:      c.opts.Now().UTC(),
		})
		if err != nil {
			c.logger.Error("stats.record_failed", map[string]any{"error": err.Error()})
		}
	}
	c.last = Outcome{Action: "game_over", OK: true, Message: "Game over"}
	c.logger.Info("run.over", map[string]any{
		"session":        c.opts.SessionID,
		"score":          rec.Score,
		"rounds":         rec.Rounds,
		"new_high_score": c.newHigh,
	})
}

// TutorialStart leaves the intro screen.
func (c *Controller) TutorialStart() error {
	if !c.gate.Fire(tutorial.EventStart) {
		return ErrTutorialBlocked
	}
	c.logger.Info("tutorial.start", map[string]any{"session": c.opts.SessionID})
	return nil
}

// TutorialSkip abandons the walkthrough from any step and starts a real run.
func (c *Controller) TutorialSkip(ctx context.Context, seed *int) error {
	if !c.gate.Fire(tutorial.EventSkip) {
		return ErrTutorialBlocked
	}
	c.logger.Info("tutorial.skip", map[string]any{"session": c.opts.SessionID})
	c.markTutorialSeen(ctx)
	return c.StartRun(ctx, seed)
}

// TutorialFinish closes the completion screen and starts a real run.
func (c *Controller) TutorialFinish(ctx context.Context, seed *int) error {
	if !c.gate.Fire(tutorial.EventFinish) {
		return ErrTutorialBlocked
	}
	c.logger.Info("tutorial.finish", map[string]any{"session": c.opts.SessionID})
	c.markTutorialSeen(ctx)
	return c.StartRun(ctx, seed)
}

// ReplayTutorial restarts the walkthrough on demand.
func (c *Controller) ReplayTutorial(ctx context.Context) error {
	c.gate.Restart()
	return c.StartRun(ctx, nil)
}

func (c *Controller) markTutorialSeen(ctx context.Context) {
	if c.opts.KV == nil {
		return
	}
	if err := MarkTutorialSeen(ctx, c.opts.KV); err != nil {
		c.logger.Error("tutorial.flag_save_failed", map[string]any{"error": err.Error()})
	}
}

func (c *Controller) Run() RunState          { return c.run }
func (c *Controller) Busy() bool             { return c.busy }
func (c *Controller) BusyGeneration() uint64 { return c.busyGen }
func (c *Controller) HighScore() HighScore   { return c.best }
func (c *Controller) NewHighScore() bool     { return c.newHigh }
func (c *Controller) Tutorial() tutorial.Step {
	return c.gate.Step()
}

// TimerGeneration changes whenever the countdown is replaced: a new run, a
// new round, or an explicit end. Ticks scheduled under an older value are stale.
func (c *Controller) TimerGeneration() uint64 { return c.timerGen }

// History returns the numbers found this run, seed first.
func (c *Controller) History() []int {
	if c.history == nil {
		return nil
	}
	return c.history.Numbers()
}

func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		SessionID:    c.opts.SessionID,
		Run:          c.run,
		NewHighScore: c.newHigh,
		HighScore:    c.best,
		History:      c.History(),
		Busy:         c.busy,
		Outcome:      c.last,
		TimerGen:     c.timerGen,
		BusyGen:      c.busyGen,
		Strict:       c.opts.Rules.RequireLarger,
	}
	if c.session != nil {
		s.Digits = c.session.Current()
		s.Target = c.session.Target()
		s.Hand = c.session.Hand()
		s.Cost = c.session.Cost()
	}
	step := c.gate.Step()
	text := c.opts.Script.Text(step)
	s.Tutorial = TutorialView{Step: step, Title: text.Title, Body: text.Body}
	if hl, ok := c.gate.Highlight(); ok {
		s.Tutorial.Highlight = &hl
	}
	return s
}

// RulesMD is the markdown rules text from the tutorial script.
func (c *Controller) RulesMD() string { return c.opts.Script.RulesMD }

func formatMoves(m float64) string {
	if m == float64(int(m)) {
		return fmt.Sprintf("%d/%d", int(m), moves.Budget)
	}
	return fmt.Sprintf("%.1f/%d", m, moves.Budget)
}
