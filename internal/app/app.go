package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"mathsticks/internal/devtools"
	"mathsticks/internal/game"
	"mathsticks/internal/moves"
	"mathsticks/internal/puzzle"
	"mathsticks/internal/state"
	"mathsticks/internal/telemetry"
	"mathsticks/internal/tutorial"
	"mathsticks/internal/ui"

	"github.com/google/uuid"
)

type App struct {
	cfg Config

	logger Logger
	store  Store
	demo   *devtools.Manager
	view   ui.View

	sessionID string
	script    tutorial.Script

	// mu serializes controller calls from the view worker and the timers.
	mu     sync.Mutex
	ctrl   *game.Controller
	ticker *Ticker
	settle delayer

	devMu     sync.Mutex
	devServer *http.Server
	demoMu    sync.Mutex
	devState  struct {
		State     string
		Demo      string
		RenderSeq int
		Rendered  bool
		Pending   bool
		Error     string
	}
}

func New(cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	base, err := telemetry.NewLogger(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	sessionID := uuid.NewString()
	logger := base.With(map[string]any{"session": sessionID})

	store, err := state.NewSQLite(cfg.StorePath())
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}
	if cfg.ResetTutorial {
		if err := store.Delete(context.Background(), game.TutorialSeenKey); err != nil {
			_ = store.Close()
			_ = logger.Close()
			return nil, err
		}
	}

	view := ui.New(ui.Options{
		ASCIIOnly:    cfg.ASCIIOnly,
		Debug:        strings.EqualFold(cfg.LogLevel, "debug"),
		StyleVariant: cfg.UI.StyleVariant,
		MotionLevel:  cfg.UI.MotionLevel,
		MouseScope:   cfg.UI.MouseScope,
	})
	a, err := newApp(cfg, sessionID, logger, store, view)
	if err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}
	view.SetController(a)
	return a, nil
}

func newApp(cfg Config, sessionID string, logger Logger, store Store, view ui.View) (*App, error) {
	script, err := tutorial.DefaultScript()
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		demo:      devtools.NewManager(),
		view:      view,
		sessionID: sessionID,
		script:    script,
		ticker:    NewTicker(time.Second),
	}
	opts := game.Options{
		SessionID: a.sessionID,
		Logger:    logger,
		Rules:     puzzle.Rules{RequireLarger: cfg.Strict},
		Script:    script,
	}
	if store != nil {
		opts.KV = store
		opts.Recorder = store
	}
	a.ctrl = game.New(context.Background(), opts)
	view.SetRules(script.RulesMD)
	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{"session": a.sessionID, "strict": a.cfg.Strict, "dev": a.cfg.Dev})

	if err := a.start(ctx); err != nil {
		return err
	}

	if a.cfg.Dev {
		if err := a.startDevHTTP(); err != nil {
			return err
		}
		if a.cfg.DemoScenario != "" {
			_, err := a.runDemoScenario(context.Background(), a.cfg.DemoScenario)
			if err != nil {
				a.logger.Error("dev.demo.initial_failed", map[string]any{"demo": a.cfg.DemoScenario, "error": err.Error()})
			}
		} else {
			a.setDevState("playing", "")
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			a.view.Stop()
		case <-done:
		}
	}()

	return a.view.Run()
}

// start opens the first run: the tutorial board when it has not been seen.
func (a *App) start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ctrl.StartRun(ctx, a.cfg.SeedPtr()); err != nil {
		return err
	}
	a.syncLocked()
	return nil
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.devServer != nil {
		_ = a.devServer.Shutdown(ctx)
	}
	a.ticker.Stop()
	a.settle.Stop()
	if a.store != nil {
		_ = a.store.Close()
	}
	a.logger.Info("app.stop", map[string]any{"session": a.sessionID})
	_ = a.logger.Close()
}

// syncLocked pushes the current state to the view and keeps the countdown
// in step with the controller's timer generation.
func (a *App) syncLocked() {
	snap := a.ctrl.Snapshot()
	if snap.Run.Over {
		a.ticker.Stop()
	} else if gen, running := a.ticker.Generation(); !running || gen != snap.TimerGen {
		a.ticker.Start(snap.TimerGen, a.onTick)
	}
	a.view.SetBoard(boardState(snap))
}

func (a *App) onTick(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.ctrl.TimerGeneration() {
		return
	}
	if !a.ctrl.Tick(context.Background()) {
		return
	}
	a.syncLocked()
}

func (a *App) onSettle(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctrl.Settle(gen) {
		a.syncLocked()
	}
}

// silent reports errors that carry no feedback for the player.
func silent(err error) bool {
	return errors.Is(err, game.ErrTutorialBlocked) || errors.Is(err, game.ErrBusy) || errors.Is(err, game.ErrRunOver)
}

func (a *App) OnToggle(digit, segment int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.ctrl.Toggle(digit, segment); silent(err) {
		return
	}
	a.syncLocked()
}

func (a *App) OnSubmit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.ctrl.Submit(context.Background())
	if silent(err) {
		return
	}
	delay := time.Duration(a.cfg.Gameplay.SuccessDelayMS) * time.Millisecond
	if err != nil {
		delay = time.Duration(a.cfg.Gameplay.FailureDelayMS) * time.Millisecond
	}
	gen := a.ctrl.BusyGeneration()
	a.settle.After(delay, func() { a.onSettle(gen) })
	a.syncLocked()
}

func (a *App) OnReset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ctrl.Reset(); silent(err) {
		return
	}
	a.syncLocked()
}

func (a *App) OnNewGame() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settle.Stop()
	if err := a.ctrl.StartRun(context.Background(), a.cfg.SeedPtr()); err != nil {
		a.view.FlashStatus(err.Error())
		return
	}
	a.syncLocked()
}

func (a *App) OnEndRun() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ctrl.EndRun(context.Background()); err != nil {
		return
	}
	a.settle.Stop()
	a.syncLocked()
}

func (a *App) OnTutorialStart() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ctrl.TutorialStart(); err != nil {
		return
	}
	a.syncLocked()
}

func (a *App) OnTutorialSkip() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ctrl.TutorialSkip(context.Background(), a.cfg.SeedPtr()); err != nil {
		if !silent(err) {
			a.view.FlashStatus(err.Error())
		}
		return
	}
	a.settle.Stop()
	a.syncLocked()
}

func (a *App) OnTutorialFinish() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ctrl.TutorialFinish(context.Background(), a.cfg.SeedPtr()); err != nil {
		if !silent(err) {
			a.view.FlashStatus(err.Error())
		}
		return
	}
	a.settle.Stop()
	a.syncLocked()
}

func (a *App) OnReplayTutorial() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settle.Stop()
	if err := a.ctrl.ReplayTutorial(context.Background()); err != nil {
		a.view.FlashStatus(err.Error())
		return
	}
	a.syncLocked()
}

func (a *App) OnOpenStats() {
	a.mu.Lock()
	best := a.ctrl.HighScore()
	a.mu.Unlock()

	var summary state.Summary
	if a.store != nil {
		s, err := a.store.GetSummary(context.Background())
		if err != nil {
			a.logger.Error("stats.load_failed", map[string]any{"error": err.Error()})
			a.view.FlashStatus("Could not load stats")
			return
		}
		summary = s
	}
	a.view.SetInfo("Stats", StatsText(summary, best), true)
}

func (a *App) OnQuit() {
	a.logger.Info("app.quit", map[string]any{"session": a.sessionID})
	a.view.Stop()
}

// Snapshot is a locked copy of the controller state.
func (a *App) Snapshot() game.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctrl.Snapshot()
}

// StatsText renders the aggregate stats block shared by the overlay and
// the stats subcommand.
func StatsText(s state.Summary, best game.HighScore) string {
	var b strings.Builder
	fmt.Fprintf(&b, "High score: %d (%d rounds)\n", best.Score, best.Rounds)
	fmt.Fprintf(&b, "Runs played: %d\n", s.RunsPlayed)
	fmt.Fprintf(&b, "Rounds cleared: %d\n", s.TotalRounds)
	fmt.Fprintf(&b, "Average score: %.1f\n", s.AverageScore())
	fmt.Fprintf(&b, "New records set: %d\n", s.NewHighs)
	last := "never"
	if !s.LastPlayedTS.IsZero() {
		last = s.LastPlayedTS.Local().Format("2006-01-02 15:04")
	}
	fmt.Fprintf(&b, "Last played: %s", last)
	return b.String()
}

func boardState(s game.Snapshot) ui.BoardState {
	out := ui.BoardState{
		Digits:       s.Digits,
		Target:       s.Target,
		Hand:         s.Hand,
		Cost:         s.Cost,
		Budget:       moves.Budget,
		Score:        s.Run.Score,
		Round:        s.Run.Round,
		TimeLeft:     s.Run.TimeLeft,
		RoundSeconds: game.RoundSeconds,
		Over:         s.Run.Over,
		NewHighScore: s.NewHighScore,
		HighScore:    s.HighScore.Score,
		HighRounds:   s.HighScore.Rounds,
		History:      s.History,
		Busy:         s.Busy,
		Strict:       s.Strict,
		Message:      s.Outcome.Message,
		MessageOK:    s.Outcome.OK,
		Tutorial: ui.TutorialState{
			Step:  int(s.Tutorial.Step),
			Title: s.Tutorial.Title,
			Body:  s.Tutorial.Body,
		},
	}
	if hl := s.Tutorial.Highlight; hl != nil {
		out.Tutorial.Highlight = true
		out.Tutorial.HighlightDigit = hl.Digit
		out.Tutorial.HighlightSegment = hl.Segment
	}
	return out
}
