package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"mathsticks/internal/devtools"
	"mathsticks/internal/tutorial"
)

func (a *App) setDevState(state, demo string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = state
	a.devState.Demo = demo
	a.devState.Rendered = true
	a.devState.Pending = false
	a.devState.Error = ""
	a.devState.RenderSeq++
}

func (a *App) setDevPending(state, demo string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = state
	a.devState.Demo = demo
	a.devState.Rendered = false
	a.devState.Pending = true
	a.devState.Error = ""
	a.devState.RenderSeq++
}

func (a *App) setDevError(state, demo, errText string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.State = state
	a.devState.Demo = demo
	a.devState.Rendered = false
	a.devState.Pending = false
	a.devState.Error = errText
	a.devState.RenderSeq++
}

func (a *App) getDevState() map[string]any {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	return map[string]any{
		"ok":         true,
		"state":      a.devState.State,
		"demo":       a.devState.Demo,
		"render_seq": a.devState.RenderSeq,
		"rendered":   a.devState.Rendered,
		"pending":    a.devState.Pending,
		"error":      a.devState.Error,
	}
}

func (a *App) runDemoScenario(ctx context.Context, requested string) (string, error) {
	resolved := a.demo.Resolve(requested).Name
	a.logger.Info("dev.demo.dispatch.begin", map[string]any{"requested": requested, "resolved": resolved})
	a.setDevPending(resolved, requested)

	a.demoMu.Lock()
	defer a.demoMu.Unlock()

	if err := a.applyDemoScenario(ctx, requested); err != nil {
		a.logger.Error("dev.demo.dispatch.apply_failed", map[string]any{"requested": requested, "resolved": resolved, "error": err.Error()})
		a.setDevError(resolved, requested, err.Error())
		return resolved, err
	}
	a.view.RequestDraw()
	a.logger.Info("dev.demo.dispatch.done", map[string]any{"requested": requested, "resolved": resolved})
	a.setDevState(resolved, requested)
	if err := a.demo.SetState(ctx, filepath.Join(a.cfg.DataDir, "dev"), a.Snapshot()); err != nil {
		a.logger.Error("dev_state.write_failed", map[string]any{"state": resolved, "error": err.Error()})
	}
	return resolved, nil
}

// applyDemoScenario replays a scripted scenario against the live controller.
func (a *App) applyDemoScenario(ctx context.Context, name string) error {
	sc := a.demo.Resolve(name)
	var seed *int
	if sc.Seed > 0 {
		seed = &sc.Seed
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.settle.Stop()
	for i, step := range sc.Steps {
		if err := a.applyDemoStep(ctx, step, seed); err != nil {
			return fmt.Errorf("demo %s step %d: %w", sc.Name, i, err)
		}
	}
	a.syncLocked()
	return nil
}

func (a *App) applyDemoStep(ctx context.Context, step devtools.Step, seed *int) error {
	c := a.ctrl
	a.logger.Debug("dev.demo.step", map[string]any{"action": int(step.Action), "digit": step.Digit, "segment": step.Segment})
	switch step.Action {
	case devtools.ActStart:
		if c.Tutorial() != tutorial.Inactive {
			return c.TutorialSkip(ctx, seed)
		}
		return c.StartRun(ctx, seed)
	case devtools.ActToggle:
		_, err := c.Toggle(step.Digit, step.Segment)
		return err
	case devtools.ActSubmit:
		_, err := c.Submit(ctx)
		return err
	case devtools.ActSettle:
		c.Settle(c.BusyGeneration())
	case devtools.ActTick:
		for i := 0; i < max(1, step.Repeat); i++ {
			c.Tick(ctx)
		}
	case devtools.ActEnd:
		return c.EndRun(ctx)
	case devtools.ActTutorialStart:
		return c.TutorialStart()
	case devtools.ActTutorialSkip:
		return c.TutorialSkip(ctx, seed)
	case devtools.ActReplayTutorial:
		return c.ReplayTutorial(ctx)
	default:
		return fmt.Errorf("unknown demo action %d", step.Action)
	}
	return nil
}

func (a *App) devMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		out := a.getDevState()
		out["snapshot"] = a.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/demo", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" && r.Body != nil {
			var req struct {
				Demo string `json:"demo"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "invalid json"})
				return
			}
			name = strings.TrimSpace(req.Demo)
		}
		if name == "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "demo name is required"})
			return
		}
		a.logger.Info("dev.demo.request", map[string]any{"demo": name})

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()
		resolved, err := a.runDemoScenario(ctx, name)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": err.Error(), "state": resolved})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "state": resolved, "requested": name})
	})
	return mux
}

func (a *App) startDevHTTP() error {
	a.devServer = &http.Server{Addr: a.cfg.DevHTTP, Handler: a.devMux()}
	a.setDevState("playing", a.cfg.DemoScenario)
	go func() {
		if err := a.devServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("dev_http.listen_failed", map[string]any{"error": err.Error(), "addr": a.cfg.DevHTTP})
		}
	}()
	return nil
}
