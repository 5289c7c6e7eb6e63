package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mathsticks/internal/game"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "state.db"))
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestKeyValueRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, game.HighScoreKey); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, game.HighScoreKey, `{"score":12,"rounds":2}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, game.HighScoreKey, `{"score":30,"rounds":3}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := game.LoadHighScore(ctx, store)
	if err != nil {
		t.Fatalf("load highscore: %v", err)
	}
	if got != (game.HighScore{Score: 30, Rounds: 3}) {
		t.Fatalf("unexpected highscore %+v", got)
	}

	if err := store.Set(ctx, "  ", "x"); err == nil {
		t.Fatalf("expected empty key to fail")
	}

	if err := game.MarkTutorialSeen(ctx, store); err != nil {
		t.Fatalf("mark seen: %v", err)
	}
	if err := store.Delete(ctx, game.HighScoreKey, game.TutorialSeenKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	seen, err := game.TutorialSeen(ctx, store)
	if err != nil || seen {
		t.Fatalf("expected flag cleared, got seen=%v err=%v", seen, err)
	}
}

func TestRecordsPersistAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	store, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := game.SaveHighScore(ctx, store, game.HighScore{Score: 42, Rounds: 3}); err != nil {
		t.Fatalf("save high score: %v", err)
	}
	_ = store.Close()

	store, err = NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = store.Close() }()
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema again: %v", err)
	}
	best, err := game.LoadHighScore(ctx, store)
	if err != nil {
		t.Fatalf("load high score: %v", err)
	}
	if best != (game.HighScore{Score: 42, Rounds: 3}) {
		t.Fatalf("unexpected high score %+v", best)
	}
}

func TestRecordRunAggregates(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	empty, err := store.GetSummary(ctx)
	if err != nil {
		t.Fatalf("summary before runs: %v", err)
	}
	if empty.RunsPlayed != 0 || empty.AverageScore() != 0 {
		t.Fatalf("expected empty summary, got %+v", empty)
	}

	t1 := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	runs := []game.RunSummary{
		{Score: 40, Rounds: 2, NewHighScore: true, EndedAt: t1},
		{Score: 40, Rounds: 5, NewHighScore: true, EndedAt: t1.Add(time.Minute)},
		{Score: 10, Rounds: 1, EndedAt: t2},
	}
	for _, run := range runs {
		if err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("record run: %v", err)
		}
	}

	sum, err := store.GetSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.RunsPlayed != 3 || sum.TotalRounds != 8 || sum.TotalScore != 90 {
		t.Fatalf("unexpected totals %+v", sum)
	}
	if sum.BestScore != 40 || sum.BestRounds != 5 {
		t.Fatalf("expected best 40 over 5 rounds, got %d/%d", sum.BestScore, sum.BestRounds)
	}
	if sum.NewHighs != 2 {
		t.Fatalf("expected 2 new highs, got %d", sum.NewHighs)
	}
	if !sum.LastPlayedTS.Equal(t2) {
		t.Fatalf("expected last played %v, got %v", t2, sum.LastPlayedTS)
	}
	if sum.AverageScore() != 30 {
		t.Fatalf("expected average 30, got %v", sum.AverageScore())
	}

	if err := store.ResetStats(ctx); err != nil {
		t.Fatalf("reset stats: %v", err)
	}
	sum, err = store.GetSummary(ctx)
	if err != nil || sum.RunsPlayed != 0 {
		t.Fatalf("expected cleared stats, got %+v err=%v", sum, err)
	}
}
