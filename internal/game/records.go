package game

import (
	"context"
	"encoding/json"
)

const (
	HighScoreKey    = "math-sticks-highscore"
	TutorialSeenKey = "math-sticks-tutorial-v2-seen"
)

// HighScore is the persisted best run.
type HighScore struct {
	Score  int `json:"score"`
	Rounds int `json:"rounds"`
}

// Beats reports whether h should replace prev: a higher score, or the same
// score reached over more rounds.
func (h HighScore) Beats(prev HighScore) bool {
	return h.Score > prev.Score || (h.Score == prev.Score && h.Rounds > prev.Rounds)
}

// ParseHighScore decodes a stored record. Anything unreadable is the zero record.
func ParseHighScore(raw string) HighScore {
	var h HighScore
	if raw == "" {
		return h
	}
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return HighScore{}
	}
	if h.Score < 0 || h.Rounds < 0 {
		return HighScore{}
	}
	return h
}

// LoadHighScore reads the record. The returned record is usable even when
// err is non-nil.
func LoadHighScore(ctx context.Context, kv KV) (HighScore, error) {
	raw, ok, err := kv.Get(ctx, HighScoreKey)
	if err != nil || !ok {
		return HighScore{}, err
	}
	return ParseHighScore(raw), nil
}

func SaveHighScore(ctx context.Context, kv KV, h HighScore) error {
	b, err := json.Marshal(h)
	if err != nil {
		return err
	}
	return kv.Set(ctx, HighScoreKey, string(b))
}

// TutorialSeen reports whether the flag key exists. Read errors count as unseen.
func TutorialSeen(ctx context.Context, kv KV) (bool, error) {
	_, ok, err := kv.Get(ctx, TutorialSeenKey)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func MarkTutorialSeen(ctx context.Context, kv KV) error {
	return kv.Set(ctx, TutorialSeenKey, "true")
}
