package state

import "time"

// Summary aggregates every finished run. Individual runs are not kept.
type Summary struct {
	RunsPlayed   int
	TotalRounds  int
	TotalScore   int
	BestScore    int
	BestRounds   int
	NewHighs     int
	LastPlayedTS time.Time
}

// AverageScore is the mean score per run, 0 before the first run.
func (s Summary) AverageScore() float64 {
	if s.RunsPlayed == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.RunsPlayed)
}
