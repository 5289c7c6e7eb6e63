// Package moves measures how many stick relocations separate two layouts.
package moves

import "mathsticks/internal/segments"

// Budget is the most moves a round may spend.
const Budget = 3

// Diff counts segment positions that differ between source and target.
// Both configurations must have the same number of digits.
func Diff(source, target segments.Config) int {
	n := 0
	for i := range source {
		for j := 0; j < segments.Count; j++ {
			if source[i][j] != target[i][j] {
				n++
			}
		}
	}
	return n
}

// Cost is Diff halved: every move lifts one stick and places it elsewhere,
// touching two positions. With sticks still in hand the value can be
// fractional; it is only meaningful as a move count once the hand is empty.
func Cost(source, target segments.Config) float64 {
	return float64(Diff(source, target)) / 2
}

// Within reports whether cost fits the move budget.
func Within(cost float64) bool {
	return cost <= Budget
}
