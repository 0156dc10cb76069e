// Package metrics derives the typing statistics shown during and after a round.
//
// All results are rounded with math.Round (half away from zero). The inputs are
// never negative, so in practice this is half-up rounding, e.g. 2.5 → 3.
package metrics

import (
	"math"
	"time"
)

// WPM returns completed words per minute over elapsedSeconds.
// It returns 0 when elapsedSeconds ≤ 0.
func WPM(wordsCompleted int, elapsedSeconds float64) int {
	if elapsedSeconds <= 0 {
		return 0
	}
	minutes := elapsedSeconds / 60
	return int(math.Round(float64(wordsCompleted) / minutes))
}

// Accuracy returns the percentage of keystrokes that kept the typed text on the
// target word. No keystrokes counts as 100.
func Accuracy(correctKeystrokes, totalKeystrokes int) int {
	if totalKeystrokes <= 0 {
		return 100
	}
	return int(math.Round(100 * float64(correctKeystrokes) / float64(totalKeystrokes)))
}

// ElapsedSeconds is now-start in seconds, never negative.
func ElapsedSeconds(start, now time.Time) float64 {
	if start.IsZero() || now.Before(start) {
		return 0
	}
	return now.Sub(start).Seconds()
}
