package metrics

import (
	"testing"
	"time"
)

func TestWPM(t *testing.T) {
	cases := []struct {
		words   int
		elapsed float64
		want    int
	}{
		{30, 60, 30},
		{10, 0, 0},
		{10, -5, 0},
		{0, 60, 0},
		{5, 30, 10},
		{1, 45, 1},  // 1.33
		{5, 120, 3}, // 2.5 rounds up
		{7, 61.5, 7},
	}
	for _, c := range cases {
		if got := WPM(c.words, c.elapsed); got != c.want {
			t.Errorf("WPM(%d, %v) = %d, want %d", c.words, c.elapsed, got, c.want)
		}
	}
}

func TestAccuracy(t *testing.T) {
	cases := []struct {
		correct, total int
		want           int
	}{
		{0, 0, 100},
		{5, 10, 50},
		{10, 10, 100},
		{0, 7, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
	}
	for _, c := range cases {
		if got := Accuracy(c.correct, c.total); got != c.want {
			t.Errorf("Accuracy(%d, %d) = %d, want %d", c.correct, c.total, got, c.want)
		}
	}
}

func TestElapsedSeconds(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := ElapsedSeconds(start, start.Add(90*time.Second)); got != 90 {
		t.Errorf("ElapsedSeconds = %v, want 90", got)
	}
	if got := ElapsedSeconds(start, start.Add(-time.Second)); got != 0 {
		t.Errorf("ElapsedSeconds before start = %v, want 0", got)
	}
	if got := ElapsedSeconds(time.Time{}, start); got != 0 {
		t.Errorf("ElapsedSeconds zero start = %v, want 0", got)
	}
}
