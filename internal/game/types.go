// internal/game/types.go
//
// Core type definitions for the typing round engine.
// Defines:
//   - State: the round state owned by an Engine.
//   - Update / Result: notifications emitted to the presentation layer.
//   - Observer: the notification surface.

package game

import (
	"time"

	"github.com/robalobadob/typerush/internal/words"
)

// RoundDuration is the length of a round, and the ceiling for the round clock, in seconds.
const RoundDuration = 60

// State holds the state of a single round.
type State struct {
	Running           bool             // True between start and end.
	RemainingSeconds  int              // Round clock, 0..RoundDuration.
	Score             int              // Points from completed words.
	TotalKeystrokes   int              // One per input event.
	CorrectKeystrokes int              // Input events that kept the text on the word.
	WordsCompleted    int              // Words typed in full.
	CurrentWord       string           // Active target word.
	Difficulty        words.Difficulty // Always a known difficulty.
	StartedAt         time.Time        // Engine clock reading at start.
}

// Update is emitted after every start, tick and input event.
type Update struct {
	RemainingSeconds int    `json:"remainingSeconds"`
	Score            int    `json:"score"`
	WPM              int    `json:"wpm"`
	Accuracy         int    `json:"accuracy"`
	CurrentWord      string `json:"currentWord"`
	// MatchedPrefix is how many leading characters of CurrentWord to highlight.
	MatchedPrefix int  `json:"matchedPrefix"`
	Mistyped      bool `json:"mistyped,omitempty"`
}

// Result is the final snapshot of a round.
type Result struct {
	Score          int              `json:"score"`
	WPM            int              `json:"wpm"`
	Accuracy       int              `json:"accuracy"`
	WordsCompleted int              `json:"wordsCompleted"`
	Difficulty     words.Difficulty `json:"difficulty"`
	ElapsedSeconds float64          `json:"elapsedSeconds"`
}

// Observer receives engine notifications in the order they happen.
//
// Callbacks run synchronously while the engine holds its lock, so an observer must
// not call back into the same engine and should hand work off quickly.
type Observer interface {
	OnUpdate(Update)
	OnRoundEnd(Result)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Update   func(Update)
	RoundEnd func(Result)
}

func (o ObserverFuncs) OnUpdate(u Update) {
	if o.Update != nil {
		o.Update(u)
	}
}

func (o ObserverFuncs) OnRoundEnd(r Result) {
	if o.RoundEnd != nil {
		o.RoundEnd(r)
	}
}
