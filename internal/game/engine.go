// internal/game/engine.go
//
// Round engine for a single player.
// Responsibilities:
//   - Start rounds (idle → running) with a fresh State and one 1s ticker.
//   - Count keystrokes, award score and time bonus on completed words.
//   - Count the clock down and end the round on timeout or on request.
//   - Notify an Observer of every change.
//
// Notes:
//   - All entry points are serialized by one mutex; ticks and inputs never overlap.
//   - Each round has a generation number; ticks from an older round are dropped.
//   - Start is a no-op while running. Restart force-stops the current round.

package game

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/robalobadob/typerush/internal/metrics"
	"github.com/robalobadob/typerush/internal/words"
)

const tickInterval = time.Second

// Engine owns the state of one player's rounds.
type Engine struct {
	id     string
	clock  clockwork.Clock
	picker words.Picker
	obs    Observer
	log    zerolog.Logger

	mu       sync.Mutex
	state    State
	result   Result
	finished bool   // result holds a completed round
	round    uint64 // generation of the current/last round
	matched  int    // highlight length for the last input
	mistyped bool
	ticker   clockwork.Ticker // nil while idle
	stop     chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock (tests use a fake clock).
func WithClock(c clockwork.Clock) Option { return func(e *Engine) { e.clock = c } }

// WithPicker replaces the default word bank.
func WithPicker(p words.Picker) Option { return func(e *Engine) { e.picker = p } }

// WithObserver sets the notification target.
func WithObserver(o Observer) Option { return func(e *Engine) { e.obs = o } }

// WithLogger sets the engine logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithID sets the engine identifier; the default is a random UUID.
func WithID(id string) Option { return func(e *Engine) { e.id = id } }

// New constructs an idle engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		id:    uuid.NewString(),
		clock: clockwork.NewRealClock(),
		obs:   ObserverFuncs{},
		log:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.picker == nil {
		e.picker = words.Default()
	}
	e.state.RemainingSeconds = RoundDuration
	e.state.Difficulty = words.Medium
	return e
}

// ID returns the engine identifier.
func (e *Engine) ID() string { return e.id }

// Start begins a round at difficulty d (unknown → medium).
// It returns false, and changes nothing, if a round is already running.
func (e *Engine) Start(d words.Difficulty) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Running {
		return false
	}
	e.begin(d)
	return true
}

// Restart discards the running round, if any, without a round-end notification
// and starts a new one.
func (e *Engine) Restart(d words.Difficulty) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Running {
		e.disarm()
		e.state.Running = false
		e.log.Debug().Str("engine", e.id).Uint64("round", e.round).Msg("round abandoned")
	}
	e.begin(d)
}

// begin replaces the state and arms the ticker. Caller holds mu.
func (e *Engine) begin(d words.Difficulty) {
	d = d.Normalize()
	e.round++
	e.state = State{
		Running:          true,
		RemainingSeconds: RoundDuration,
		CurrentWord:      e.picker.Pick(d),
		Difficulty:       d,
		StartedAt:        e.clock.Now(),
	}
	e.matched, e.mistyped = 0, false
	e.arm()
	e.log.Debug().Str("engine", e.id).Uint64("round", e.round).Str("difficulty", string(d)).Msg("round started")
	e.obs.OnUpdate(e.update())
}

// arm creates the one ticker for the current round. Caller holds mu.
func (e *Engine) arm() {
	e.disarm()
	t := e.clock.NewTicker(tickInterval)
	stop := make(chan struct{})
	e.ticker, e.stop = t, stop
	go e.run(e.round, t, stop)
}

// disarm stops the active ticker, if any. Caller holds mu.
func (e *Engine) disarm() {
	if e.ticker == nil {
		return
	}
	e.ticker.Stop()
	close(e.stop)
	e.ticker, e.stop = nil, nil
}

func (e *Engine) run(round uint64, t clockwork.Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-t.Chan():
			e.tick(round)
		}
	}
}

// tick advances the round clock by one second.
func (e *Engine) tick(round uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Running || round != e.round {
		return
	}
	if e.state.RemainingSeconds > 0 {
		e.state.RemainingSeconds--
	}
	e.obs.OnUpdate(e.update())
	if e.state.RemainingSeconds == 0 {
		e.finish()
	}
}

// HandleInput processes the full contents of the input box after one input event.
// It returns true when the word was completed and the input box should be cleared.
// Calls while idle are ignored.
func (e *Engine) HandleInput(typed string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Running {
		return false
	}

	s := &e.state
	target := s.CurrentWord
	s.TotalKeystrokes++
	onWord := typed != "" && strings.HasPrefix(target, typed)
	if onWord {
		s.CorrectKeystrokes++
	}

	if typed == target {
		s.Score += wordScore(target)
		s.WordsCompleted++
		s.RemainingSeconds = min(RoundDuration, s.RemainingSeconds+s.Difficulty.TimeBonus())
		s.CurrentWord = e.picker.Pick(s.Difficulty)
		e.matched, e.mistyped = 0, false
		e.obs.OnUpdate(e.update())
		return true
	}

	e.matched = min(utf8.RuneCountInString(typed), utf8.RuneCountInString(target))
	e.mistyped = typed != "" && !onWord
	e.obs.OnUpdate(e.update())
	return false
}

// wordScore is max(1, floor(len/2)).
func wordScore(w string) int {
	return max(1, utf8.RuneCountInString(w)/2)
}

// End finishes the running round and returns its result. On an idle engine it
// returns the last result again without notifying anyone.
func (e *Engine) End() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Running {
		return e.result
	}
	return e.finish()
}

// finish stops the ticker, freezes the state and publishes the result. Caller holds mu.
func (e *Engine) finish() Result {
	e.disarm()
	s := &e.state
	s.Running = false
	elapsed := metrics.ElapsedSeconds(s.StartedAt, e.clock.Now())
	e.result = Result{
		Score:          s.Score,
		WPM:            metrics.WPM(s.WordsCompleted, elapsed),
		Accuracy:       metrics.Accuracy(s.CorrectKeystrokes, s.TotalKeystrokes),
		WordsCompleted: s.WordsCompleted,
		Difficulty:     s.Difficulty,
		ElapsedSeconds: elapsed,
	}
	e.finished = true
	e.log.Debug().Str("engine", e.id).Uint64("round", e.round).
		Int("score", e.result.Score).Int("wpm", e.result.WPM).Int("accuracy", e.result.Accuracy).
		Msg("round ended")
	e.obs.OnRoundEnd(e.result)
	return e.result
}

// Close stops the ticker and leaves the engine idle without notifying anyone.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disarm()
	e.state.Running = false
}

// update builds the live view of the state. Caller holds mu.
func (e *Engine) update() Update {
	s := e.state
	elapsed := metrics.ElapsedSeconds(s.StartedAt, e.clock.Now())
	return Update{
		RemainingSeconds: s.RemainingSeconds,
		Score:            s.Score,
		WPM:              metrics.WPM(s.WordsCompleted, elapsed),
		Accuracy:         metrics.Accuracy(s.CorrectKeystrokes, s.TotalKeystrokes),
		CurrentWord:      s.CurrentWord,
		MatchedPrefix:    e.matched,
		Mistyped:         e.mistyped,
	}
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Running reports whether a round is in progress.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Running
}

// LastResult returns the result of the most recently finished round.
func (e *Engine) LastResult() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result, e.finished
}
