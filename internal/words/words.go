// internal/words/words.go
//
// Word bank for the typing game.
//
// Responsibilities:
//   - Define the three difficulties and their time bonuses.
//   - Hold one immutable word list per difficulty.
//   - Pick a uniformly random word for a difficulty (unknown → medium).
//
// The default bank is loaded once from the embedded lists in the assets package.

package words

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/robalobadob/typerush/assets"
)

// Difficulty selects a word list and the time bonus for a completed word.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the known difficulties from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParseDifficulty trims and lowercases s. Unknown values degrade to Medium.
func ParseDifficulty(s string) Difficulty {
	return Difficulty(strings.ToLower(strings.TrimSpace(s))).Normalize()
}

// Valid reports whether d is one of Easy, Medium or Hard.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// Normalize returns d, or Medium if d is not a known difficulty.
func (d Difficulty) Normalize() Difficulty {
	if d.Valid() {
		return d
	}
	return Medium
}

// TimeBonus is the number of seconds added to the round clock per completed word.
func (d Difficulty) TimeBonus() int {
	switch d.Normalize() {
	case Easy:
		return 3
	case Hard:
		return 1
	default:
		return 2
	}
}

// Picker chooses the next target word for a difficulty.
type Picker interface {
	Pick(d Difficulty) string
}

// PickerFunc adapts a plain function to Picker.
type PickerFunc func(d Difficulty) string

func (f PickerFunc) Pick(d Difficulty) string { return f(d) }

// Bank holds one non-empty word list per difficulty. It is safe for concurrent use;
// lists are never mutated after construction.
type Bank struct {
	lists map[Difficulty][]string
}

// NewBank normalizes the given lists (trim, lowercase, drop blanks and # comments)
// and fails if any difficulty ends up without words.
func NewBank(lists map[Difficulty][]string) (*Bank, error) {
	b := &Bank{lists: make(map[Difficulty][]string, 3)}
	for _, d := range Difficulties() {
		l := normalize(lists[d])
		if len(l) == 0 {
			return nil, fmt.Errorf("words: %s list is empty", d)
		}
		b.lists[d] = l
	}
	return b, nil
}

func normalize(list []string) []string {
	return lo.FilterMap(list, func(w string, _ int) (string, bool) {
		w = strings.ToLower(strings.TrimSpace(w))
		return w, w != "" && !strings.HasPrefix(w, "#")
	})
}

// Pick returns a uniformly random word from d's list; unknown d uses the medium list.
func (b *Bank) Pick(d Difficulty) string {
	list := b.lists[d.Normalize()]
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	if err != nil {
		return list[0]
	}
	return list[nBig.Int64()]
}

// List returns a copy of d's list (medium for unknown d).
func (b *Bank) List(d Difficulty) []string {
	return slices.Clone(b.lists[d.Normalize()])
}

// Contains reports whether w is in d's list (medium for unknown d).
func (b *Bank) Contains(d Difficulty, w string) bool {
	return slices.Contains(b.lists[d.Normalize()], w)
}

// Stats returns the number of words per difficulty.
func (b *Bank) Stats() map[Difficulty]int {
	return lo.MapValues(b.lists, func(l []string, _ Difficulty) int { return len(l) })
}

var (
	initOnce    sync.Once
	defaultBank *Bank
	initialErr  error
)

// Init loads the embedded default bank exactly once.
func Init() error {
	initOnce.Do(func() {
		lists := make(map[Difficulty][]string, 3)
		for _, d := range Difficulties() {
			l, err := assets.WordList(string(d))
			if err != nil {
				initialErr = fmt.Errorf("words: load %s: %w", d, err)
				return
			}
			lists[d] = l
		}
		defaultBank, initialErr = NewBank(lists)
	})
	return initialErr
}

// Default returns the embedded bank. It panics if the embedded lists are unusable,
// which can only happen with a broken build.
func Default() *Bank {
	if err := Init(); err != nil {
		panic(err)
	}
	if defaultBank == nil {
		panic(errors.New("words: default bank not loaded"))
	}
	return defaultBank
}

// PickWord returns a random word for d from the default bank.
func PickWord(d Difficulty) string {
	return Default().Pick(d)
}
