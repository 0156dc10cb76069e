package words

import (
	"strings"
	"testing"
)

func TestDefaultBankLoads(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	for d, n := range Default().Stats() {
		if n == 0 {
			t.Errorf("difficulty %s has no words", d)
		}
	}
	if len(Default().Stats()) != 3 {
		t.Errorf("expected 3 difficulties, got %d", len(Default().Stats()))
	}
}

func TestDefaultListsAreLowercase(t *testing.T) {
	for _, d := range Difficulties() {
		for _, w := range Default().List(d) {
			if w != strings.ToLower(w) || strings.TrimSpace(w) != w || w == "" {
				t.Errorf("%s: bad word %q", d, w)
			}
		}
	}
}

func TestPickWordReturnsMember(t *testing.T) {
	for _, d := range Difficulties() {
		for i := 0; i < 50; i++ {
			w := PickWord(d)
			if !Default().Contains(d, w) {
				t.Errorf("PickWord(%s) = %q, not in list", d, w)
			}
		}
	}
}

func TestPickWordUnknownFallsBackToMedium(t *testing.T) {
	for _, d := range []Difficulty{"", "nightmare", "EASY"} {
		for i := 0; i < 20; i++ {
			w := PickWord(d)
			if !Default().Contains(Medium, w) {
				t.Errorf("PickWord(%q) = %q, want a medium word", d, w)
			}
		}
	}
}

func TestPickCoversWholeList(t *testing.T) {
	b, err := NewBank(map[Difficulty][]string{
		Easy:   {"a", "b"},
		Medium: {"c"},
		Hard:   {"d"},
	})
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[b.Pick(Easy)] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("expected both easy words to be picked, saw %v", seen)
	}
}

func TestNewBankNormalizesAndRejectsEmpty(t *testing.T) {
	b, err := NewBank(map[Difficulty][]string{
		Easy:   {"  Cat ", "", "# comment", "DOG"},
		Medium: {"planet"},
		Hard:   {"synchronize"},
	})
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	got := b.List(Easy)
	if len(got) != 2 || got[0] != "cat" || got[1] != "dog" {
		t.Errorf("easy list = %v, want [cat dog]", got)
	}

	if _, err := NewBank(map[Difficulty][]string{Easy: {"cat"}, Medium: {"planet"}}); err == nil {
		t.Error("expected error for missing hard list")
	}
	if _, err := NewBank(map[Difficulty][]string{Easy: {"#x"}, Medium: {"a"}, Hard: {"b"}}); err == nil {
		t.Error("expected error for easy list with only comments")
	}
}

func TestListReturnsCopy(t *testing.T) {
	l := Default().List(Easy)
	l[0] = "mutated"
	if Default().Contains(Easy, "mutated") {
		t.Error("List must not expose the internal slice")
	}
}

func TestParseDifficulty(t *testing.T) {
	cases := map[string]Difficulty{
		"easy":    Easy,
		" Hard ":  Hard,
		"MEDIUM":  Medium,
		"":        Medium,
		"extreme": Medium,
	}
	for in, want := range cases {
		if got := ParseDifficulty(in); got != want {
			t.Errorf("ParseDifficulty(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTimeBonus(t *testing.T) {
	cases := []struct {
		d    Difficulty
		want int
	}{
		{Easy, 3},
		{Medium, 2},
		{Hard, 1},
		{"bogus", 2},
	}
	for _, c := range cases {
		if got := c.d.TimeBonus(); got != c.want {
			t.Errorf("%q.TimeBonus() = %d, want %d", c.d, got, c.want)
		}
	}
}

func TestPickerFunc(t *testing.T) {
	var p Picker = PickerFunc(func(d Difficulty) string { return string(d) + "!" })
	if got := p.Pick(Hard); got != "hard!" {
		t.Errorf("PickerFunc = %q", got)
	}
}
