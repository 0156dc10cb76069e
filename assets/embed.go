package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed easy.txt medium.txt hard.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// WordList returns the embedded list for a difficulty name ("easy", "medium", "hard").
func WordList(difficulty string) ([]string, error) {
	return readLines(difficulty + ".txt")
}
