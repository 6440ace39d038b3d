// Package assets carries the built-in word list.
package assets

import (
	"bufio"
	_ "embed"
	"strings"
)

//go:embed words.txt
var wordsTxt string

// DefaultWords returns the built-in word list, upper-cased. Blank lines and
// "#" comments are skipped.
func DefaultWords() ([]string, error) {
	list := make([]string, 0, 600)
	sc := bufio.NewScanner(strings.NewReader(wordsTxt))
	for sc.Scan() {
		w, _, _ := strings.Cut(sc.Text(), "#")
		if w = strings.TrimSpace(w); w != "" {
			list = append(list, strings.ToUpper(w))
		}
	}
	return list, sc.Err()
}
