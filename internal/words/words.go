// internal/words/words.go
//
// Dictionary provider for the game engine.
//
// Responsibilities:
//   - Normalize raw input (trim, upper-case) and check word shape.
//   - Hold the full dictionary for membership checks (guess validation is
//     always against the full list, never the shrinking candidate set).
//   - Load word lists from txt/json/yaml/sqlite files, or fall back to the
//     embedded default list.
//
// Constraints:
//   • Words are exactly Length ASCII letters.
//   • Lists are normalized to upper-case and de-duplicated, first one wins.

package words

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/lhcxx/wordle/assets"
)

// Length is the fixed number of letters in every word.
const Length = 5

var (
	ErrInvalidLength     = errors.New("invalid guess length")
	ErrInvalidCharacters = errors.New("invalid guess characters")
	ErrUnknownWord       = errors.New("not in word list")
	ErrEmptyDictionary   = errors.New("words: dictionary is empty")
)

// Rand is the subset of an RNG the dictionary needs.
type Rand interface {
	Intn(n int) int
}

// Dictionary is an immutable set of upper-case words in load order.
type Dictionary struct {
	list []string
	set  map[string]struct{}
}

// Normalize trims surrounding whitespace and upper-cases s.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// CheckShape reports whether w has the fixed length and only A–Z letters.
func CheckShape(w string) error {
	if len([]rune(w)) != Length {
		return ErrInvalidLength
	}
	for _, r := range w {
		if r < 'A' || r > 'Z' {
			return ErrInvalidCharacters
		}
	}
	return nil
}

// New builds a dictionary from raw words. Entries that are not Length
// letters after normalization are dropped.
func New(raw []string) (*Dictionary, error) {
	list := lo.Uniq(lo.FilterMap(raw, func(w string, _ int) (string, bool) {
		w = Normalize(w)
		return w, CheckShape(w) == nil
	}))
	if len(list) == 0 {
		return nil, ErrEmptyDictionary
	}
	return &Dictionary{list: list, set: toSet(list)}, nil
}

// Default returns the embedded word list.
func Default() (*Dictionary, error) {
	raw, err := assets.DefaultWords()
	if err != nil {
		return nil, fmt.Errorf("read embedded words: %w", err)
	}
	return New(raw)
}

// LoadOrDefault loads path, falling back to the embedded list when path is
// empty or cannot be read.
func LoadOrDefault(path string) (*Dictionary, error) {
	if path != "" {
		d, err := Load(path)
		if err == nil {
			log.Info().Str("path", path).Int("words", d.Len()).Msg("loaded word list")
			return d, nil
		}
		log.Warn().Err(err).Str("path", path).Msg("word list unavailable, using built-in list")
	}
	return Default()
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// Contains reports whether w (already normalized) is in the dictionary.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[w]
	return ok
}

// Validate checks a normalized guess: shape first, then membership.
func (d *Dictionary) Validate(w string) error {
	if err := CheckShape(w); err != nil {
		return err
	}
	if !d.Contains(w) {
		return ErrUnknownWord
	}
	return nil
}

// Words returns a copy of the word list in load order.
func (d *Dictionary) Words() []string {
	return append([]string(nil), d.list...)
}

// Len returns the number of words.
func (d *Dictionary) Len() int { return len(d.list) }

// At returns the i-th word in load order.
func (d *Dictionary) At(i int) string { return d.list[i] }

// Random returns a uniformly chosen word.
func (d *Dictionary) Random(r Rand) string {
	return d.list[r.Intn(len(d.list))]
}
