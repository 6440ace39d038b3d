// Package render turns feedback patterns into text: ANSI-coloured letters
// for terminals and the "Result: HC PR MA ..." line of the wire protocol.
package render

import (
	"strings"

	"github.com/TwiN/go-color"

	"github.com/lhcxx/wordle/internal/game"
	"github.com/lhcxx/wordle/internal/words"
)

const wirePrefix = "Result: "

var statusLetter = map[game.Mark]byte{
	game.MarkHit:     'H',
	game.MarkPresent: 'P',
	game.MarkMiss:    'M',
}

var markColor = map[game.Mark]string{
	game.MarkHit:     color.Green,
	game.MarkPresent: color.Yellow,
	game.MarkMiss:    color.Gray,
}

// Colorize renders guess with one colour per mark, letters separated by spaces.
func Colorize(guess string, p game.Pattern) string {
	var sb strings.Builder
	for i := 0; i < len(guess) && i < words.Length; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(color.Ize(color.Bold, color.Ize(markColor[p[i]], string(guess[i]))))
	}
	return sb.String()
}

// Symbols renders a pattern as five status letters, e.g. "PHHMH".
func Symbols(p game.Pattern) string {
	b := make([]byte, len(p))
	for i, m := range p {
		b[i] = statusLetter[m]
	}
	return string(b)
}

// Wire renders the protocol result line: status letter then guess letter
// for each position, space separated.
func Wire(guess string, p game.Pattern) string {
	var sb strings.Builder
	sb.WriteString(wirePrefix)
	for i := 0; i < len(guess) && i < words.Length; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(statusLetter[p[i]])
		sb.WriteByte(guess[i])
	}
	return sb.String()
}

// ParseWire is the inverse of Wire. ok is false for any other line.
func ParseWire(line string) (guess string, p game.Pattern, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(line), wirePrefix)
	if !found {
		return "", p, false
	}
	fields := strings.Fields(rest)
	if len(fields) != words.Length {
		return "", p, false
	}
	g := make([]byte, words.Length)
	for i, f := range fields {
		if len(f) != 2 {
			return "", p, false
		}
		switch f[0] {
		case 'H':
			p[i] = game.MarkHit
		case 'P':
			p[i] = game.MarkPresent
		case 'M':
			p[i] = game.MarkMiss
		default:
			return "", p, false
		}
		g[i] = f[1]
	}
	return string(g), p, true
}
