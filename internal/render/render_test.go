package render

import (
	"strings"
	"testing"

	"github.com/TwiN/go-color"
	"github.com/matryer/is"

	"github.com/lhcxx/wordle/internal/game"
)

func TestWire(t *testing.T) {
	is := is.New(t)
	p := game.Evaluate("CRANE", "TRACE")
	line := Wire("CRANE", p)
	is.Equal(line, "Result: PC HR HA MN HE")
	is.Equal(Symbols(p), "PHHMH")

	guess, back, ok := ParseWire(line)
	is.True(ok)
	is.Equal(guess, "CRANE")
	is.Equal(back, p)
}

func TestParseWireRejects(t *testing.T) {
	is := is.New(t)
	for _, line := range []string{
		"Round 1/6",
		"Result: PC HR HA MN",
		"Result: XC HR HA MN HE",
		"Result: PCC HR HA MN HE",
	} {
		_, _, ok := ParseWire(line)
		is.True(!ok) // line should not parse
	}
}

func TestColorize(t *testing.T) {
	is := is.New(t)
	p := game.Evaluate("CRANE", "TRACE")

	color.Toggle(true)
	out := Colorize("CRANE", p)
	is.True(strings.Contains(out, color.Green))
	is.True(strings.Contains(out, color.Yellow))
	is.True(strings.Contains(out, color.Gray))

	color.Toggle(false)
	defer color.Toggle(true)
	is.Equal(Colorize("CRANE", p), "C R A N E")
}
