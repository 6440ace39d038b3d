package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckShape(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		word string
		err  error
	}{
		{"HELLO", nil},
		{"HELL", ErrInvalidLength},
		{"HELLOO", ErrInvalidLength},
		{"", ErrInvalidLength},
		{"HELL1", ErrInvalidCharacters},
		{"hello", ErrInvalidCharacters},
		{"HÉLLO", ErrInvalidCharacters},
	}
	for _, c := range cases {
		is.Equal(CheckShape(c.word), c.err)
	}
}

func TestNewNormalizesAndDedupes(t *testing.T) {
	d, err := New([]string{" crane", "CRANE", "slate ", "abc", "12345", "Trace"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CRANE", "SLATE", "TRACE"}, d.Words())
	assert.True(t, d.Contains("SLATE"))
	assert.False(t, d.Contains("slate"))
}

func TestNewEmpty(t *testing.T) {
	_, err := New([]string{"abc", ""})
	assert.ErrorIs(t, err, ErrEmptyDictionary)
}

func TestValidate(t *testing.T) {
	is := is.New(t)
	d, err := New([]string{"CRANE", "SLATE"})
	is.NoErr(err)
	is.NoErr(d.Validate("CRANE"))
	is.Equal(d.Validate("CRAN"), ErrInvalidLength)
	is.Equal(d.Validate("CR4NE"), ErrInvalidCharacters)
	is.Equal(d.Validate("TRACE"), ErrUnknownWord)
}

func TestDefault(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)
	assert.Greater(t, d.Len(), 100)
	assert.True(t, d.Contains("ABOUT"))
	for _, w := range d.Words() {
		assert.NoError(t, CheckShape(w), w)
	}
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"words.txt":   "# comment\ncrane\n\nslate\n",
		"words.json":  `{"Words": ["crane", "slate"]}`,
		"words.yaml":  "words:\n  - crane\n  - slate\n",
		"legacy.json": `{"words": ["CRANE", "SLATE", "toolong"]}`,
	}
	for name, body := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		d, err := Load(p)
		require.NoError(t, err, name)
		assert.Equal(t, []string{"CRANE", "SLATE"}, d.Words(), name)
	}
}

func TestSaveRoundTripSQLite(t *testing.T) {
	d, err := New([]string{"CRANE", "SLATE", "TRACE"})
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "sub", "words.db")
	require.NoError(t, Save(p, d))
	// Saving again replaces rather than appends.
	require.NoError(t, Save(p, d))

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, d.Words(), got.Words())
}

func TestSaveTextAndYAML(t *testing.T) {
	d, err := New([]string{"CRANE", "SLATE"})
	require.NoError(t, err)
	for _, name := range []string{"out.txt", "out.yml", "out.json"} {
		p := filepath.Join(t.TempDir(), name)
		require.NoError(t, Save(p, d), name)
		got, err := Load(p)
		require.NoError(t, err, name)
		assert.Equal(t, d.Words(), got.Words(), name)
	}
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	d, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.txt"))
	require.NoError(t, err)
	assert.True(t, d.Contains("ABOUT"))
}

type fixedRand int

func (f fixedRand) Intn(n int) int { return int(f) % n }

func TestRandom(t *testing.T) {
	is := is.New(t)
	d, err := New([]string{"CRANE", "SLATE", "TRACE"})
	is.NoErr(err)
	is.Equal(d.Random(fixedRand(1)), "SLATE")
	is.Equal(d.At(2), "TRACE")
}
