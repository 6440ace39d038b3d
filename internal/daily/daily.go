// Package daily derives a deterministic secret word from the calendar date,
// so every player of the daily game gets the same word.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/lhcxx/wordle/internal/words"
)

const dateLayout = "2006-01-02"

// DateKey returns the UTC calendar day of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// WordIndex maps the day of date to [0, n): the first 8 bytes of
// HMAC-SHA256(salt, DateKey(date)), big-endian, modulo n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(DateKey(date)))
	var sum [sha256.Size]byte
	mac.Sum(sum[:0])
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
}

// Answer returns the word of the day from dict.
func Answer(dict *words.Dictionary, date time.Time, salt string) string {
	return dict.At(WordIndex(date, salt, dict.Len()))
}
