package game

import (
	"encoding/binary"
	"sync/atomic"

	"lukechampine.com/frand"
)

// Rand picks tie-breaks. *frand.RNG satisfies it.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a ChaCha RNG. Seed 0 draws from system entropy; any other
// seed gives a repeatable sequence.
func NewRand(seed int64) *frand.RNG {
	var key []byte
	if seed == 0 {
		key = frand.Bytes(32)
	} else {
		key = make([]byte, 32)
		binary.LittleEndian.PutUint64(key, uint64(seed))
	}
	return frand.NewCustom(key, 1024, 12)
}

// Seeder hands out one independent Rand per session. frand RNGs are not
// safe for concurrent use, so sessions never share one.
type Seeder struct {
	base int64
	n    atomic.Int64
}

// NewSeeder returns a Seeder. With base 0 every Rand is entropy-seeded;
// otherwise the i-th Rand is seeded with base+i.
func NewSeeder(base int64) *Seeder {
	return &Seeder{base: base}
}

// Next returns the Rand for a new session.
func (s *Seeder) Next() Rand {
	if s == nil || s.base == 0 {
		return NewRand(0)
	}
	return NewRand(s.base + s.n.Add(1))
}
