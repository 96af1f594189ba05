// Package dice provides the injectable random source shared by the simulation.
package dice

import (
	"math/rand/v2"
	"time"
)

// Rand draws uniform integers in [0, n).
type Rand interface {
	IntN(n int) int
}

// New returns a PCG-backed source. A zero seed picks one from the clock.
func New(seed uint64) Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Between returns a uniform integer in [lo, hi].
func Between(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Chance reports true with probability percent/100.
func Chance(r Rand, percent int) bool {
	return r.IntN(100) < percent
}

// Sequence replays fixed values, each reduced modulo n. It wraps around when
// exhausted and yields zero when empty.
type Sequence struct {
	Values []int
	next   int
}

func Fixed(values ...int) *Sequence {
	return &Sequence{Values: values}
}

func (s *Sequence) IntN(n int) int {
	if len(s.Values) == 0 || n <= 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Drawn reports how many values have been consumed.
func (s *Sequence) Drawn() int {
	return s.next
}
