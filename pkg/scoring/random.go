package scoring

import (
	"math/rand/v2"
	"time"
)

// RandomSource supplies the uniform draws a season needs.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// NewSeededSource returns a deterministic PCG source. A zero seed is
// replaced by the current time.
func NewSeededSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ScriptedSource replays fixed draws. It is meant for tests and replays;
// exhausted queues return 0.
type ScriptedSource struct {
	Floats []float64
	Ints   []int
}

// Float64 returns the next scripted float.
func (s *ScriptedSource) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

// IntN returns the next scripted int modulo n.
func (s *ScriptedSource) IntN(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	return v % n
}

// NoShock queues a draw that yields no shock.
func (s *ScriptedSource) NoShock() *ScriptedSource {
	s.Floats = append(s.Floats, 0.75)
	return s
}

// WithShock queues draws that yield the shock at index i.
func (s *ScriptedSource) WithShock(i int) *ScriptedSource {
	s.Floats = append(s.Floats, 0.1)
	s.Ints = append(s.Ints, i)
	return s
}
