package world

import "math/rand"

// DrawCategory labels every random draw so two engine backends can prove
// they consumed randomness the same number of times per category, via the
// rngDigest, independent of the values drawn.
type DrawCategory int

const (
	CatMovement DrawCategory = iota
	CatDisease
	CatBirths
	CatMutation
	CatLLM

	// Resource-field draws are deliberately uncounted: the counter set is
	// fixed at five named categories for wire compatibility.
	CatEnvironment
)

// Stream is the single sequential RNG owned by the World. Every subroutine
// that needs randomness draws from it in a fixed order; reordering draws
// changes the simulation outcome.
type Stream struct {
	r        *rand.Rand
	counters map[string]uint64
}

func NewStream(seed int64) *Stream {
	return &Stream{
		r: rand.New(rand.NewSource(seed)),
		counters: map[string]uint64{
			"movement": 0,
			"disease":  0,
			"births":   0,
			"mutation": 0,
			"llm":      0,
		},
	}
}

func (s *Stream) note(cat DrawCategory) {
	switch cat {
	case CatMovement:
		s.counters["movement"]++
	case CatDisease:
		s.counters["disease"]++
	case CatBirths:
		s.counters["births"]++
	case CatMutation:
		s.counters["mutation"]++
	case CatLLM:
		s.counters["llm"]++
	}
}

// Note records category activity without consuming the stream. Used when an
// external decision replaces draws the heuristic path would have made.
func (s *Stream) Note(cat DrawCategory) { s.note(cat) }

// Float64 draws from [0,1).
func (s *Stream) Float64(cat DrawCategory) float64 {
	s.note(cat)
	return s.r.Float64()
}

// Uniform draws from [min,max).
func (s *Stream) Uniform(cat DrawCategory, min, max float64) float64 {
	s.note(cat)
	return min + s.r.Float64()*(max-min)
}

// Counters returns a copy of the per-category draw counts.
func (s *Stream) Counters() map[string]uint64 {
	out := make(map[string]uint64, len(s.counters))
	for k, v := range s.counters {
		out[k] = v
	}
	return out
}
