package sample

import (
	"errors"
	"math"
)

// Sampler produces a uniform sample of distinct values from [0, N) in
// strictly increasing order using constant memory. It is not restartable
// and must not share its Source with another running sampler.
type Sampler struct {
	src   Source
	state *samplerState

	size int64

	// phase produced next, PhaseDone once exhausted.
	next  int64
	phase Phase
	more  bool
}

// New validates the request, runs the setup pass and returns a sampler
// positioned at the first value of the sample.
func New(src Source, population, size int64) (*Sampler, error) {
	request := SampleRequest{Population: population, Size: size}
	if err := request.Validate(); err != nil {
		metricsInvalid.Inc(1)
		return nil, err
	}

	s := &Sampler{
		src:   src,
		state: computeSetupState(src, population, size),
		size:  size,
		more:  true,
	}

	metricsCreated.Inc(1)

	s.advance()
	return s, nil
}

// Sample draws a complete sample into a slice.
func Sample(src Source, population, size int64) ([]int64, error) {
	s, err := New(src, population, size)
	if err != nil {
		return nil, err
	}

	return IteratorToList(nil, s), nil
}

func (s *Sampler) advance() {
	st := s.state

	for st.phase == PhaseHiddenShuffle {
		value, ok := st.hiddenShuffleStep(s.src)
		st.updatePhase()

		if ok {
			s.next = value
			s.phase = PhaseHiddenShuffle
			return
		}
	}

	if st.phase == PhaseLeftover {
		s.next = st.leftoverStep(s.src)
		s.phase = PhaseLeftover
		st.updatePhase()
		return
	}

	if s.more {
		metricsValues.Inc(s.size)
	}

	s.phase = PhaseDone
	s.more = false
}

func (s *Sampler) HasMore() bool {
	return s.more
}

func (s *Sampler) Peek() int64 {
	if !s.more {
		panic(errors.New("Peek() called on exhausted sampler."))
	}

	return s.next
}

func (s *Sampler) Next() int64 {
	if !s.more {
		panic(errors.New("Next() called on exhausted sampler."))
	}

	current := s.next
	s.advance()

	return current
}

func (s *Sampler) SkipUntil(val int64) {
	for s.more && s.next < val {
		s.Next()
	}
}

// Remaining returns the number of values the sampler will still produce.
func (s *Sampler) Remaining() int64 {
	remaining := s.state.remaining()
	if s.more {
		remaining++
	}

	return remaining
}

func (s *Sampler) MaxSize() int {
	return int(s.Remaining())
}

// Phase reports the phase that produced the value returned by Peek, or
// PhaseDone once the sampler is exhausted.
func (s *Sampler) Phase() Phase {
	return s.phase
}

// hiddenShuffleStep shrinks the scale factor like drawing the maximum of H
// uniforms. The step yields a value only if the implied position moved,
// otherwise the draw collided with an earlier one and is deferred to the
// leftover phase.
func (st *samplerState) hiddenShuffleStep(src Source) (int64, bool) {
	span := float64(st.N - st.n)

	previous := st.n + int64(st.a*span)
	st.a *= math.Pow(src.Float64(), 1.0/float64(st.H))
	current := st.n + int64(st.a*span)

	st.H--

	if current < previous {
		return (st.N - 1) - current, true
	}

	st.L++
	metricsLeftover.Inc(1)
	return 0, false
}

// leftoverStep places the smallest of the L values still to draw from the
// open suffix of n positions and shrinks the suffix behind it.
func (st *samplerState) leftoverStep(src Source) int64 {
	u := src.Float64()
	L := float64(st.L)

	var skip int64
	F := L / float64(st.n)
	for F < u && skip < st.n-st.L {
		F = 1.0 - (1.0-L/float64(st.n-skip-1))*(1.0-F)
		skip++
	}

	st.L--
	st.n -= skip + 1

	return (st.N - 1) - st.n
}
