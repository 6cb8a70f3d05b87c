package sample

import (
	"fmt"
	"math"
	"time"
)

type Phase int

const (
	// PhaseHiddenShuffle draws the largest remaining order statistics by
	// shrinking the scale factor a.
	PhaseHiddenShuffle Phase = iota

	// PhaseLeftover places the values deferred by setup rejections and
	// hidden shuffle collisions using classic sequential sampling.
	PhaseLeftover

	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseHiddenShuffle:
		return "hidden-shuffle"
	case PhaseLeftover:
		return "leftover"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// samplerState is created once per sample by computeSetupState and owned
// by exactly one Sampler afterwards.
//
// While in the leftover phase n is the exclusive upper bound of the
// still open suffix [N-n, N) measured from the top of the range.
type samplerState struct {
	N, n int64

	// H counts hidden shuffle steps, L counts leftover steps. Their sum is
	// the number of values not yet produced.
	H, L int64

	a float64

	phase Phase
}

func (st *samplerState) remaining() int64 {
	return st.H + st.L
}

// updatePhase moves to the next phase once the counter of the current
// phase is used up.
func (st *samplerState) updatePhase() {
	if st.phase == PhaseHiddenShuffle && st.H == 0 {
		st.phase = PhaseLeftover
	}

	if st.phase == PhaseLeftover && st.L == 0 {
		st.phase = PhaseDone
	}
}

// computeSetupState decides for each of the n slots whether it is produced
// by the hidden shuffle or deferred to the leftover phase. The request
// must already be validated.
func computeSetupState(src Source, N, n int64) *samplerState {
	start := time.Now()
	defer metricsSetup.UpdateSince(start)

	var H int64
	if N > n {
		H = n

		// positions that can never be reached by the setup pass.
		outside := float64(N - n)

		for i := int64(0); i < n; i++ {
			q := 1.0 - outside/float64(N-i)
			i += geometricSkip(src.Float64(), q, n-i)

			p := 1.0 - outside/math.Max(float64(N-i), 1.0)
			if i < n && src.Float64() < p/q {
				H--
			}
		}
	}

	st := &samplerState{N: N, n: n, H: H, L: n - H, a: 1.0}
	st.updatePhase()

	metricsLeftover.Inc(st.L)
	return st
}

// geometricSkip returns floor(log_{1-q}(u)), the number of failures before
// the next success with success probability q. Skips reaching past the
// limit slots still to visit are clamped to limit. This also covers u == 0
// (+Inf) and a q so small that 1-q rounds to one (-Inf or NaN).
func geometricSkip(u, q float64, limit int64) int64 {
	skip := math.Floor(math.Log(u) / math.Log(1.0-q))
	if math.IsNaN(skip) || skip < 0 || skip >= float64(limit) {
		return limit
	}

	return int64(skip)
}
