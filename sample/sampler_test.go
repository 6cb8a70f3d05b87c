package sample

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/cznic/sortutil"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/combin"
	"gonum.org/v1/gonum/stat/distuv"
)

// scriptedSource replays a fixed stream of uniforms.
type scriptedSource struct {
	t      *testing.T
	values []float64
}

func (s *scriptedSource) Float64() float64 {
	if len(s.values) == 0 {
		s.t.Fatal("scripted source exhausted")
	}

	value := s.values[0]
	s.values = s.values[1:]
	return value
}

func script(t *testing.T, values ...float64) *scriptedSource {
	return &scriptedSource{t: t, values: values}
}

func requireValidSample(t *testing.T, values []int64, population, size int64) {
	t.Helper()

	require.Len(t, values, int(size), "N=%d n=%d", population, size)

	for idx, value := range values {
		require.True(t, value >= 0 && value < population,
			"value %d out of range [0, %d)", value, population)

		if idx > 0 {
			require.Less(t, values[idx-1], value, "sample not strictly increasing at %d", idx)
		}
	}

	unique := append([]int64(nil), values...)
	require.Equal(t, len(values), sortutil.Dedupe(sortutil.Int64Slice(unique)))
}

func TestSamplerProperties(t *testing.T) {
	src := NewSource(1)

	populations := []int64{1, 2, 3, 5, 10, 17, 100, 1000, 12345}
	for _, population := range populations {
		sizes := []int64{0, 1, 2, population / 3, population / 2, population - 1, population}
		for _, size := range sizes {
			if size < 0 || size > population {
				continue
			}

			t.Run(fmt.Sprintf("N=%d/n=%d", population, size), func(t *testing.T) {
				for rep := 0; rep < 20; rep++ {
					values, err := Sample(src, population, size)
					require.NoError(t, err)
					requireValidSample(t, values, population, size)
				}
			})
		}
	}
}

func TestSamplerLargePopulation(t *testing.T) {
	values, err := Sample(NewSource(2), 10*1000*1000, 5000)
	require.NoError(t, err)
	requireValidSample(t, values, 10*1000*1000, 5000)
}

func TestSamplerEmptySample(t *testing.T) {
	s, err := New(NewSource(1), 100, 0)
	require.NoError(t, err)

	require.False(t, s.HasMore())
	require.Equal(t, int64(0), s.Remaining())
	require.Equal(t, PhaseDone, s.Phase())
}

func TestSamplerEmptyPopulation(t *testing.T) {
	values, err := Sample(NewSource(1), 0, 0)
	require.NoError(t, err)
	require.Empty(t, values)
}

func TestSamplerFullSample(t *testing.T) {
	values, err := Sample(NewSource(1), 5, 5)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1, 2, 3, 4}, values)
}

func TestSamplerSingleton(t *testing.T) {
	values, err := Sample(NewSource(1), 1, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{0}, values)
}

func TestSamplerInvalidArgument(t *testing.T) {
	requests := []SampleRequest{
		{Population: 5, Size: 6},
		{Population: 0, Size: 1},
		{Population: -1, Size: 0},
		{Population: 10, Size: -1},
	}

	for _, request := range requests {
		s, err := New(NewSource(1), request.Population, request.Size)
		require.Nil(t, s)
		require.True(t, errors.Is(err, ErrInvalidArgument), "request %+v: %v", request, err)
	}
}

func TestSamplerInvalidArgumentCounted(t *testing.T) {
	before := metricsInvalid.Count()

	_, err := Sample(NewSource(1), 5, 6)
	require.Error(t, err)
	require.Equal(t, before+1, metricsInvalid.Count())
}

func TestSamplerDeterministicForSeed(t *testing.T) {
	first, err := Sample(NewSource(1234), 100000, 500)
	require.NoError(t, err)

	second, err := Sample(NewSource(1234), 100000, 500)
	require.NoError(t, err)

	require.Equal(t, first, second)

	third, err := Sample(NewSource(4321), 100000, 500)
	require.NoError(t, err)
	require.NotEqual(t, first, third)
}

func TestSamplerAcceptsMathRand(t *testing.T) {
	values, err := Sample(rand.New(rand.NewSource(5)), 50, 20)
	require.NoError(t, err)
	requireValidSample(t, values, 50, 20)
}

func TestSamplerScriptedHiddenShuffleThenLeftover(t *testing.T) {
	// setup: one rejection at i=0, then a skip beyond the range.
	// hidden shuffle: a=0.5 gives S=6, value 3.
	// leftover: u=0.7 skips one slot, value 9.
	src := script(t, 0.9, 0.5, 0.5, 0.5, 0.7)

	s, err := New(src, 10, 2)
	require.NoError(t, err)

	require.Equal(t, PhaseHiddenShuffle, s.Phase())
	require.Equal(t, int64(3), s.Next())

	// 9 is pending and came from the leftover phase.
	require.Equal(t, PhaseLeftover, s.Phase())
	require.True(t, s.HasMore())
	require.Equal(t, int64(9), s.Next())

	require.Equal(t, PhaseDone, s.Phase())
	require.False(t, s.HasMore())
	require.Empty(t, src.values)
}

func TestSamplerScriptedCollision(t *testing.T) {
	// setup skips the whole range, H=2.
	// first step a=0.6 gives S=6, value 3. second step a=0.54 gives S=6
	// again, which is deferred to the leftover phase and placed at 8.
	src := script(t, 0.1, 0.36, 0.9, 0.3)

	s, err := New(src, 10, 2)
	require.NoError(t, err)
	require.Equal(t, PhaseHiddenShuffle, s.Phase())
	require.Equal(t, int64(2), s.Remaining())

	require.Equal(t, int64(3), s.Peek())
	require.Equal(t, int64(3), s.Next())

	require.Equal(t, PhaseLeftover, s.Phase())
	require.Equal(t, int64(1), s.Remaining())
	require.Equal(t, int64(8), s.Next())

	require.Equal(t, PhaseDone, s.Phase())
	require.False(t, s.HasMore())
	require.Empty(t, src.values)
}

func TestSamplerPanicsWhenExhausted(t *testing.T) {
	s, err := New(NewSource(1), 3, 1)
	require.NoError(t, err)

	s.Next()
	require.Panics(t, func() { s.Next() })
	require.Panics(t, func() { s.Peek() })
}

func TestSamplerPartialConsumption(t *testing.T) {
	s, err := New(NewSource(9), 1000, 100)
	require.NoError(t, err)

	values := IteratorToList(nil, NewLimitIterator(10, s))
	require.Len(t, values, 10)
	require.Equal(t, int64(90), s.Remaining())

	// continuing later still yields a valid sample.
	values = IteratorToList(values, s)
	requireValidSample(t, values, 1000, 100)
}

func TestSamplerSkipUntil(t *testing.T) {
	s, err := New(NewSource(9), 1000, 100)
	require.NoError(t, err)

	IteratorSkipUntil(s, 500)
	for s.HasMore() {
		require.GreaterOrEqual(t, s.Next(), int64(500))
	}
}

func TestSamplerMaxSizeMatchesOutput(t *testing.T) {
	s, err := New(NewSource(3), 200, 40)
	require.NoError(t, err)
	require.Equal(t, 40, s.MaxSize())

	s.Next()
	require.Equal(t, 39, s.MaxSize())
}

func TestSamplerMetrics(t *testing.T) {
	created := metricsCreated.Count()
	emitted := metricsValues.Count()

	_, err := Sample(NewSource(1), 100, 10)
	require.NoError(t, err)

	require.Equal(t, created+1, metricsCreated.Count())
	require.Equal(t, emitted+10, metricsValues.Count())
}

func TestSamplerMetricsCountedOnceExhausted(t *testing.T) {
	emitted := metricsValues.Count()

	s, err := New(NewSource(1), 100, 10)
	require.NoError(t, err)

	for i := 0; i < 9; i++ {
		s.Next()
	}

	require.Equal(t, emitted, metricsValues.Count())

	s.Next()
	require.Equal(t, emitted+10, metricsValues.Count())
}

func TestSamplerPopulationLimit(t *testing.T) {
	values, err := Sample(NewSource(1), MaxPopulation, 3)
	require.NoError(t, err)
	requireValidSample(t, values, MaxPopulation, 3)

	for _, population := range []int64{MaxPopulation + 1, math.MaxInt64} {
		s, err := New(NewSource(1), population, 1)
		require.Nil(t, s)
		require.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestSamplerLargePopulationSpread(t *testing.T) {
	// near the limit the float scaling must still reach distinct values.
	seen := make(map[int64]bool)
	for seed := uint64(1); seed <= 200; seed++ {
		values, err := Sample(NewSource(seed), MaxPopulation, 1)
		require.NoError(t, err)
		requireValidSample(t, values, MaxPopulation, 1)
		seen[values[0]] = true
	}

	require.Greater(t, len(seen), 190)
}

func TestSamplerSubsetsUniform(t *testing.T) {
	const population, size = 10, 3
	const perSubset = 100

	subsets := combin.Binomial(population, size)
	trials := subsets * perSubset

	src := NewSource(42)
	counts := make([]int, subsets)

	comb := make([]int, size)
	for trial := 0; trial < trials; trial++ {
		values, err := Sample(src, population, size)
		require.NoError(t, err)

		for idx, value := range values {
			comb[idx] = int(value)
		}

		counts[combin.CombinationIndex(comb, population, size)]++
	}

	var chiSquare float64
	for _, count := range counts {
		diff := float64(count - perSubset)
		chiSquare += diff * diff / perSubset
	}

	dist := distuv.ChiSquared{K: float64(subsets - 1)}
	require.Greater(t, dist.Survival(chiSquare), 0.001,
		"chi-square statistic %.2f too large for %d subsets", chiSquare, subsets)
}

func TestSamplerPositionsUniform(t *testing.T) {
	// every position is part of the sample with probability n/N.
	const population, size = 50, 20
	const trials = 20000

	src := NewSource(77)
	counts := make([]int, population)

	for trial := 0; trial < trials; trial++ {
		s, err := New(src, population, size)
		require.NoError(t, err)

		for s.HasMore() {
			counts[s.Next()]++
		}
	}

	expected := float64(trials) * size / population
	for position, count := range counts {
		require.InDelta(t, expected, count, 0.05*expected, "position %d", position)
	}
}
