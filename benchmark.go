package main

import (
	"fmt"
	"time"

	"github.com/cznic/sortutil"
	"github.com/mopsalarm/go-seqsample/sample"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mathext/prng"
	"gonum.org/v1/gonum/stat/sampleuv"
	"gopkg.in/cheggaaa/pb.v1"
)

type BenchmarkResult struct {
	Name     string
	Checksum int64
	Duration time.Duration
}

type benchmarkCase struct {
	name string

	// run draws one sample and feeds every value to consume.
	run func(consume func(value int64))
}

// RunBenchmarks draws reps samples with the sequential sampler and with
// gonum's shuffling sampler, once unsorted and once sorted afterwards.
// Every case sums rep+value over all values, so equal parameters give
// comparable checksums.
func RunBenchmarks(seed uint64, population, size int64, reps int) ([]BenchmarkResult, error) {
	if err := (sample.SampleRequest{Population: population, Size: size}).Validate(); err != nil {
		return nil, err
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var src sample.Source
	mt := prng.NewMT19937()

	idxs := make([]int, size)
	sorted := make([]int64, size)

	shuffled := func() {
		// sampleuv panics on empty requests.
		if size == 0 {
			return
		}

		sampleuv.WithoutReplacement(idxs, int(population), mt)
	}

	cases := []benchmarkCase{
		{
			name: "hiddenshuffle",
			run: func(consume func(value int64)) {
				sampler, err := sample.New(src, population, size)
				if err != nil {
					panic(err)
				}

				for sampler.HasMore() {
					consume(sampler.Next())
				}
			},
		},
		{
			name: "sampleuv",
			run: func(consume func(value int64)) {
				shuffled()
				for _, value := range idxs {
					consume(int64(value))
				}
			},
		},
		{
			name: "sampleuv-sorted",
			run: func(consume func(value int64)) {
				shuffled()
				for idx, value := range idxs {
					sorted[idx] = int64(value)
				}

				sortutil.Int64Slice(sorted).Sort()
				for _, value := range sorted {
					consume(value)
				}
			},
		},
	}

	bar := pb.StartNew(len(cases) * reps)
	bar.ShowFinalTime = true
	defer bar.Finish()

	var results []BenchmarkResult
	for _, bc := range cases {
		log.WithField("case", bc.name).Debug("Starting benchmark")

		// every case starts from the same random state.
		src = sample.NewSource(seed)
		mt.Seed(seed)

		var checksum int64
		start := time.Now()

		err := withRecovery(bc.name, func() {
			for rep := 1; rep <= reps; rep++ {
				offset := int64(rep)
				bc.run(func(value int64) {
					checksum += offset + value
				})

				bar.Increment()
			}
		})

		if err != nil {
			return nil, fmt.Errorf("benchmark %s: %w", bc.name, err)
		}

		results = append(results, BenchmarkResult{
			Name:     bc.name,
			Checksum: checksum,
			Duration: time.Since(start),
		})
	}

	return results, nil
}
