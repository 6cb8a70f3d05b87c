package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/mopsalarm/go-seqsample/sample"
	"github.com/rcrowley/go-metrics"
	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
)

func newSource(seed uint64) sample.Source {
	if seed == 0 {
		return sample.NewTimeSource()
	}

	return sample.NewSource(seed)
}

// writeSample writes one value per line.
func writeSample(writer io.Writer, src sample.Source, population, size int64, random bool) error {
	sampler, err := sample.New(src, population, size)
	if err != nil {
		return err
	}

	var iter sample.ItemIterator = sampler
	if random {
		iter = sample.NewShuffledIterator(iter, src)
	}

	buffered := bufio.NewWriterSize(writer, 16*1024)
	for iter.HasMore() {
		if _, err := fmt.Fprintln(buffered, iter.Next()); err != nil {
			return err
		}
	}

	return buffered.Flush()
}

func main() {
	var opts struct {
		Population      int64  `long:"population" default:"1000" description:"Size of the population to sample indices from."`
		Size            int64  `long:"size" default:"10" description:"Number of distinct indices to draw."`
		Seed            uint64 `long:"seed" default:"0" description:"Seed of the random source, 0 seeds from the clock."`
		Random          bool   `long:"random" description:"Print the sample in random instead of ascending order."`
		Benchmark       bool   `long:"benchmark" description:"Compare the sequential sampler with a shuffling sampler."`
		Reps            int    `long:"reps" default:"10" description:"Number of repetitions per benchmark."`
		HttpListen      string `long:"http-listen" description:"Listen address for the rest api http server."`
		MetricsInterval string `long:"metrics-interval" default:"@every 1m" description:"Cron spec for writing metrics to the log."`
		Verbose         bool   `long:"verbose" description:"Enable debug logging."`
	}

	_, err := flags.Parse(&opts)
	if err != nil {
		os.Exit(1)
	}

	if opts.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	log.WithField("population", opts.Population).
		WithField("size", opts.Size).
		Debug("Options parsed")

	switch {
	case opts.Benchmark:
		log.Info("Running benchmarks.")
		results, err := RunBenchmarks(opts.Seed, opts.Population, opts.Size, opts.Reps)
		if err != nil {
			log.WithError(err).Fatal("Benchmark failed")
		}

		for _, result := range results {
			log.WithField("checksum", result.Checksum).
				WithField("duration", result.Duration).
				Infof("%s took %s for %d samples of %d values in [0, %d)",
					result.Name, result.Duration, opts.Reps, opts.Size, opts.Population)
		}

	case opts.HttpListen != "":
		cr := cron.New()

		err := cr.AddFunc(opts.MetricsInterval, func() {
			err := withRecovery("metrics", func() {
				metrics.WriteOnce(metrics.DefaultRegistry, log.StandardLogger().Writer())
			})

			if err != nil {
				log.WithError(err).Warn("Could not write metrics")
			}
		})

		if err != nil {
			log.WithError(err).Fatal("Invalid metrics interval")
		}

		cr.Start()
		defer cr.Stop()

		log.WithField("listen", opts.HttpListen).Info("Starting rest api")
		if err := restApi(opts.HttpListen); err != nil {
			log.WithError(err).Fatal("Rest api stopped")
		}

	default:
		src := newSource(opts.Seed)
		if err := writeSample(os.Stdout, src, opts.Population, opts.Size, opts.Random); err != nil {
			log.WithError(err).Fatal("Could not generate sample")
		}
	}
}

func withRecovery(name string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("Caught an error in function '%s': %s", name, r)
		}
	}()

	fn()
	return nil
}
