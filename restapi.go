package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cznic/mathutil"
	"github.com/gin-gonic/gin"
	"github.com/mopsalarm/go-seqsample/sample"
	"github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"
)

// maxResponseItems caps the number of values a single response carries.
const maxResponseItems = 1000 * 1000

// maxRequestSize caps the sample size of a request. Drawing a sample costs
// time linear in its size, even if limit or offset drop most values.
const maxRequestSize = 10 * 1000 * 1000

func restApi(httpListen string) error {
	return newRouter(newSource).Run(httpListen)
}

func newRouter(sourceFactory func(seed uint64) sample.Source) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), gin.LoggerWithWriter(logrus.StandardLogger().Writer()))

	r.GET("/sample", func(c *gin.Context) {
		start := time.Now()
		defer metricsRequestSample.UpdateSince(start)

		population, errPopulation := strconv.ParseInt(c.Query("population"), 10, 64)
		size, errSize := strconv.ParseInt(c.Query("size"), 10, 64)
		seed, errSeed := strconv.ParseUint(c.DefaultQuery("seed", "0"), 10, 64)
		limit, errLimit := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(maxResponseItems)))
		offset, errOffset := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)

		if errLimit == nil && limit < 0 {
			errLimit = errors.New("limit must not be negative")
		}

		if errSize == nil && size > maxRequestSize {
			errSize = fmt.Errorf("size %d exceeds maximum of %d", size, maxRequestSize)
		}

		if err := firstError(errPopulation, errSize, errSeed, errLimit, errOffset); err != nil {
			metricsRequestError.Inc(1)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		src := sourceFactory(seed)
		sampler, err := sample.New(src, population, size)
		if err != nil {
			metricsRequestError.Inc(1)

			status := http.StatusInternalServerError
			if errors.Is(err, sample.ErrInvalidArgument) {
				status = http.StatusBadRequest
			}

			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		// values below offset are drawn but not returned.
		var iter sample.ItemIterator = sampler
		if offset > 0 {
			iter = sample.NewOffsetIterator(offset, iter)
		}

		iter = sample.NewLimitIterator(mathutil.Min(limit, maxResponseItems), iter)
		if c.Query("random") == "true" {
			iter = sample.NewShuffledIterator(iter, src)
		}

		items := sample.IteratorToList(make([]int64, 0, iter.MaxSize()), iter)

		truncated := sampler.HasMore()
		if truncated {
			metricsTruncated.Inc(1)
		}

		c.JSON(http.StatusOK, gin.H{
			"items":     items,
			"truncated": truncated,
			"duration":  time.Since(start).String(),
		})
	})

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.DefaultRegistry.GetAll())
	})

	return r
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
