package main

import "github.com/rcrowley/go-metrics"

var metricsRequestSample = metrics.GetOrRegisterTimer("seqsample.http.sample", nil)
var metricsRequestError = metrics.GetOrRegisterCounter("seqsample.http.error", nil)
var metricsTruncated = metrics.GetOrRegisterCounter("seqsample.http.truncated", nil)
