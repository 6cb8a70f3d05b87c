package sample

import "github.com/rcrowley/go-metrics"

var metricsSetup = metrics.GetOrRegisterTimer("sample.setup", nil)
var metricsCreated = metrics.GetOrRegisterCounter("sample.created", nil)
// values of samples drawn to the end
var metricsValues = metrics.GetOrRegisterCounter("sample.values", nil)
var metricsLeftover = metrics.GetOrRegisterCounter("sample.leftover", nil)
var metricsInvalid = metrics.GetOrRegisterCounter("sample.invalid", nil)
