/*
 Licensed to the Apache Software Foundation (ASF) under one
 or more contributor license agreements.  See the NOTICE file
 distributed with this work for additional information
 regarding copyright ownership.  The ASF licenses this file
 to you under the Apache License, Version 2.0 (the
 "License"); you may not use this file except in compliance
 with the License.  You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/log"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// AdvisorMetrics to declare advisor metrics
type AdvisorMetrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	validationItems *prometheus.CounterVec
	loaderFailures  prometheus.Counter
}

// InitAdvisorMetrics to initialize advisor metrics
func InitAdvisorMetrics() *AdvisorMetrics {
	a := &AdvisorMetrics{}

	a.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: AdvisorSubsystem,
			Name:      "requests_total",
			Help:      "Total number of advisor invocations by action. Result of the invocation is `success` or `failure`.",
		}, []string{"action", "result"})

	a.duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: AdvisorSubsystem,
			Name:      "request_duration_seconds",
			Help:      "Duration of an advisor invocation by action, in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 10, 6), // start from 0.1ms
		}, []string{"action"})

	a.validationItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: AdvisorSubsystem,
			Name:      "validation_items_total",
			Help:      "Total number of validation items reported. Level of the item is `WARN`, `ERROR` or `NOT_APPLICABLE`.",
		}, []string{"level"})

	a.loaderFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: AdvisorSubsystem,
			Name:      "loader_failures_total",
			Help:      "Total number of service advisors that could not be created.",
		})

	// Register the metrics
	var metricsList = []prometheus.Collector{
		a.requests,
		a.duration,
		a.validationItems,
		a.loaderFailures,
	}
	for _, metric := range metricsList {
		if err := prometheus.Register(metric); err != nil {
			log.Log(log.Metrics).Warn("failed to register metrics collector", zap.Error(err))
		}
	}
	return a
}

func (a *AdvisorMetrics) Reset() {
	a.requests.Reset()
	a.duration.Reset()
	a.validationItems.Reset()
}

func SinceInSeconds(start time.Time) float64 {
	return time.Since(start).Seconds()
}

// ObserveRequest records the outcome and duration of one invocation.
func (a *AdvisorMetrics) ObserveRequest(action string, start time.Time, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	a.requests.With(prometheus.Labels{"action": action, "result": result}).Inc()
	a.duration.With(prometheus.Labels{"action": action}).Observe(SinceInSeconds(start))
}

// AddValidationItems records the number of validation items at a level.
func (a *AdvisorMetrics) AddValidationItems(level string, count int) {
	if count <= 0 {
		return
	}
	a.validationItems.With(prometheus.Labels{"level": level}).Add(float64(count))
}

func (a *AdvisorMetrics) IncLoaderFailures() {
	a.loaderFailures.Inc()
}
