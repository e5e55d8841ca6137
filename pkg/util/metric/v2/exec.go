// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v2

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SortMergeRowsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "colflow",
			Subsystem: "sort_merge",
			Name:      "rows_total",
			Help:      "Total number of rows emitted by sort merge operators.",
		})

	SortMergeBatchesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "colflow",
			Subsystem: "sort_merge",
			Name:      "batches_total",
			Help:      "Total number of batches handled by sort merge operators.",
		}, []string{"type"})
	SortMergeInputBatchesCounter  = SortMergeBatchesCounter.WithLabelValues("input")
	SortMergeOutputBatchesCounter = SortMergeBatchesCounter.WithLabelValues("output")

	SortMergeMaterializeDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "colflow",
			Subsystem: "sort_merge",
			Name:      "materialize_duration_seconds",
			Help:      "Bucketed histogram of the time spent draining and sorting the input of a sort merge.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2.0, 20),
		})
)

var (
	ExchangeSendCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "colflow",
			Subsystem: "exchange",
			Name:      "send_total",
			Help:      "Total number of batches delivered to exchange receivers.",
		}, []string{"mode"})

	ExchangeReceiverGoneCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "colflow",
			Subsystem: "exchange",
			Name:      "receiver_gone_total",
			Help:      "Total number of sends that found a closed receiver.",
		}, []string{"mode"})
)

func initSortMergeMetrics() {
	registry.MustRegister(SortMergeRowsCounter)
	registry.MustRegister(SortMergeBatchesCounter)
	registry.MustRegister(SortMergeMaterializeDurationHistogram)
}

func initExchangeMetrics() {
	registry.MustRegister(ExchangeSendCounter)
	registry.MustRegister(ExchangeReceiverGoneCounter)
}
