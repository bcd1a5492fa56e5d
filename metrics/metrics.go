// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metrics exposes the chain's Prometheus instrumentation: the time
// spent computing block hashes, the number of blocks mined, and the number of
// transactions waiting to be mined.
package metrics

import (
	"net/http"
	"time"

	"github.com/chaind/chaind/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// DefaultApplication is the value of the application label when none
	// is configured.
	DefaultApplication = "chaind"

	namespace = "chain"
)

// hashBuckets covers single hash computations which take from about a
// microsecond up to a few milliseconds on a loaded machine.
var hashBuckets = prometheus.ExponentialBuckets(1e-6, 4, 10)

// Config is a descriptor containing the metrics configuration.
type Config struct {
	// Application is attached as a constant label to every chain metric.
	Application string

	// NoRuntimeMetrics disables the Go runtime and process collectors.
	NoRuntimeMetrics bool
}

// Metrics holds the chain collectors and the registry they are exposed
// through.  It implements blockhash.Observer and blockchain.Observer.
type Metrics struct {
	registry       *prometheus.Registry
	labels         prometheus.Labels
	hashDuration   prometheus.Histogram
	blocksComputed prometheus.Counter
}

// New returns a new set of chain metrics registered with a private registry.
func New(cfg *Config) (*Metrics, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.Application == "" {
		c.Application = DefaultApplication
	}
	labels := prometheus.Labels{"application": c.Application}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		labels:   labels,
		hashDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "hashes_seconds",
			Help:        "Time spent computing a single block hash.",
			ConstLabels: labels,
			Buckets:     hashBuckets,
		}),
		blocksComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "blocks_computed_total",
			Help:        "Number of blocks mined and appended to the chain.",
			ConstLabels: labels,
		}),
	}

	cs := []prometheus.Collector{m.hashDuration, m.blocksComputed}
	if !c.NoRuntimeMetrics {
		cs = append(cs, collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	for _, collector := range cs {
		if err := m.registry.Register(collector); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveHash records the duration of one hash computation.
//
// This function is safe for concurrent access.
func (m *Metrics) ObserveHash(elapsed time.Duration) {
	m.hashDuration.Observe(elapsed.Seconds())
}

// BlockConnected counts a newly appended block.
//
// This function is safe for concurrent access.
func (m *Metrics) BlockConnected(*wire.Block) {
	m.blocksComputed.Inc()
}

// TrackPendingTransactions registers a gauge reporting the value of count
// whenever the metrics are collected.  It may only be called once.
func (m *Metrics) TrackPendingTransactions(count func() int) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "transactions_pending",
		Help:        "Number of transactions waiting to be mined.",
		ConstLabels: m.labels,
	}, func() float64 {
		return float64(count())
	})
	return m.registry.Register(gauge)
}

// Gatherer returns the registry holding the chain metrics.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler returns an http.Handler serving the metrics in the Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
