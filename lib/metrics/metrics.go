/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "duui"
	subsystem = "ner"
)

// Metrics groups the collectors of one annotator instance. A nil *Metrics is valid
// and records nothing, which keeps the pipeline usable without a registry.
type Metrics struct {
	registry *prometheus.Registry

	requests          *prometheus.CounterVec
	sentences         prometheus.Counter
	batches           prometheus.Counter
	entities          prometheus.Counter
	inferenceDuration prometheus.Histogram
	lockWait          prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "process_requests_total",
				Help:      "The total number of process requests by response status.",
			},
			[]string{"status"},
		),
		sentences: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sentences_total",
			Help:      "The total number of sentences sent to the model.",
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batches_total",
			Help:      "The total number of model calls.",
		}),
		entities: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "entities_total",
			Help:      "The total number of entities returned to callers.",
		}),
		inferenceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inference_duration_seconds",
			Help:      "Time the model was held for one request.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		lockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "model_wait_duration_seconds",
			Help:      "Time a request waited for access to the model.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.sentences,
		m.batches,
		m.entities,
		m.inferenceDuration,
		m.lockWait,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordRequest(status string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordSentences(n int) {
	if m == nil {
		return
	}
	m.sentences.Add(float64(n))
}

func (m *Metrics) RecordBatch() {
	if m == nil {
		return
	}
	m.batches.Inc()
}

func (m *Metrics) RecordEntities(n int) {
	if m == nil {
		return
	}
	m.entities.Add(float64(n))
}

func (m *Metrics) ObserveInference(seconds float64) {
	if m == nil {
		return
	}
	m.inferenceDuration.Observe(seconds)
}

func (m *Metrics) ObserveWait(seconds float64) {
	if m == nil {
		return
	}
	m.lockWait.Observe(seconds)
}
