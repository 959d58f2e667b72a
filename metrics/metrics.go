// SPDX-License-Identifier: MIT

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for evaluation counters.
const (
	OutcomeOK         = "ok"
	OutcomeOutOfRange = "out_of_range"
	OutcomeError      = "error"
)

// Collector groups the gwsur metrics on a private registry.
type Collector struct {
	reg *prometheus.Registry

	buildStage  *prometheus.HistogramVec
	evalStage   *prometheus.HistogramVec
	evaluations *prometheus.CounterVec
	builds      *prometheus.CounterVec
	requests    *prometheus.CounterVec
	basisSize   prometheus.Gauge
	residual    prometheus.Gauge
	trainErr    prometheus.Gauge
}

// New registers every metric under namespace on a fresh registry.
func New(namespace string) *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		buildStage: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_stage_seconds",
			Help:      "Duration of each surrogate build stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		evalStage: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluate_stage_seconds",
			Help:      "Duration of each evaluation stage (fit, assemble, total).",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"stage"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Surrogate evaluations by surrogate name and outcome.",
		}, []string{"surrogate", "outcome"}),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Surrogate builds by outcome.",
		}, []string{"outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by status code and method.",
		}, []string{"code", "method"}),
		basisSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "basis_size",
			Help:      "Reduced basis size of the last build.",
		}),
		residual: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "greedy_residual",
			Help:      "Final greedy residual of the last build.",
		}),
		trainErr: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "training_error",
			Help:      "Maximum relative L2 training error of the last build.",
		}),
	}
	c.reg.MustRegister(c.buildStage, c.evalStage, c.evaluations, c.builds, c.requests,
		c.basisSize, c.residual, c.trainErr)

	return c
}

// Registry exposes the underlying registry (for tests and extra collectors).
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.reg
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{Registry: c.reg})
}

// ObserveBuildStage records one build stage duration.
func (c *Collector) ObserveBuildStage(stage string, d time.Duration) {
	if c == nil {
		return
	}
	c.buildStage.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordBuild counts a finished build and, on success, updates the gauges.
func (c *Collector) RecordBuild(err error, basisSize int, residual, trainingError float64) {
	if c == nil {
		return
	}
	if err != nil {
		c.builds.WithLabelValues(OutcomeError).Inc()
		return
	}
	c.builds.WithLabelValues(OutcomeOK).Inc()
	c.basisSize.Set(float64(basisSize))
	c.residual.Set(residual)
	c.trainErr.Set(trainingError)
}

// ObserveEvaluation records the stage timings of one successful evaluation.
func (c *Collector) ObserveEvaluation(name string, fit, assemble, total time.Duration) {
	if c == nil {
		return
	}
	c.evalStage.WithLabelValues("fit").Observe(fit.Seconds())
	c.evalStage.WithLabelValues("assemble").Observe(assemble.Seconds())
	c.evalStage.WithLabelValues("total").Observe(total.Seconds())
	c.evaluations.WithLabelValues(name, OutcomeOK).Inc()
}

// CountEvaluation counts an evaluation that produced no timings.
func (c *Collector) CountEvaluation(name, outcome string) {
	if c == nil {
		return
	}
	c.evaluations.WithLabelValues(name, outcome).Inc()
}

// RecordRequest counts one served HTTP request.
func (c *Collector) RecordRequest(code int, method string) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(strconv.Itoa(code), method).Inc()
}
