// SPDX-License-Identifier: MIT

// Package metrics exposes prometheus instrumentation for surrogate builds and
// evaluations.
//
// A Collector owns its own registry so several can coexist (tests, multiple
// servers in one process). Every method is safe on a nil *Collector, which
// lets library code take an optional collector without branching.
//
//	c := metrics.New("gwsur")
//	c.ObserveBuildStage("greedy", d)
//	http.Handle("/metrics", c.Handler())
package metrics
