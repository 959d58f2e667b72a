// SPDX-License-Identifier: MIT
// Package greedy: functional options.
//
// Option constructors panic on meaningless values; Build validates the
// tolerance and the cap at run time, since those usually come from
// configuration.

package greedy

import (
	"fmt"
	"runtime"
)

// DefaultMaxBasis bounds the basis size when WithMaxBasis is not given.
const DefaultMaxBasis = 100

// Option customizes Build.
type Option func(*config)

type config struct {
	maxBasis  int
	seed      int
	workers   int
	product   InnerProduct
	normalize bool
}

func newConfig(opts ...Option) config {
	cfg := config{
		maxBasis:  DefaultMaxBasis,
		seed:      0,
		workers:   runtime.GOMAXPROCS(0),
		product:   Euclidean{},
		normalize: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithMaxBasis caps the number of basis elements. Values below one are
// reported by Build as ErrBadCap.
func WithMaxBasis(n int) Option {
	return func(c *config) {
		c.maxBasis = n
	}
}

// WithSeedIndex selects the training waveform that seeds the basis.
// Panics on a negative index.
func WithSeedIndex(i int) Option {
	if i < 0 {
		panic(fmt.Sprintf("greedy: WithSeedIndex(%d)", i))
	}
	return func(c *config) {
		c.seed = i
	}
}

// WithWorkers bounds the residual-update worker pool. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("greedy: WithWorkers(%d)", n))
	}
	return func(c *config) {
		c.workers = n
	}
}

// WithInnerProduct replaces the default Euclidean product. Panics on nil.
func WithInnerProduct(ip InnerProduct) Option {
	if ip == nil {
		panic("greedy: WithInnerProduct(nil)")
	}
	return func(c *config) {
		c.product = ip
	}
}

// WithNormalize toggles normalisation of training waveforms before the
// residuals are computed (on by default).
func WithNormalize(on bool) Option {
	return func(c *config) {
		c.normalize = on
	}
}
