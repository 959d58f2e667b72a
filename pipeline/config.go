// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/gwsur/align"
	"github.com/katalvlaran/gwsur/fit"
	"github.com/katalvlaran/gwsur/greedy"
	"github.com/katalvlaran/gwsur/metrics"
	"github.com/katalvlaran/gwsur/surrogate"
)

// Default values used by DefaultConfig.
const (
	DefaultName      = "gwsur"
	DefaultTolerance = 1e-12
)

// Config drives Build.
//
// Fields:
//   - Name: surrogate name stored in its metadata.
//   - Kind: waveform basis, or separate amplitude and phase bases.
//   - Align: time/phase/trim policy.
//   - Tolerance, MaxBasis: greedy stopping rule.
//   - Workers: greedy and validation pool size (0 = GOMAXPROCS).
//   - InnerProduct: "euclidean" or "riemann".
//   - Normalize: greedy selection on normalised waveforms.
//   - FitNorms: fit node values of normalised waveforms plus a norm polynomial.
//   - Selector, Map: degree selection and affine parameter map for the fits.
//   - RangePolicy: the surrogate's default out-of-range behaviour.
//   - AllowPartial: keep the partial basis when MaxBasis is reached.
//   - Logger: nil means slog.Default().
//   - Metrics: optional; nil disables metrics.
type Config struct {
	Name         string
	Kind         surrogate.Kind
	Align        align.Options
	Tolerance    float64
	MaxBasis     int
	Workers      int
	InnerProduct string
	Normalize    bool
	FitNorms     bool
	Selector     fit.DegreeSelector
	Map          fit.AffineMap
	RangePolicy  surrogate.RangePolicy
	AllowPartial bool
	Logger       *slog.Logger
	Metrics      *metrics.Collector
}

// DefaultConfig returns the settings used by the gwsur CLI.
func DefaultConfig() Config {
	return Config{
		Name:         DefaultName,
		Kind:         surrogate.WaveformBasis,
		Align:        align.DefaultOptions(),
		Tolerance:    DefaultTolerance,
		MaxBasis:     greedy.DefaultMaxBasis,
		InnerProduct: greedy.Euclidean{}.Name(),
		Normalize:    true,
		Selector:     fit.DefaultHoldOut,
		Map:          fit.MapMinus1To1,
		RangePolicy:  surrogate.Reject,
	}
}

// Validate reports the first field outside its domain.
func (c Config) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("empty name: %w", ErrBadConfig)
	case c.Kind != surrogate.WaveformBasis && c.Kind != surrogate.AmpPhaseBasis:
		return fmt.Errorf("kind %d: %w", int(c.Kind), ErrBadConfig)
	case c.FitNorms && c.Kind == surrogate.AmpPhaseBasis:
		return fmt.Errorf("norm fits need kind %s: %w", surrogate.WaveformBasis, ErrBadConfig)
	case !(c.Tolerance > 0) || math.IsInf(c.Tolerance, 0):
		return fmt.Errorf("tolerance %g: %w", c.Tolerance, ErrBadConfig)
	case c.MaxBasis < 1:
		return fmt.Errorf("max basis %d: %w", c.MaxBasis, ErrBadConfig)
	case c.Workers < 0:
		return fmt.Errorf("workers %d: %w", c.Workers, ErrBadConfig)
	case c.Selector == nil:
		return fmt.Errorf("nil selector: %w", ErrBadConfig)
	case c.RangePolicy != surrogate.Reject && c.RangePolicy != surrogate.Extrapolate:
		return fmt.Errorf("range policy %d: %w", int(c.RangePolicy), ErrBadConfig)
	}
	if _, err := fit.ParseAffineMap(c.Map.String()); err != nil {
		return fmt.Errorf("affine map %d: %w", int(c.Map), ErrBadConfig)
	}
	if err := c.Align.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrBadConfig, err)
	}
	if _, err := greedy.ProductByName(c.InnerProduct, 1); err != nil {
		return fmt.Errorf("%w: %w", ErrBadConfig, err)
	}

	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
