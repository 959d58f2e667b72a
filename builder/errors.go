// SPDX-License-Identifier: MIT
// Package: gwsur/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Context is attached with %w via builderErrorf.
//   • Generators never panic; validation panics are confined to option
//     constructors (WithX...).

package builder

import (
	"errors"
	"fmt"
)

// ErrBadSize indicates a training set with fewer than one member, or a
// configuration producing fewer than two samples before the peak.
var ErrBadSize = errors.New("builder: invalid size/length")

// ErrBadParam indicates a mass ratio outside [1, ∞), a non-finite value, or an
// empty parameter interval (lo > hi).
var ErrBadParam = errors.New("builder: invalid mass ratio")

// Method name constants used as error prefixes.
const (
	MethodInspiral    = "BuildInspiral"
	MethodTrainingSet = "BuildTrainingSet"
)

// builderErrorf wraps err with the given method context: "<Method>: <err>".
func builderErrorf(method string, err error) error {
	return fmt.Errorf("%s: %w", method, err)
}
