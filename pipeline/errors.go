// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"
)

// ErrBadConfig indicates a Config field outside its domain.
var ErrBadConfig = errors.New("pipeline: invalid config")

// pipelineErrorf wraps err with the failing stage name.
func pipelineErrorf(stage string, err error) error {
	return fmt.Errorf("pipeline %s: %w", stage, err)
}
