// SPDX-License-Identifier: MIT

// Package pipeline runs the full surrogate construction:
//
//	align → greedy → eim → fit → assemble → validate
//
// Each stage is traced as one OpenTelemetry span, timed, logged through slog
// and optionally reported to a metrics.Collector. Validation evaluates the
// finished surrogate at every training parameter in parallel and attaches the
// largest relative L2 error as the surrogate's training error bound.
//
// The returned Summary carries the build diagnostics and renders them as a
// plain key = value report with WriteReport.
package pipeline
