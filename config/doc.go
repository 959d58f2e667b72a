// SPDX-License-Identifier: MIT

// Package config loads the gwsur binary's settings from the environment
// (optionally seeded from a .env file) and initialises the process-wide
// logger and tracer provider from them.
//
// Library packages never read the environment; they take functional options
// or a pipeline.Config built here by Pipeline.
package config
