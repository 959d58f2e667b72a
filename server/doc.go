// SPDX-License-Identifier: MIT

// Package server exposes stored surrogates over HTTP.
//
// Routes:
//
//	GET /healthz
//	GET /surrogates
//	GET /surrogates/{name}
//	GET /surrogates/{name}/evaluate?q=&phi_ref=&mass=&dist=&f_low=&extrapolate=
//	GET /metrics
//
// Evaluate answers 422 for a parameter outside the training interval (unless
// extrapolate=true), 404 for an unknown surrogate and 400 for malformed
// query values. Every request is traced (W3C trace context is honoured),
// logged and counted.
package server
