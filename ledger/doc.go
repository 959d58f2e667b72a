// SPDX-License-Identifier: MIT

// Package ledger keeps a SQLite history of surrogate builds.
//
// Every pipeline run is one row keyed by a random UUID: the headline numbers
// of its Summary plus the full key = value report, so past builds can be
// compared without keeping the surrogates themselves.
package ledger
