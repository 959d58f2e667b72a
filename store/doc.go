// SPDX-License-Identifier: MIT

// Package store persists surrogates by name in a Badger key/value database.
//
// Values are the surrogate's gob encoding (Surrogate.MarshalBinary); the
// database is opened with ZSTD compression and keeps a single version per
// key, so Put on an existing name replaces it.
package store
