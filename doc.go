// Package gwsur builds fast surrogate models of gravitational-wave signals
// from a family of precomputed waveforms h(t; q), and evaluates them at any
// mass ratio q in the training interval.
//
// Construction runs in five stages, each in its own package:
//
//	align/     - put every peak at t = 0, fix the phase convention, cut to one grid
//	greedy/    - reduced basis by greedy selection with iterated Gram-Schmidt
//	eim/       - empirical interpolation nodes and the operator B = E·V⁻¹
//	fit/       - amplitude / phase polynomials in q at every node
//	surrogate/ - h(t; q) = B · (A_j(q) e^{iφ_j(q)}), diagnostics, gob/JSON codec
//
// pipeline/ chains the stages, validates the result against the training
// set and reports a Summary. Supporting packages:
//
//	waveform/  - sampled complex strain, grids, training sets
//	builder/   - deterministic synthetic inspiral–merger–ringdown family
//	matrix/    - complex dense matrices, LU, vector kernels
//	metrics/   - prometheus collectors
//	store/     - badger-backed surrogate store
//	ledger/    - SQLite build history
//	server/    - HTTP evaluation API (gorilla/mux)
//	config/    - environment configuration, logging and tracing setup
//	cmd/gwsur  - command-line front end
//
// Quick start:
//
//	raw, _ := builder.BuildTrainingSet(1, 2, 201, 1)
//	sur, sum, err := pipeline.Build(ctx, raw, pipeline.DefaultConfig())
//	res, err := sur.Evaluate(1.37)
//	hp, hc := res.Polarizations()
//
//	go get github.com/katalvlaran/gwsur
package gwsur
