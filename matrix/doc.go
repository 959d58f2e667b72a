// Package matrix offers the small complex linear-algebra core used by the
// surrogate builder.
//
// The matrix package provides:
//
//   - CDense: a row-major complex128 matrix with bounds-checked At/Set.
//   - LU: Doolittle factorisation with partial pivoting, Solve and Inverse.
//     Singular systems surface as ErrSingular instead of Inf/NaN results.
//   - Mul/MulVec and conjugate-linear vector kernels (Dot, Norm, Axpy).
//
// Matrices here stay small (basis size × basis size for interpolation systems,
// grid length × basis size for operators), so clarity wins over blocking.
//
// See the examples in this package for usage patterns.
package matrix
