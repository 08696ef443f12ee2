// Package surface implements closed toroidal surfaces parameterized by
// Fourier dof vectors, their first-order differential geometry, and the
// exact dof-derivatives of every quantity.
//
// Representations:
//
//   - RZFourier       — the canonical basis. Cylindrical R and Z are
//     double Fourier series in the angle 2π(mθ − n_fp·n·φ); the
//     toroidal angle of a point equals 2πφ. Matches the coefficient
//     layout of equilibrium codes.
//   - XYZTensorFourier — each Cartesian component in a frame co-rotating
//     with φ is a tensor product of 1-D Fourier bases in φ and θ. The
//     most general shape; can leave the cylindrical-angle alignment.
//   - Garabedian      — a single coefficient family Δ(m,n) encoding R
//     and Z jointly. Always stellarator symmetric; in bijection with
//     the symmetric RZFourier coefficients.
//   - Henneberg       — the compact representation of Henneberg and
//     Helander, built from an axis profile R0H(φ), a width profile
//     b(φ) and shape modes ρ(m,n) in a cross-section frame that
//     rotates by α = alphaFac·n_fp/2 per toroidal turn.
//
// A surface owns a 2-D quadrature grid (φ × θ, both in [0,1)) and a
// memo cache. The φ axis follows one of three range policies: the full
// torus, one field period, or a half period shifted off the symmetry
// planes. Positions and parameter partials are [][][3]float64 arrays
// indexed [φ][θ]; dof-derivatives are gonum matrices with one row per
// flattened entry and one column per dof.
//
// The area element comes from the unnormalized normal
//
//	n = ∂Γ/∂φ × ∂Γ/∂θ
//
// and the scalar reductions use the periodic trapezoid rule, so Area
// and Volume report full-torus values on every range policy.
//
// Conversions move dof sets between bases through the canonical
// RZFourier form. They are exact or they fail: a source whose shape
// leaves the span of the target basis surfaces as ErrNotRepresentable
// rather than being truncated.
//
// Errors: ErrMpol, ErrNtor, ErrNfp, ErrAlphaFac, ErrRangeStellsym,
// ErrStellsym, ErrDegenerate, ErrNotRepresentable, plus the quadrature
// package sentinels for grid construction.
package surface
