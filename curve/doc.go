// Package curve implements closed space curves parameterized by Fourier
// dof vectors, together with their differential geometry and the exact
// dof-derivatives of every quantity.
//
// Representations:
//
//   - XYZFourier — each Cartesian component is an independent truncated
//     Fourier series in the curve parameter. The general coil shape.
//   - RZFourier  — cylindrical coordinates (r, z) are Fourier series in
//     n_fp·m harmonics while the toroidal angle advances once per
//     parameter period. Natural for windings that link the torus.
//   - Rotated    — a fixed rotation (optionally composed with the
//     stellarator flip x→x, y→−y, z→−z) applied to another curve. It
//     shares the base curve's dofs, so symmetry copies stay coupled to
//     the parameters they were generated from.
//
// Every curve owns its quadrature points on [0,1) and a memo cache; all
// accessors evaluate on that grid. Γ and its parameter derivatives are
// [][3]float64 arrays, one row per quadrature point. Dof-derivatives
// (GammaJac, KappaJac, ...) are gonum matrices with one row per
// flattened evaluation entry and one column per dof of the full vector,
// in dof declaration order.
//
// Derived quantities follow the classical formulas
//
//	κ = |Γ'×Γ''| / |Γ'|³
//	τ = (Γ'×Γ'') · Γ''' / |Γ'×Γ''|²
//	T = Γ'/|Γ'|,  N = T'/|T'|,  B = T×N
//
// with their dof-derivatives assembled by chain rule from the
// representation Jacobians. No finite differencing is involved.
//
// Accessors return slices owned by the cache; callers must treat them
// as read-only. Mutating a dof through the store invalidates every
// cached quantity before the mutation call returns.
//
// Errors: ErrOrder, ErrNfp, ErrDegenerate, ErrNotRepresentable, plus
// the quadrature package sentinels for grid construction.
package curve
