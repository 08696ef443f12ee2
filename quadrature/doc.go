// Package quadrature builds the fixed evaluation grids on which every
// geometric quantity of a curve or surface is sampled and integrated.
//
// The parameter domain is always the half-open unit interval [0,1):
// curves use a single axis θ, surfaces use the product grid φ×θ. All
// integrals downstream are periodic-trapezoid sums, i.e. plain means
// over the grid, which converge spectrally for smooth periodic
// integrands. The surface φ axis supports three range policies:
//
//   - Full        — φ covers the whole torus, spacing 1/nφ.
//   - FieldPeriod — φ covers one field period [0, 1/n_fp).
//   - HalfPeriod  — φ covers half a field period with the points
//     shifted by half the spacing, so the symmetry planes φ=0 and
//     φ=1/(2·n_fp) carry no sample. The shift keeps the periodic
//     trapezoid rule spectrally accurate on the reduced domain.
//
// Grids may be built from a point count or from an explicit sequence
// of points, never both: supplying both for the same axis is a
// configuration conflict. Explicit sequences must be strictly
// increasing within [0,1).
//
// A Grid2D is immutable after construction and is owned by exactly one
// surface. Accessors return copies.
//
// Errors: ErrCount, ErrNfp, ErrPoints, ErrConflict, ErrRange.
package quadrature
