// Package stelgeo is your differentiable playground for stellarator
// geometry — coils, plasma boundaries, and the penalty functions that
// shape them, with analytic gradients end to end.
//
// 🚀 What is stelgeo?
//
//	A pure-Go library for the geometric half of stellarator design:
//		• Dof stores: named, fixable degrees of freedom with change epochs
//		• Curves: Fourier coil filaments in Cartesian and R/Z form,
//		  rotated/flipped symmetry images sharing their base dofs
//		• Surfaces: canonical R/Z Fourier boundaries plus the Garabedian,
//		  Henneberg and Cartesian-tensor representations, with exact
//		  conversions between them
//		• Quantities: length, curvature, torsion, area, volume, normals —
//		  each with its Jacobian with respect to the dofs
//		• Objectives: penalty terms (length, curvature, clearance, flux)
//		  composable by weighting and summation, gradients assembled by
//		  vector-Jacobian products
//		• Coils: currents as optimizable scalars, field-period and
//		  stellarator-symmetry expansion of a few base shapes into the
//		  full machine
//		• Export: VTK polylines/grids and projected PNG figures
//
// ✨ Why choose stelgeo?
//
//   - Gradients everywhere – every scalar quantity ships its exact
//     derivative, ready for descent loops and Taylor tests
//   - Cache-aware – geometry is memoized per epoch; touch one dof and
//     only the dependents recompute
//   - Explicit errors – degenerate geometry surfaces as sentinel errors,
//     never as NaN-filled arrays
//   - Pure Go – no cgo, no Python bridge, plain data in, plain data out
//
// Everything is organized under focused subpackages:
//
//	quadrature/ — uniform periodic grids and the φ-range policies
//	dofs/       — named dof stores: fix/unfix, bulk access, change hooks
//	cache/      — epoch-tracked memoization for derived quantities
//	curve/      — closed space curves and their derivatives/Jacobians
//	surface/    — toroidal boundary representations and conversions
//	objective/  — differentiable penalties and their compositions
//	coil/       — currents, coil pairing, symmetry expansion
//	render/     — orthographic projections drawn via gonum/plot
//	vtk/        — legacy-ASCII VTK writers for ParaView
//
// The root package carries the two types that tie them together:
// Parametrized, the contract of anything owning dofs, and Deriv, a
// gradient accumulator keyed by dof store.
//
// Quick sketch of the data flow:
//
//	dofs ──▶ curve/surface geometry ──▶ objective J, DJ
//	  ▲                                        │
//	  └───────── descent step ◀────────────────┘
//
// Dive into examples/ for a complete stage-two coil optimization and a
// tour of the surface representations.
//
//	go get github.com/katalvlaran/stelgeo
package stelgeo
