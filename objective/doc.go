// Package objective implements scalar functionals of curves, surfaces
// and field sources, each with its exact gradient with respect to the
// dofs of every object it references.
//
// An Objective exposes J and DJ. J is the value; DJ is a stelgeo.Deriv
// accumulating full-dof gradients keyed by dof store, so contributions
// from several views of the same parameters (a base coil and its
// symmetry copies) sum where they belong. The package-level Gradient
// restricts DJ to the free dofs of chosen objects, which is the vector
// an outer optimizer consumes.
//
// Functionals:
//
//   - CurveLength, LpCurveCurvature, LpCurveTorsion — regularizers of a
//     single curve.
//   - CurveCurveDistance, CurveSurfaceDistance — soft clearance
//     constraints with hinge-squared penalties; clearances above the
//     threshold contribute exactly zero.
//   - ToroidalFlux, SquaredFlux — flux integrals against caller-supplied
//     VectorPotential and Field sources.
//   - Weighted, Sum, QuadraticPenalty — compositors for assembling the
//     total objective of an optimization problem.
//
// Gradients are assembled by chain rule from the geometry Jacobians as
// vector-Jacobian products; no finite differencing is involved. Each
// functional memoizes J and DJ in a cache depending on the epochs of
// its inputs, so repeated evaluation between dof mutations is free.
// Compositors hold no cache of their own and never mutate the Deriv
// maps of the objectives they wrap.
//
// Objectives hold non-owning references and never mutate the geometry
// they evaluate. Evaluation errors (a degenerate curve under a torsion
// penalty, a degenerate surface under a flux integral) propagate as the
// geometry packages' sentinels.
package objective
