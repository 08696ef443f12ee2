// Package coil assembles full coil sets from base curves, carried
// currents and the discrete symmetries of a stellarator.
//
// A Current wraps one scalar dof so several coils can be constrained to
// share it, or optimized independently. ScaledCurrent and CurrentSum
// compose currents without copying dofs; a flipped symmetry copy simply
// carries Neg of its base current. A Coil pairs a curve.Curve with a
// CurrentProvider, which is the input a field evaluator consumes.
//
// ApplySymmetries expands n base curves into n·nfp·(1+stellsym) curves
// by field-period rotation and the stellarator flip, sharing the base
// dof stores throughout, so a gradient taken through any copy lands on
// the base parameters. ViaSymmetries does curves and currents together.
// EquallySpaced builds the customary starting point: planar circular
// coils spread over a field period.
package coil
