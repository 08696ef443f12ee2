package curve

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Rotated applies a fixed proper rotation about the z axis, optionally
// composed with the stellarator flip (x, y, z) → (x, −y, −z), to another
// curve. It shares the base curve's dof store: mutating the base moves
// every rotated copy, and gradient contributions from the copies
// accumulate on the base parameters. Symmetry expansion of coil sets is
// built from these.
type Rotated struct {
	Base
	base  Curve
	rot   [3][3]float64
	angle float64
	flip  bool
}

// NewRotated builds the rotated view of base. angle is the rotation
// about the z axis in radians; with flip the stellarator reflection is
// applied before the rotation.
func NewRotated(base Curve, angle float64, flip bool) *Rotated {
	cs, sn := math.Cos(angle), math.Sin(angle)
	rot := [3][3]float64{{cs, -sn, 0}, {sn, cs, 0}, {0, 0, 1}}
	if flip {
		// Composing with diag(1,−1,−1) negates the y and z columns. The
		// product still has determinant +1, so κ and τ are unchanged.
		for r := 0; r < 3; r++ {
			rot[r][1] = -rot[r][1]
			rot[r][2] = -rot[r][2]
		}
	}
	rc := &Rotated{base: base, rot: rot, angle: angle, flip: flip}
	rc.Base = newDerivedBase(base.Dofs(), base.QuadPoints(), rc, base)
	return rc
}

// Underlying returns the curve being rotated.
func (r *Rotated) Underlying() Curve { return r.base }

// Angle returns the rotation angle in radians.
func (r *Rotated) Angle() float64 { return r.angle }

// Flip reports whether the stellarator reflection is part of the map.
func (r *Rotated) Flip() bool { return r.flip }

// RotationMatrix returns the combined linear map applied to points.
func (r *Rotated) RotationMatrix() [3][3]float64 { return r.rot }

func (r *Rotated) apply(src [][3]float64) [][3]float64 {
	out := make([][3]float64, len(src))
	for i, p := range src {
		for a := 0; a < 3; a++ {
			out[i][a] = r.rot[a][0]*p[0] + r.rot[a][1]*p[1] + r.rot[a][2]*p[2]
		}
	}
	return out
}

func (r *Rotated) applyJac(src *mat.Dense) *mat.Dense {
	rows, cols := src.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows/3; i++ {
		sx, sy, sz := jacRows(src, i)
		ox, oy, oz := jacRows(out, i)
		for j := 0; j < cols; j++ {
			ox[j] = r.rot[0][0]*sx[j] + r.rot[0][1]*sy[j] + r.rot[0][2]*sz[j]
			oy[j] = r.rot[1][0]*sx[j] + r.rot[1][1]*sy[j] + r.rot[1][2]*sz[j]
			oz[j] = r.rot[2][0]*sx[j] + r.rot[2][1]*sy[j] + r.rot[2][2]*sz[j]
		}
	}
	return out
}

func (r *Rotated) gammaImpl() [][3]float64             { return r.apply(r.base.Gamma()) }
func (r *Rotated) gammaDashImpl() [][3]float64         { return r.apply(r.base.GammaDash()) }
func (r *Rotated) gammaDashDashImpl() [][3]float64     { return r.apply(r.base.GammaDashDash()) }
func (r *Rotated) gammaDashDashDashImpl() [][3]float64 { return r.apply(r.base.GammaDashDashDash()) }

func (r *Rotated) gammaJacImpl() *mat.Dense             { return r.applyJac(r.base.GammaJac()) }
func (r *Rotated) gammaDashJacImpl() *mat.Dense         { return r.applyJac(r.base.GammaDashJac()) }
func (r *Rotated) gammaDashDashJacImpl() *mat.Dense     { return r.applyJac(r.base.GammaDashDashJac()) }
func (r *Rotated) gammaDashDashDashJacImpl() *mat.Dense { return r.applyJac(r.base.GammaDashDashDashJac()) }
