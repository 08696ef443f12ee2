package objective

import (
	"fmt"

	"github.com/katalvlaran/stelgeo"
	"github.com/katalvlaran/stelgeo/cache"
	"github.com/katalvlaran/stelgeo/surface"
)

// VectorPotential supplies a magnetic vector potential A(x) for flux
// integrals. Implementations must treat the points slice as read-only
// and must not retain it. The embedded epoch lets dof-backed potentials
// participate in cache invalidation; a static analytic potential
// returns a constant.
type VectorPotential interface {
	cache.Source

	// A returns the potential at each point, one row per point.
	A(points [][3]float64) [][3]float64

	// AJac returns the spatial derivative at each point;
	// entry [i][r][c] is ∂A_r/∂x_c at points[i].
	AJac(points [][3]float64) [][3][3]float64
}

// Field supplies a magnetic field B(x) together with the adjoint of its
// parameter dependence. Same read-only point contract and epoch role as
// VectorPotential.
type Field interface {
	cache.Source

	// B returns the field at each point, one row per point.
	B(points [][3]float64) [][3]float64

	// BVJP returns the gradient of Σ_i v_i·B(x_i) with respect to the
	// field's own parameters, keyed by their dof stores. Fields without
	// parameters return an empty map.
	BVJP(points [][3]float64, v [][3]float64) stelgeo.Deriv
}

// ToroidalFlux is the magnetic flux through the poloidal cross-section
// at one fixed φ column of the surface grid, evaluated by Stokes'
// theorem as the loop integral
//
//	J = ∮ A · (∂Γ/∂θ) dθ.
//
// In stage-two coil optimization it pins the flux the coils drive
// through the plasma boundary.
type ToroidalFlux struct {
	memo   *cache.Cache
	surf   surface.Surface
	pot    VectorPotential
	phiIdx int
}

// NewToroidalFlux builds the flux functional through the cross-section
// at φ column phiIdx, usually 0. Returns ErrPhiIndex when the column
// does not exist on the surface grid.
func NewToroidalFlux(s surface.Surface, a VectorPotential, phiIdx int) (*ToroidalFlux, error) {
	if phiIdx < 0 || phiIdx >= s.NPhi() {
		return nil, fmt.Errorf("%w: column %d on a grid with %d φ points", ErrPhiIndex, phiIdx, s.NPhi())
	}
	return &ToroidalFlux{memo: cache.New(s, a), surf: s, pot: a, phiIdx: phiIdx}, nil
}

// PhiIndex returns the φ column the flux is evaluated on.
func (o *ToroidalFlux) PhiIndex() int { return o.phiIdx }

// J returns the flux.
func (o *ToroidalFlux) J() (float64, error) {
	return cache.Get(o.memo, "j", func() float64 {
		pts := o.surf.Gamma()[o.phiIdx]
		dth := o.surf.GammaDash2()[o.phiIdx]
		avals := o.pot.A(pts)
		var sum float64
		for k := range pts {
			sum += dot3(avals[k], dth[k])
		}
		return sum / float64(len(pts))
	}), nil
}

// DJ returns dJ/ddof on the surface's store, chaining the potential's
// spatial derivative through dΓ/ddof and the potential itself through
// d(∂Γ/∂θ)/ddof.
func (o *ToroidalFlux) DJ() (stelgeo.Deriv, error) {
	return cache.Get(o.memo, "dj", func() stelgeo.Deriv {
		pts := o.surf.Gamma()[o.phiIdx]
		dth := o.surf.GammaDash2()[o.phiIdx]
		avals := o.pot.A(pts)
		ajac := o.pot.AJac(pts)
		gJac := o.surf.GammaJac()
		tJac := o.surf.GammaDash2Jac()
		ntheta := len(pts)
		nd := o.surf.NumDofs()
		grad := make([]float64, nd)
		inv := 1 / float64(ntheta)
		for k := 0; k < ntheta; k++ {
			p := o.phiIdx*ntheta + k
			for ax := 0; ax < 3; ax++ {
				var va float64
				for r := 0; r < 3; r++ {
					va += dth[k][r] * ajac[k][r][ax]
				}
				ca := va * inv
				cb := avals[k][ax] * inv
				gRow := gJac.RawRowView(3*p + ax)
				tRow := tJac.RawRowView(3*p + ax)
				for j := 0; j < nd; j++ {
					grad[j] += ca*gRow[j] + cb*tRow[j]
				}
			}
		}
		d := stelgeo.Deriv{}
		d.Add(o.surf, grad)
		return d
	}), nil
}

// SquaredFlux measures how far a field is from being tangent to a
// surface,
//
//	J = ½ ∫ (B·n̂ − B_T)² dA,
//
// with an optional target normal field B_T on the surface grid. The
// gradient flows to the field's parameters through its BVJP; the
// surface is the fixed boundary being matched.
type SquaredFlux struct {
	memo   *cache.Cache
	surf   surface.Surface
	field  Field
	target [][]float64
}

// NewSquaredFlux builds the flux-matching functional. target may be nil
// for a zero target; otherwise it must be an NPhi×NTheta grid and is
// used as given, without copying.
func NewSquaredFlux(s surface.Surface, f Field, target [][]float64) (*SquaredFlux, error) {
	if target != nil {
		if len(target) != s.NPhi() {
			return nil, fmt.Errorf("%w: %d target rows, %d φ points", ErrShape, len(target), s.NPhi())
		}
		for i, row := range target {
			if len(row) != s.NTheta() {
				return nil, fmt.Errorf("%w: %d entries in row %d, %d θ points", ErrShape, len(row), i, s.NTheta())
			}
		}
	}
	return &SquaredFlux{memo: cache.New(s, f), surf: s, field: f, target: target}, nil
}

// J returns the flux mismatch. Returns surface.ErrDegenerate when the
// surface normal vanishes somewhere on the grid.
func (o *SquaredFlux) J() (float64, error) {
	res := cache.Get(o.memo, "j", func() jResult {
		un, err := o.surf.UnitNormal()
		if err != nil {
			return jResult{err: err}
		}
		nr := o.surf.Normal()
		pts := flattenGrid(o.surf.Gamma())
		bvals := o.field.B(pts)
		nphi, ntheta := o.surf.NPhi(), o.surf.NTheta()
		var sum float64
		for i := 0; i < nphi; i++ {
			for k := 0; k < ntheta; k++ {
				bn := dot3(bvals[i*ntheta+k], un[i][k])
				if o.target != nil {
					bn -= o.target[i][k]
				}
				sum += bn * bn * norm3(nr[i][k])
			}
		}
		return jResult{val: 0.5 * sum / float64(nphi*ntheta)}
	})
	return res.val, res.err
}

// DJ returns dJ/ddof on the field's parameter stores.
func (o *SquaredFlux) DJ() (stelgeo.Deriv, error) {
	res := cache.Get(o.memo, "dj", func() djResult {
		un, err := o.surf.UnitNormal()
		if err != nil {
			return djResult{err: err}
		}
		nr := o.surf.Normal()
		pts := flattenGrid(o.surf.Gamma())
		bvals := o.field.B(pts)
		nphi, ntheta := o.surf.NPhi(), o.surf.NTheta()
		inv := 1 / float64(nphi*ntheta)
		v := make([][3]float64, len(pts))
		for i := 0; i < nphi; i++ {
			for k := 0; k < ntheta; k++ {
				p := i*ntheta + k
				bn := dot3(bvals[p], un[i][k])
				if o.target != nil {
					bn -= o.target[i][k]
				}
				c := bn * norm3(nr[i][k]) * inv
				for ax := 0; ax < 3; ax++ {
					v[p][ax] = c * un[i][k][ax]
				}
			}
		}
		return djResult{d: o.field.BVJP(pts, v)}
	})
	return res.d, res.err
}
