package objective

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"

	"github.com/katalvlaran/stelgeo"
	"github.com/katalvlaran/stelgeo/cache"
	"github.com/katalvlaran/stelgeo/dofs"
	"github.com/katalvlaran/stelgeo/surface"
)

// uniformPotential is A(x) = ½ b×x, the vector potential of the
// uniform field b.
type uniformPotential struct {
	b [3]float64
}

func (p uniformPotential) Epoch() uint64 { return 0 }

func (p uniformPotential) A(pts [][3]float64) [][3]float64 {
	out := make([][3]float64, len(pts))
	bv := vec3.T(p.b)
	for i, x := range pts {
		xv := vec3.T(x)
		cr := vec3.Cross(&bv, &xv)
		out[i] = [3]float64{0.5 * cr[0], 0.5 * cr[1], 0.5 * cr[2]}
	}
	return out
}

func (p uniformPotential) AJac(pts [][3]float64) [][3][3]float64 {
	m := [3][3]float64{
		{0, -0.5 * p.b[2], 0.5 * p.b[1]},
		{0.5 * p.b[2], 0, -0.5 * p.b[0]},
		{-0.5 * p.b[1], 0.5 * p.b[0], 0},
	}
	out := make([][3][3]float64, len(pts))
	for i := range out {
		out[i] = m
	}
	return out
}

// scaledField is s·b̂ with the scale s as its single dof, the smallest
// field with a parameter to pull on.
type scaledField struct {
	store *dofs.Store
	memo  *cache.Cache
	dir   [3]float64
}

func newScaledField(t *testing.T, dir [3]float64, scale float64) *scaledField {
	t.Helper()
	st, err := dofs.NewStore([]string{"scale"}, []float64{scale})
	require.NoError(t, err)
	f := &scaledField{store: st, memo: cache.New(), dir: dir}
	st.OnChange(f.memo.Invalidate)
	return f
}

func (f *scaledField) Dofs() *dofs.Store { return f.store }
func (f *scaledField) Epoch() uint64     { return f.memo.Epoch() }

func (f *scaledField) B(pts [][3]float64) [][3]float64 {
	s := f.store.FullX()[0]
	out := make([][3]float64, len(pts))
	for i := range out {
		out[i] = [3]float64{s * f.dir[0], s * f.dir[1], s * f.dir[2]}
	}
	return out
}

func (f *scaledField) BVJP(pts [][3]float64, v [][3]float64) stelgeo.Deriv {
	var g float64
	for _, vv := range v {
		g += dot3(vv, f.dir)
	}
	d := stelgeo.Deriv{}
	d.Add(f, []float64{g})
	return d
}

// toroidalField is B = (−y, x, 0)/R², tangent to every axisymmetric
// surface. It carries no parameters.
type toroidalField struct{}

func (toroidalField) Epoch() uint64 { return 0 }

func (toroidalField) B(pts [][3]float64) [][3]float64 {
	out := make([][3]float64, len(pts))
	for i, x := range pts {
		r2 := x[0]*x[0] + x[1]*x[1]
		out[i] = [3]float64{-x[1] / r2, x[0] / r2, 0}
	}
	return out
}

func (toroidalField) BVJP(pts [][3]float64, v [][3]float64) stelgeo.Deriv {
	return stelgeo.Deriv{}
}

func TestToroidalFluxValidation(t *testing.T) {
	s := torusSurface(t, 2, 0.5, 8)
	pot := uniformPotential{b: [3]float64{0, 1, 0}}

	_, err := NewToroidalFlux(s, pot, -1)
	require.ErrorIs(t, err, ErrPhiIndex)
	_, err = NewToroidalFlux(s, pot, 8)
	require.ErrorIs(t, err, ErrPhiIndex)
}

func TestToroidalFluxTorus(t *testing.T) {
	// A uniform field B = B0·ŷ threads the φ = 0 poloidal cross-section
	// (normal −ŷ) with flux −B0·πr²; the loop integral of A = ½ B×x
	// must reproduce it exactly on the grid.
	const R0, r, B0 = 2.0, 0.5, 1.3
	s := torusSurface(t, R0, r, 16)
	pot := uniformPotential{b: [3]float64{0, B0, 0}}

	o, err := NewToroidalFlux(s, pot, 0)
	require.NoError(t, err)
	require.Equal(t, 0, o.PhiIndex())

	v, err := o.J()
	require.NoError(t, err)
	require.InDelta(t, -B0*math.Pi*r*r, v, 1e-10)
}

func TestToroidalFluxColumnSelection(t *testing.T) {
	// Against a uniform ŷ field the flux through the cross-section at
	// toroidal angle α is −B0·cos(α)·πr², so the column choice must
	// show up in the value.
	const R0, r, B0 = 2.0, 0.5, 0.7
	s := torusSurface(t, R0, r, 16)
	pot := uniformPotential{b: [3]float64{0, B0, 0}}

	for idx, want := range map[int]float64{
		0: -B0 * math.Pi * r * r,
		4: 0,
		8: B0 * math.Pi * r * r,
	} {
		o, err := NewToroidalFlux(s, pot, idx)
		require.NoError(t, err)
		v, err := o.J()
		require.NoError(t, err)
		require.InDelta(t, want, v, 1e-10, "column %d", idx)
	}
}

func TestToroidalFluxGradient(t *testing.T) {
	s, err := surface.NewRZFourier(2, 1, 2, true,
		surface.WithNPhi(12), surface.WithNTheta(12))
	require.NoError(t, err)
	for name, v := range map[string]float64{
		"rc(0,0)": 2, "rc(1,0)": 0.5, "zs(1,0)": 0.4,
		"rc(1,1)": 0.07, "zs(1,-1)": 0.05, "rc(0,1)": 0.08, "zs(2,1)": 0.03,
	} {
		require.NoError(t, s.Dofs().Set(name, v))
	}
	pot := uniformPotential{b: [3]float64{0.3, 1.1, 0.6}}

	o, err := NewToroidalFlux(s, pot, 3)
	require.NoError(t, err)
	checkGradient(t, o, 1e-6, 1e-5, s)
}

func TestSquaredFluxTangentField(t *testing.T) {
	// A purely toroidal field is tangent to an axisymmetric boundary,
	// so the flux mismatch vanishes.
	s := torusSurface(t, 2, 0.5, 16)
	o, err := NewSquaredFlux(s, toroidalField{}, nil)
	require.NoError(t, err)

	v, err := o.J()
	require.NoError(t, err)
	require.InDelta(t, 0, v, 1e-20)

	d, err := o.DJ()
	require.NoError(t, err)
	require.Empty(t, d)
}

func TestSquaredFluxScaleAndGradient(t *testing.T) {
	s := torusSurface(t, 2, 0.5, 12)
	f := newScaledField(t, [3]float64{0, 0, 1}, 1)

	o, err := NewSquaredFlux(s, f, nil)
	require.NoError(t, err)
	v1, err := o.J()
	require.NoError(t, err)
	require.Greater(t, v1, 0.0)

	// J is quadratic in the field scale; doubling it must quadruple the
	// value, which also proves the cache tracks the field's epoch.
	require.NoError(t, f.Dofs().Set("scale", 2))
	v2, err := o.J()
	require.NoError(t, err)
	require.InDelta(t, 4*v1, v2, 1e-12*math.Abs(v2))

	checkGradient(t, o, 1e-6, 1e-6, f)
}

func TestSquaredFluxTarget(t *testing.T) {
	const scale = 1.7
	s := torusSurface(t, 2, 0.5, 12)
	f := newScaledField(t, [3]float64{0, 0, 1}, scale)

	un, err := s.UnitNormal()
	require.NoError(t, err)
	target := make([][]float64, s.NPhi())
	for i := range target {
		target[i] = make([]float64, s.NTheta())
		for k := range target[i] {
			target[i][k] = scale * un[i][k][2]
		}
	}

	o, err := NewSquaredFlux(s, f, target)
	require.NoError(t, err)
	v, err := o.J()
	require.NoError(t, err)
	require.Zero(t, v)
}

func TestSquaredFluxTargetShape(t *testing.T) {
	s := torusSurface(t, 2, 0.5, 8)
	f := newScaledField(t, [3]float64{0, 0, 1}, 1)

	_, err := NewSquaredFlux(s, f, make([][]float64, 3))
	require.ErrorIs(t, err, ErrShape)

	ragged := make([][]float64, s.NPhi())
	for i := range ragged {
		ragged[i] = make([]float64, s.NTheta())
	}
	ragged[2] = make([]float64, 3)
	_, err = NewSquaredFlux(s, f, ragged)
	require.ErrorIs(t, err, ErrShape)
}
