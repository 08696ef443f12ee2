package curve

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/stelgeo/cache"
	"github.com/katalvlaran/stelgeo/dofs"
)

// sourcer is the raw-array contract each representation implements;
// Base lifts it into the full Curve surface.
type sourcer interface {
	gammaImpl() [][3]float64
	gammaDashImpl() [][3]float64
	gammaDashDashImpl() [][3]float64
	gammaDashDashDashImpl() [][3]float64

	gammaJacImpl() *mat.Dense
	gammaDashJacImpl() *mat.Dense
	gammaDashDashJacImpl() *mat.Dense
	gammaDashDashDashJacImpl() *mat.Dense
}

// Degeneracy thresholds. Both tested quantities are scale-invariant,
// so absolute cutoffs are safe.
const (
	frameEps   = 1e-24 // |T'|² below this counts as locally straight
	torsionEps = 1e-24 // |Γ'×Γ''|² below this × |Γ'|²|Γ''|² counts as locally straight
	tangentEps = 1e-30 // |Γ'|² below this counts as a vanishing tangent
)

// Base carries the shared state of every curve representation: the dof
// store, the quadrature points and the memo cache. Concrete types embed
// it and register themselves as the raw-array source.
type Base struct {
	store *dofs.Store
	memo  *cache.Cache
	quad  []float64
	src   sourcer
}

// newBase wires a representation that owns its store: every dof
// mutation invalidates the memo before the mutating call returns.
func newBase(store *dofs.Store, quad []float64, src sourcer) Base {
	memo := cache.New()
	store.OnChange(memo.Invalidate)
	return Base{store: store, memo: memo, quad: quad, src: src}
}

// newDerivedBase wires a representation computed from other objects. It
// shares the given store without re-registering invalidation; staleness
// propagates through the dependency epochs instead.
func newDerivedBase(store *dofs.Store, quad []float64, src sourcer, deps ...cache.Source) Base {
	return Base{store: store, memo: cache.New(deps...), quad: quad, src: src}
}

// Dofs returns the dof store controlling this curve's shape.
func (b *Base) Dofs() *dofs.Store { return b.store }

// Epoch returns the cache validity epoch, including upstream objects.
func (b *Base) Epoch() uint64 { return b.memo.Epoch() }

// Invalidate drops every cached quantity.
func (b *Base) Invalidate() { b.memo.Invalidate() }

// QuadPoints returns a copy of the quadrature points.
func (b *Base) QuadPoints() []float64 {
	return append([]float64(nil), b.quad...)
}

// NumQuadPoints returns the number of quadrature points.
func (b *Base) NumQuadPoints() int { return len(b.quad) }

// NumDofs returns the length of the full dof vector.
func (b *Base) NumDofs() int { return b.store.NumFull() }

// Gamma returns Γ(θ_i), one row per quadrature point.
func (b *Base) Gamma() [][3]float64 {
	return cache.Get(b.memo, "gamma", b.src.gammaImpl)
}

// GammaDash returns dΓ/dθ.
func (b *Base) GammaDash() [][3]float64 {
	return cache.Get(b.memo, "gammadash", b.src.gammaDashImpl)
}

// GammaDashDash returns d²Γ/dθ².
func (b *Base) GammaDashDash() [][3]float64 {
	return cache.Get(b.memo, "gammadashdash", b.src.gammaDashDashImpl)
}

// GammaDashDashDash returns d³Γ/dθ³.
func (b *Base) GammaDashDashDash() [][3]float64 {
	return cache.Get(b.memo, "gammadashdashdash", b.src.gammaDashDashDashImpl)
}

// GammaJac returns dΓ/ddof, rows flattened (point-major, x,y,z minor).
func (b *Base) GammaJac() *mat.Dense {
	return cache.Get(b.memo, "gammajac", b.src.gammaJacImpl)
}

// GammaDashJac returns d(dΓ/dθ)/ddof.
func (b *Base) GammaDashJac() *mat.Dense {
	return cache.Get(b.memo, "gammadashjac", b.src.gammaDashJacImpl)
}

// GammaDashDashJac returns d(d²Γ/dθ²)/ddof.
func (b *Base) GammaDashDashJac() *mat.Dense {
	return cache.Get(b.memo, "gammadashdashjac", b.src.gammaDashDashJacImpl)
}

// GammaDashDashDashJac returns d(d³Γ/dθ³)/ddof.
func (b *Base) GammaDashDashDashJac() *mat.Dense {
	return cache.Get(b.memo, "gammadashdashdashjac", b.src.gammaDashDashDashJacImpl)
}

// IncrementalArcLength returns |Γ'(θ_i)|, the arclength density the
// quadrature rule pairs with every line integral.
func (b *Base) IncrementalArcLength() []float64 {
	return cache.Get(b.memo, "arclen", func() []float64 {
		g1 := b.GammaDash()
		out := make([]float64, len(g1))
		for i := range g1 {
			d1 := vec3.T(g1[i])
			out[i] = d1.Length()
		}
		return out
	})
}

// Kappa returns the curvature κ = |Γ'×Γ''|/|Γ'|³ at every quadrature
// point. Locally straight segments yield zero, not an error.
func (b *Base) Kappa() []float64 {
	return cache.Get(b.memo, "kappa", func() []float64 {
		g1 := b.GammaDash()
		g2 := b.GammaDashDash()
		out := make([]float64, len(g1))
		for i := range g1 {
			d1 := vec3.T(g1[i])
			d2 := vec3.T(g2[i])
			cr := vec3.Cross(&d1, &d2)
			cn := cr.Length()
			if cn == 0 {
				// Collinear Γ', Γ'': zero curvature even where the
				// tangent itself vanishes.
				continue
			}
			n1 := d1.Length()
			out[i] = cn / (n1 * n1 * n1)
		}
		return out
	})
}

type torsionResult struct {
	vals []float64
	err  error
}

// Torsion returns τ = (Γ'×Γ'')·Γ'''/|Γ'×Γ''|². Returns ErrDegenerate
// when the curve is locally straight anywhere on the grid.
func (b *Base) Torsion() ([]float64, error) {
	res := cache.Get(b.memo, "torsion", func() torsionResult {
		g1 := b.GammaDash()
		g2 := b.GammaDashDash()
		g3 := b.GammaDashDashDash()
		out := make([]float64, len(g1))
		for i := range g1 {
			d1 := vec3.T(g1[i])
			d2 := vec3.T(g2[i])
			d3 := vec3.T(g3[i])
			cr := vec3.Cross(&d1, &d2)
			den := cr.LengthSqr()
			if den <= torsionEps*d1.LengthSqr()*d2.LengthSqr() {
				return torsionResult{err: fmt.Errorf("%w: |Γ'×Γ''| vanishes at quadrature point %d", ErrDegenerate, i)}
			}
			out[i] = vec3.Dot(&cr, &d3) / den
		}
		return torsionResult{vals: out}
	})
	return res.vals, res.err
}

type frenetResult struct {
	t, n, bn [][3]float64
	err      error
}

// FrenetFrame returns the unit tangent, normal and binormal at every
// quadrature point. Returns ErrDegenerate where the tangent vanishes or
// the curve is locally straight, in which case the normal is undefined.
func (b *Base) FrenetFrame() (tangent, normal, binormal [][3]float64, err error) {
	res := cache.Get(b.memo, "frenet", func() frenetResult {
		g1 := b.GammaDash()
		g2 := b.GammaDashDash()
		n := len(g1)
		ts := make([][3]float64, n)
		ns := make([][3]float64, n)
		bs := make([][3]float64, n)
		for i := 0; i < n; i++ {
			d1 := vec3.T(g1[i])
			d2 := vec3.T(g2[i])
			l1sq := d1.LengthSqr()
			if l1sq <= tangentEps {
				return frenetResult{err: fmt.Errorf("%w: tangent vanishes at quadrature point %d", ErrDegenerate, i)}
			}
			l1 := d1.Length()
			t := d1.Scaled(1 / l1)
			// T' = (Γ''·|Γ'|² − Γ'(Γ'·Γ'')) / |Γ'|³
			proj := vec3.Dot(&d1, &d2)
			tp := d2.Scaled(l1sq)
			sub := d1.Scaled(proj)
			tp = vec3.Sub(&tp, &sub)
			tp = tp.Scaled(1 / (l1sq * l1))
			if tp.LengthSqr() <= frameEps {
				return frenetResult{err: fmt.Errorf("%w: locally straight at quadrature point %d", ErrDegenerate, i)}
			}
			nvec := tp.Normalized()
			bvec := vec3.Cross(&t, &nvec)
			ts[i] = [3]float64(t)
			ns[i] = [3]float64(nvec)
			bs[i] = [3]float64(bvec)
		}
		return frenetResult{t: ts, n: ns, bn: bs}
	})
	return res.t, res.n, res.bn, res.err
}

// jacRows returns the three raw rows of j holding point i's x,y,z
// derivative entries.
func jacRows(j *mat.Dense, i int) (x, y, z []float64) {
	return j.RawRowView(3 * i), j.RawRowView(3*i + 1), j.RawRowView(3*i + 2)
}

// IncrementalArcLengthJac returns d|Γ'|/ddof, one row per quadrature
// point.
func (b *Base) IncrementalArcLengthJac() *mat.Dense {
	return cache.Get(b.memo, "arclenjac", func() *mat.Dense {
		g1 := b.GammaDash()
		j1 := b.GammaDashJac()
		n, nd := len(g1), b.NumDofs()
		out := mat.NewDense(n, nd, nil)
		for i := 0; i < n; i++ {
			d1 := vec3.T(g1[i])
			l1 := d1.Length()
			jx, jy, jz := jacRows(j1, i)
			row := out.RawRowView(i)
			for j := 0; j < nd; j++ {
				dd := vec3.T{jx[j], jy[j], jz[j]}
				row[j] = vec3.Dot(&d1, &dd) / l1
			}
		}
		return out
	})
}

// KappaJac returns dκ/ddof, one row per quadrature point. Rows where
// the curvature vanishes are zero: κ is not differentiable there and
// every curvature penalty weights them by zero anyway.
func (b *Base) KappaJac() *mat.Dense {
	return cache.Get(b.memo, "kappajac", func() *mat.Dense {
		g1 := b.GammaDash()
		g2 := b.GammaDashDash()
		j1 := b.GammaDashJac()
		j2 := b.GammaDashDashJac()
		n, nd := len(g1), b.NumDofs()
		out := mat.NewDense(n, nd, nil)
		for i := 0; i < n; i++ {
			d1 := vec3.T(g1[i])
			d2 := vec3.T(g2[i])
			cr := vec3.Cross(&d1, &d2)
			cn := cr.Length()
			if cn == 0 {
				continue
			}
			l1 := d1.Length()
			l1cu := l1 * l1 * l1
			j1x, j1y, j1z := jacRows(j1, i)
			j2x, j2y, j2z := jacRows(j2, i)
			row := out.RawRowView(i)
			for j := 0; j < nd; j++ {
				dd1 := vec3.T{j1x[j], j1y[j], j1z[j]}
				dd2 := vec3.T{j2x[j], j2y[j], j2z[j]}
				c1 := vec3.Cross(&dd1, &d2)
				c2 := vec3.Cross(&d1, &dd2)
				dc := vec3.Add(&c1, &c2)
				row[j] = vec3.Dot(&cr, &dc)/(cn*l1cu) -
					3*cn*vec3.Dot(&d1, &dd1)/(l1cu*l1*l1)
			}
		}
		return out
	})
}

type torsionJacResult struct {
	jac *mat.Dense
	err error
}

// TorsionJac returns dτ/ddof, one row per quadrature point. Returns
// ErrDegenerate under the same conditions as Torsion.
func (b *Base) TorsionJac() (*mat.Dense, error) {
	res := cache.Get(b.memo, "torsionjac", func() torsionJacResult {
		if _, err := b.Torsion(); err != nil {
			return torsionJacResult{err: err}
		}
		g1 := b.GammaDash()
		g2 := b.GammaDashDash()
		g3 := b.GammaDashDashDash()
		j1 := b.GammaDashJac()
		j2 := b.GammaDashDashJac()
		j3 := b.GammaDashDashDashJac()
		n, nd := len(g1), b.NumDofs()
		out := mat.NewDense(n, nd, nil)
		for i := 0; i < n; i++ {
			d1 := vec3.T(g1[i])
			d2 := vec3.T(g2[i])
			d3 := vec3.T(g3[i])
			cr := vec3.Cross(&d1, &d2)
			den := cr.LengthSqr()
			num := vec3.Dot(&cr, &d3)
			j1x, j1y, j1z := jacRows(j1, i)
			j2x, j2y, j2z := jacRows(j2, i)
			j3x, j3y, j3z := jacRows(j3, i)
			row := out.RawRowView(i)
			for j := 0; j < nd; j++ {
				dd1 := vec3.T{j1x[j], j1y[j], j1z[j]}
				dd2 := vec3.T{j2x[j], j2y[j], j2z[j]}
				dd3 := vec3.T{j3x[j], j3y[j], j3z[j]}
				c1 := vec3.Cross(&dd1, &d2)
				c2 := vec3.Cross(&d1, &dd2)
				dc := vec3.Add(&c1, &c2)
				row[j] = (vec3.Dot(&dc, &d3)+vec3.Dot(&cr, &dd3))/den -
					2*num*vec3.Dot(&cr, &dc)/(den*den)
			}
		}
		return torsionJacResult{jac: out}
	})
	return res.jac, res.err
}
