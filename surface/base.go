package surface

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/stelgeo/cache"
	"github.com/katalvlaran/stelgeo/dofs"
	"github.com/katalvlaran/stelgeo/quadrature"
)

// sourcer is the raw-array contract each representation implements;
// Base lifts it into the full Surface contract.
type sourcer interface {
	gammaImpl() [][][3]float64
	gammaDash1Impl() [][][3]float64
	gammaDash2Impl() [][][3]float64

	gammaJacImpl() *mat.Dense
	gammaDash1JacImpl() *mat.Dense
	gammaDash2JacImpl() *mat.Dense
}

// normalEps is the |n|² cutoff below which the area element counts as
// collapsed and the unit normal as undefined.
const normalEps = 1e-30

// Base carries the shared state of every surface representation: the
// dof store, the 2-D quadrature grid and the memo cache. Concrete types
// embed it and register themselves as the raw-array source.
type Base struct {
	store *dofs.Store
	memo  *cache.Cache
	grid  *quadrature.Grid2D
	phi   []float64
	theta []float64
	src   sourcer
}

// newBase wires a representation that owns its store: every dof
// mutation invalidates the memo before the mutating call returns.
func newBase(store *dofs.Store, grid *quadrature.Grid2D, src sourcer) Base {
	memo := cache.New()
	store.OnChange(memo.Invalidate)
	return Base{store: store, memo: memo, grid: grid, phi: grid.Phi(), theta: grid.Theta(), src: src}
}

// Dofs returns the dof store controlling this surface's shape.
func (b *Base) Dofs() *dofs.Store { return b.store }

// Epoch returns the cache validity epoch.
func (b *Base) Epoch() uint64 { return b.memo.Epoch() }

// Invalidate drops every cached quantity.
func (b *Base) Invalidate() { b.memo.Invalidate() }

// QuadPhi returns a copy of the toroidal quadrature points.
func (b *Base) QuadPhi() []float64 { return b.grid.Phi() }

// QuadTheta returns a copy of the poloidal quadrature points.
func (b *Base) QuadTheta() []float64 { return b.grid.Theta() }

// NPhi returns the toroidal point count.
func (b *Base) NPhi() int { return len(b.phi) }

// NTheta returns the poloidal point count.
func (b *Base) NTheta() int { return len(b.theta) }

// Nfp returns the field-period count.
func (b *Base) Nfp() int { return b.grid.Nfp() }

// Range returns the φ-axis range policy.
func (b *Base) Range() quadrature.Range { return b.grid.Range() }

// NumDofs returns the length of the full dof vector.
func (b *Base) NumDofs() int { return b.store.NumFull() }

// Gamma returns Γ(φ_i, θ_j), indexed [φ][θ].
func (b *Base) Gamma() [][][3]float64 {
	return cache.Get(b.memo, "gamma", b.src.gammaImpl)
}

// GammaDash1 returns ∂Γ/∂φ.
func (b *Base) GammaDash1() [][][3]float64 {
	return cache.Get(b.memo, "gammadash1", b.src.gammaDash1Impl)
}

// GammaDash2 returns ∂Γ/∂θ.
func (b *Base) GammaDash2() [][][3]float64 {
	return cache.Get(b.memo, "gammadash2", b.src.gammaDash2Impl)
}

// GammaJac returns dΓ/ddof, rows flattened (φ-major, θ, then x,y,z).
func (b *Base) GammaJac() *mat.Dense {
	return cache.Get(b.memo, "gammajac", b.src.gammaJacImpl)
}

// GammaDash1Jac returns d(∂Γ/∂φ)/ddof.
func (b *Base) GammaDash1Jac() *mat.Dense {
	return cache.Get(b.memo, "gammadash1jac", b.src.gammaDash1JacImpl)
}

// GammaDash2Jac returns d(∂Γ/∂θ)/ddof.
func (b *Base) GammaDash2Jac() *mat.Dense {
	return cache.Get(b.memo, "gammadash2jac", b.src.gammaDash2JacImpl)
}

// Normal returns the unnormalized normal n = ∂Γ/∂φ × ∂Γ/∂θ; its
// magnitude is the area element of the (φ,θ) parameterization.
func (b *Base) Normal() [][][3]float64 {
	return cache.Get(b.memo, "normal", func() [][][3]float64 {
		d1 := b.GammaDash1()
		d2 := b.GammaDash2()
		out := alloc2(len(b.phi), len(b.theta))
		for i := range d1 {
			for j := range d1[i] {
				a := vec3.T(d1[i][j])
				c := vec3.T(d2[i][j])
				out[i][j] = [3]float64(vec3.Cross(&a, &c))
			}
		}
		return out
	})
}

type unitNormalResult struct {
	vals [][][3]float64
	err  error
}

// UnitNormal returns n/|n|. Returns ErrDegenerate where the area
// element collapses.
func (b *Base) UnitNormal() ([][][3]float64, error) {
	res := cache.Get(b.memo, "unitnormal", func() unitNormalResult {
		nrm := b.Normal()
		out := alloc2(len(b.phi), len(b.theta))
		for i := range nrm {
			for j := range nrm[i] {
				v := vec3.T(nrm[i][j])
				l2 := v.LengthSqr()
				if l2 <= normalEps {
					return unitNormalResult{err: fmt.Errorf("%w: at grid point (%d,%d)", ErrDegenerate, i, j)}
				}
				out[i][j] = [3]float64(v.Scaled(1 / math.Sqrt(l2)))
			}
		}
		return unitNormalResult{vals: out}
	})
	return res.vals, res.err
}

// Area returns the total surface area of the full torus,
// ∫∫|n| dφ dθ by the periodic trapezoid rule. The φ range policy does
// not change the result: the integrand repeats over field periods and,
// under stellarator symmetry, reflects within one, so the mean over a
// reduced grid equals the mean over the full one.
func (b *Base) Area() float64 {
	return cache.Get(b.memo, "area", func() float64 {
		nrm := b.Normal()
		var sum float64
		for i := range nrm {
			for j := range nrm[i] {
				v := vec3.T(nrm[i][j])
				sum += v.Length()
			}
		}
		return sum / float64(len(b.phi)*len(b.theta))
	})
}

// Volume returns the enclosed volume of the full torus via the
// divergence theorem, (1/3)∫∫ Γ·n dφ dθ. The sign follows the normal
// orientation; the standard parameterizations here orient n outward,
// giving positive volume.
func (b *Base) Volume() float64 {
	return cache.Get(b.memo, "volume", func() float64 {
		g := b.Gamma()
		nrm := b.Normal()
		var sum float64
		for i := range g {
			for j := range g[i] {
				p := vec3.T(g[i][j])
				v := vec3.T(nrm[i][j])
				sum += vec3.Dot(&p, &v)
			}
		}
		return sum / (3 * float64(len(b.phi)*len(b.theta)))
	})
}

// jacRows returns the three raw rows of j holding flattened point p's
// x,y,z derivative entries.
func jacRows(j *mat.Dense, p int) (x, y, z []float64) {
	return j.RawRowView(3 * p), j.RawRowView(3*p + 1), j.RawRowView(3*p + 2)
}

type areaJacResult struct {
	grad []float64
	err  error
}

// AreaJac returns dArea/ddof over the full dof vector. Returns
// ErrDegenerate where the area element collapses, since d|n| is
// undefined there.
func (b *Base) AreaJac() ([]float64, error) {
	res := cache.Get(b.memo, "areajac", func() areaJacResult {
		nrm := b.Normal()
		d1 := b.GammaDash1()
		d2 := b.GammaDash2()
		j1 := b.GammaDash1Jac()
		j2 := b.GammaDash2Jac()
		nphi, ntheta, nd := len(b.phi), len(b.theta), b.NumDofs()
		grad := make([]float64, nd)
		inv := 1 / float64(nphi*ntheta)
		for i := 0; i < nphi; i++ {
			for j := 0; j < ntheta; j++ {
				nv := vec3.T(nrm[i][j])
				l2 := nv.LengthSqr()
				if l2 <= normalEps {
					return areaJacResult{err: fmt.Errorf("%w: at grid point (%d,%d)", ErrDegenerate, i, j)}
				}
				w := inv / math.Sqrt(l2)
				a := vec3.T(d1[i][j])
				c := vec3.T(d2[i][j])
				p := i*ntheta + j
				j1x, j1y, j1z := jacRows(j1, p)
				j2x, j2y, j2z := jacRows(j2, p)
				for k := 0; k < nd; k++ {
					da := vec3.T{j1x[k], j1y[k], j1z[k]}
					dc := vec3.T{j2x[k], j2y[k], j2z[k]}
					c1 := vec3.Cross(&da, &c)
					c2 := vec3.Cross(&a, &dc)
					dn := vec3.Add(&c1, &c2)
					grad[k] += w * vec3.Dot(&nv, &dn)
				}
			}
		}
		return areaJacResult{grad: grad}
	})
	return res.grad, res.err
}

// VolumeJac returns dVolume/ddof over the full dof vector.
func (b *Base) VolumeJac() []float64 {
	return cache.Get(b.memo, "volumejac", func() []float64 {
		g := b.Gamma()
		nrm := b.Normal()
		d1 := b.GammaDash1()
		d2 := b.GammaDash2()
		jg := b.GammaJac()
		j1 := b.GammaDash1Jac()
		j2 := b.GammaDash2Jac()
		nphi, ntheta, nd := len(b.phi), len(b.theta), b.NumDofs()
		grad := make([]float64, nd)
		inv := 1 / (3 * float64(nphi*ntheta))
		for i := 0; i < nphi; i++ {
			for j := 0; j < ntheta; j++ {
				pos := vec3.T(g[i][j])
				nv := vec3.T(nrm[i][j])
				a := vec3.T(d1[i][j])
				c := vec3.T(d2[i][j])
				p := i*ntheta + j
				jgx, jgy, jgz := jacRows(jg, p)
				j1x, j1y, j1z := jacRows(j1, p)
				j2x, j2y, j2z := jacRows(j2, p)
				for k := 0; k < nd; k++ {
					dg := vec3.T{jgx[k], jgy[k], jgz[k]}
					da := vec3.T{j1x[k], j1y[k], j1z[k]}
					dc := vec3.T{j2x[k], j2y[k], j2z[k]}
					c1 := vec3.Cross(&da, &c)
					c2 := vec3.Cross(&a, &dc)
					dn := vec3.Add(&c1, &c2)
					grad[k] += inv * (vec3.Dot(&dg, &nv) + vec3.Dot(&pos, &dn))
				}
			}
		}
		return grad
	})
}

// alloc2 allocates an nphi×ntheta position array.
func alloc2(nphi, ntheta int) [][][3]float64 {
	out := make([][][3]float64, nphi)
	for i := range out {
		out[i] = make([][3]float64, ntheta)
	}
	return out
}
