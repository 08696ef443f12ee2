package curve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/stelgeo/dofs"
	"github.com/katalvlaran/stelgeo/quadrature"
)

// RZFourier represents a curve in cylindrical coordinates whose radius
// and height are Fourier series in n_fp-fold harmonics of the parameter
// while the toroidal angle advances once per period:
//
//	r(θ) = Σ_{m=0..order} rc(m)·cos(2π·n_fp·m·θ) [+ rs(m)·sin(...)]
//	z(θ) = Σ_{m}          zs(m)·sin(2π·n_fp·m·θ) [+ zc(m)·cos(...)]
//	Γ(θ) = (r·cos(2πθ), r·sin(2πθ), z)
//
// With stellarator symmetry only the rc and zs blocks exist; dofs are
// named rc(0..order), zs(1..order) and, without the symmetry,
// rc(0..order), rs(1..order), zc(0..order), zs(1..order), in that order.
// The order-0 stellarator-symmetric curve is a planar circle of radius
// rc(0).
type RZFourier struct {
	Base
	order    int
	nfp      int
	stellsym bool
	// tables at the n_fp-scaled angles: sin/cos(2π·n_fp·m·θ_i)
	sinT [][]float64
	cosT [][]float64
	// embedding angle tables: sin/cos(2πθ_i)
	sinA []float64
	cosA []float64
}

// NewRZFourier builds an RZFourier curve with all coefficients zero.
// Without options the grid has max(15, 15·n_fp·order) uniform points.
// Returns ErrOrder for negative order, ErrNfp for nfp < 1 and the
// quadrature sentinels for grid conflicts.
func NewRZFourier(order, nfp int, stellsym bool, opts ...Option) (*RZFourier, error) {
	if order < 0 {
		return nil, fmt.Errorf("%w: must be non-negative, got %d", ErrOrder, order)
	}
	if nfp < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNfp, nfp)
	}
	o := applyOptions(opts)
	def := 15 * nfp * order
	if def < 15 {
		def = 15
	}
	quad, err := quadrature.Resolve(o.numQuad, o.quad, def)
	if err != nil {
		return nil, err
	}

	var names []string
	for m := 0; m <= order; m++ {
		names = append(names, fmt.Sprintf("rc(%d)", m))
	}
	if !stellsym {
		for m := 1; m <= order; m++ {
			names = append(names, fmt.Sprintf("rs(%d)", m))
		}
		for m := 0; m <= order; m++ {
			names = append(names, fmt.Sprintf("zc(%d)", m))
		}
	}
	for m := 1; m <= order; m++ {
		names = append(names, fmt.Sprintf("zs(%d)", m))
	}
	st, err := dofs.NewStore(names, make([]float64, len(names)))
	if err != nil {
		return nil, err
	}

	c := &RZFourier{order: order, nfp: nfp, stellsym: stellsym}
	n := len(quad)
	c.sinT = make([][]float64, n)
	c.cosT = make([][]float64, n)
	c.sinA = make([]float64, n)
	c.cosA = make([]float64, n)
	for i, t := range quad {
		si := make([]float64, order+1)
		co := make([]float64, order+1)
		for m := 0; m <= order; m++ {
			ang := 2 * math.Pi * float64(nfp) * float64(m) * t
			si[m] = math.Sin(ang)
			co[m] = math.Cos(ang)
		}
		c.sinT[i], c.cosT[i] = si, co
		c.sinA[i] = math.Sin(2 * math.Pi * t)
		c.cosA[i] = math.Cos(2 * math.Pi * t)
	}
	c.Base = newBase(st, quad, c)
	return c, nil
}

// Order returns the Fourier truncation order.
func (c *RZFourier) Order() int { return c.order }

// Nfp returns the field-period harmonic multiplier.
func (c *RZFourier) Nfp() int { return c.nfp }

// StellSym reports whether the representation is stellarator-symmetric.
func (c *RZFourier) StellSym() bool { return c.stellsym }

func (c *RZFourier) idxRC(m int) int { return m }
func (c *RZFourier) idxRS(m int) int { return c.order + 1 + (m - 1) }
func (c *RZFourier) idxZC(m int) int { return 2*c.order + 1 + m }
func (c *RZFourier) idxZS(m int) int {
	if c.stellsym {
		return c.order + 1 + (m - 1)
	}
	return 3*c.order + 2 + (m - 1)
}

// radial accumulates r and z with their first three parameter
// derivatives at node i.
func (c *RZFourier) radial(i int, vals []float64) (r, z [4]float64) {
	for m := 0; m <= c.order; m++ {
		omega := 2 * math.Pi * float64(c.nfp) * float64(m)
		sv, cv := c.sinT[i][m], c.cosT[i][m]
		rc := vals[c.idxRC(m)]
		for k := 0; k < 4; k++ {
			r[k] += rc * trigDeriv(sv, cv, omega, false, k)
		}
		if !c.stellsym {
			zc := vals[c.idxZC(m)]
			for k := 0; k < 4; k++ {
				z[k] += zc * trigDeriv(sv, cv, omega, false, k)
			}
		}
		if m >= 1 {
			if !c.stellsym {
				rs := vals[c.idxRS(m)]
				for k := 0; k < 4; k++ {
					r[k] += rs * trigDeriv(sv, cv, omega, true, k)
				}
			}
			zs := vals[c.idxZS(m)]
			for k := 0; k < 4; k++ {
				z[k] += zs * trigDeriv(sv, cv, omega, true, k)
			}
		}
	}
	return r, z
}

// cylToCart turns the radial profile derivatives into the k-th
// derivative of (r·cos(2πθ), r·sin(2πθ)) by the Leibniz rule.
func cylToCart(r *[4]float64, k int, s, c float64) (x, y float64) {
	const u = 2 * math.Pi
	switch k {
	case 0:
		return r[0] * c, r[0] * s
	case 1:
		return r[1]*c - u*r[0]*s, r[1]*s + u*r[0]*c
	case 2:
		return r[2]*c - 2*u*r[1]*s - u*u*r[0]*c,
			r[2]*s + 2*u*r[1]*c - u*u*r[0]*s
	default:
		return r[3]*c - 3*u*r[2]*s - 3*u*u*r[1]*c + u*u*u*r[0]*s,
			r[3]*s + 3*u*r[2]*c - 3*u*u*r[1]*s - u*u*u*r[0]*c
	}
}

func (c *RZFourier) eval(k int) [][3]float64 {
	vals := c.store.FullX()
	out := make([][3]float64, len(c.quad))
	for i := range c.quad {
		r, z := c.radial(i, vals)
		x, y := cylToCart(&r, k, c.sinA[i], c.cosA[i])
		out[i] = [3]float64{x, y, z[k]}
	}
	return out
}

func (c *RZFourier) jac(k int) *mat.Dense {
	n := len(c.quad)
	nd := c.store.NumFull()
	out := mat.NewDense(3*n, nd, nil)
	for i := 0; i < n; i++ {
		s, co := c.sinA[i], c.cosA[i]
		rowx := out.RawRowView(3 * i)
		rowy := out.RawRowView(3*i + 1)
		rowz := out.RawRowView(3*i + 2)
		for m := 0; m <= c.order; m++ {
			omega := 2 * math.Pi * float64(c.nfp) * float64(m)
			sv, cv := c.sinT[i][m], c.cosT[i][m]
			var bk [4]float64
			for q := 0; q < 4; q++ {
				bk[q] = trigDeriv(sv, cv, omega, false, q)
			}
			x, y := cylToCart(&bk, k, s, co)
			rowx[c.idxRC(m)] = x
			rowy[c.idxRC(m)] = y
			if !c.stellsym {
				rowz[c.idxZC(m)] = trigDeriv(sv, cv, omega, false, k)
			}
			if m >= 1 {
				for q := 0; q < 4; q++ {
					bk[q] = trigDeriv(sv, cv, omega, true, q)
				}
				if !c.stellsym {
					x, y = cylToCart(&bk, k, s, co)
					rowx[c.idxRS(m)] = x
					rowy[c.idxRS(m)] = y
				}
				rowz[c.idxZS(m)] = trigDeriv(sv, cv, omega, true, k)
			}
		}
	}
	return out
}

func (c *RZFourier) gammaImpl() [][3]float64             { return c.eval(0) }
func (c *RZFourier) gammaDashImpl() [][3]float64         { return c.eval(1) }
func (c *RZFourier) gammaDashDashImpl() [][3]float64     { return c.eval(2) }
func (c *RZFourier) gammaDashDashDashImpl() [][3]float64 { return c.eval(3) }

func (c *RZFourier) gammaJacImpl() *mat.Dense             { return c.jac(0) }
func (c *RZFourier) gammaDashJacImpl() *mat.Dense         { return c.jac(1) }
func (c *RZFourier) gammaDashDashJacImpl() *mat.Dense     { return c.jac(2) }
func (c *RZFourier) gammaDashDashDashJacImpl() *mat.Dense { return c.jac(3) }

// pointAt evaluates Γ at an arbitrary parameter value, outside the
// owned grid. Used by the conversion fit.
func (c *RZFourier) pointAt(t float64, vals []float64) [3]float64 {
	var r, z float64
	for m := 0; m <= c.order; m++ {
		ang := 2 * math.Pi * float64(c.nfp) * float64(m) * t
		sv, cv := math.Sin(ang), math.Cos(ang)
		r += vals[c.idxRC(m)] * cv
		if !c.stellsym {
			z += vals[c.idxZC(m)] * cv
		}
		if m >= 1 {
			if !c.stellsym {
				r += vals[c.idxRS(m)] * sv
			}
			z += vals[c.idxZS(m)] * sv
		}
	}
	return [3]float64{r * math.Cos(2*math.Pi*t), r * math.Sin(2*math.Pi*t), z}
}

// ToXYZ converts the curve to the XYZFourier representation. The result
// is exact: the radial series in n_fp·m harmonics times the embedding
// rotation produces Cartesian harmonics up to n_fp·order+1, so the
// target order must be at least that. Smaller targets return
// ErrNotRepresentable rather than truncating. The new curve reuses this
// curve's quadrature points and starts with every dof free.
func (c *RZFourier) ToXYZ(order int) (*XYZFourier, error) {
	need := c.nfp*c.order + 1
	if order < need {
		return nil, fmt.Errorf("%w: need order ≥ %d, got %d", ErrNotRepresentable, need, order)
	}
	target, err := NewXYZFourier(order, WithQuadPoints(c.quad))
	if err != nil {
		return nil, err
	}

	// Discrete Fourier projection on a grid dense enough to resolve
	// both bases exactly.
	nGrid := 2*order + 3
	vals := c.store.FullX()
	samples := make([][3]float64, nGrid)
	for kk := 0; kk < nGrid; kk++ {
		samples[kk] = c.pointAt(float64(kk)/float64(nGrid), vals)
	}

	out := make([]float64, target.NumDofs())
	stride := 2*order + 1
	for a := 0; a < 3; a++ {
		off := a * stride
		var c0 float64
		for kk := 0; kk < nGrid; kk++ {
			c0 += samples[kk][a]
		}
		out[off] = c0 / float64(nGrid)
		for m := 1; m <= order; m++ {
			var sc, cc float64
			for kk := 0; kk < nGrid; kk++ {
				ang := 2 * math.Pi * float64(m) * float64(kk) / float64(nGrid)
				sc += samples[kk][a] * math.Sin(ang)
				cc += samples[kk][a] * math.Cos(ang)
			}
			out[off+2*m-1] = 2 * sc / float64(nGrid)
			out[off+2*m] = 2 * cc / float64(nGrid)
		}
	}
	if err := target.store.SetFullX(out); err != nil {
		return nil, err
	}
	return target, nil
}
