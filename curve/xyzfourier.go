package curve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/stelgeo/dofs"
	"github.com/katalvlaran/stelgeo/quadrature"
)

// trigDeriv returns the k-th parameter derivative of the basis function
// sin(ωθ) (sinKind) or cos(ωθ), given the precomputed sinv = sin(ωθ)
// and cosv = cos(ωθ).
func trigDeriv(sinv, cosv, omega float64, sinKind bool, k int) float64 {
	switch k {
	case 0:
		if sinKind {
			return sinv
		}
		return cosv
	case 1:
		if sinKind {
			return omega * cosv
		}
		return -omega * sinv
	case 2:
		w2 := omega * omega
		if sinKind {
			return -w2 * sinv
		}
		return -w2 * cosv
	default:
		w3 := omega * omega * omega
		if sinKind {
			return -w3 * cosv
		}
		return w3 * sinv
	}
}

// XYZFourier is the general closed-curve representation: each Cartesian
// component is an independent truncated Fourier series
//
//	Γ_x(θ) = xc(0) + Σ_{m=1..order} xs(m)·sin(2πmθ) + xc(m)·cos(2πmθ)
//
// and likewise for y and z. Dofs are named xc(0), xs(1), xc(1), ...,
// yc(0), ..., zc(order), in that order; all start at zero.
type XYZFourier struct {
	Base
	order int
	// basis tables over the fixed grid: sin/cos(2πm θ_i), m = 0..order
	sinT [][]float64
	cosT [][]float64
}

// NewXYZFourier builds an XYZFourier curve of the given order with all
// coefficients zero. Without options the grid has 15·order uniform
// points. Returns ErrOrder for order < 1 and the quadrature sentinels
// for grid conflicts.
func NewXYZFourier(order int, opts ...Option) (*XYZFourier, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: need at least 1, got %d", ErrOrder, order)
	}
	o := applyOptions(opts)
	quad, err := quadrature.Resolve(o.numQuad, o.quad, 15*order)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, 3*(2*order+1))
	for _, ax := range []string{"x", "y", "z"} {
		names = append(names, ax+"c(0)")
		for m := 1; m <= order; m++ {
			names = append(names, fmt.Sprintf("%ss(%d)", ax, m))
			names = append(names, fmt.Sprintf("%sc(%d)", ax, m))
		}
	}
	st, err := dofs.NewStore(names, make([]float64, len(names)))
	if err != nil {
		return nil, err
	}

	c := &XYZFourier{order: order}
	c.sinT = make([][]float64, len(quad))
	c.cosT = make([][]float64, len(quad))
	for i, t := range quad {
		si := make([]float64, order+1)
		co := make([]float64, order+1)
		for m := 0; m <= order; m++ {
			si[m] = math.Sin(2 * math.Pi * float64(m) * t)
			co[m] = math.Cos(2 * math.Pi * float64(m) * t)
		}
		c.sinT[i], c.cosT[i] = si, co
	}
	c.Base = newBase(st, quad, c)
	return c, nil
}

// Order returns the Fourier truncation order.
func (c *XYZFourier) Order() int { return c.order }

// stride is the per-axis dof count.
func (c *XYZFourier) stride() int { return 2*c.order + 1 }

func (c *XYZFourier) eval(k int) [][3]float64 {
	vals := c.store.FullX()
	n := len(c.quad)
	st := c.stride()
	out := make([][3]float64, n)
	for i := 0; i < n; i++ {
		for a := 0; a < 3; a++ {
			off := a * st
			var sum float64
			if k == 0 {
				sum = vals[off]
			}
			for m := 1; m <= c.order; m++ {
				omega := 2 * math.Pi * float64(m)
				sv, cv := c.sinT[i][m], c.cosT[i][m]
				sum += vals[off+2*m-1]*trigDeriv(sv, cv, omega, true, k) +
					vals[off+2*m]*trigDeriv(sv, cv, omega, false, k)
			}
			out[i][a] = sum
		}
	}
	return out
}

func (c *XYZFourier) jac(k int) *mat.Dense {
	n := len(c.quad)
	st := c.stride()
	out := mat.NewDense(3*n, 3*st, nil)
	for i := 0; i < n; i++ {
		for a := 0; a < 3; a++ {
			row := out.RawRowView(3*i + a)
			off := a * st
			if k == 0 {
				row[off] = 1
			}
			for m := 1; m <= c.order; m++ {
				omega := 2 * math.Pi * float64(m)
				sv, cv := c.sinT[i][m], c.cosT[i][m]
				row[off+2*m-1] = trigDeriv(sv, cv, omega, true, k)
				row[off+2*m] = trigDeriv(sv, cv, omega, false, k)
			}
		}
	}
	return out
}

func (c *XYZFourier) gammaImpl() [][3]float64             { return c.eval(0) }
func (c *XYZFourier) gammaDashImpl() [][3]float64         { return c.eval(1) }
func (c *XYZFourier) gammaDashDashImpl() [][3]float64     { return c.eval(2) }
func (c *XYZFourier) gammaDashDashDashImpl() [][3]float64 { return c.eval(3) }

func (c *XYZFourier) gammaJacImpl() *mat.Dense             { return c.jac(0) }
func (c *XYZFourier) gammaDashJacImpl() *mat.Dense         { return c.jac(1) }
func (c *XYZFourier) gammaDashDashJacImpl() *mat.Dense     { return c.jac(2) }
func (c *XYZFourier) gammaDashDashDashJacImpl() *mat.Dense { return c.jac(3) }
