package surface

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/stelgeo/dofs"
	"github.com/katalvlaran/stelgeo/quadrature"
)

// tensorMode is one tensor-product term: Cartesian axis of the
// co-rotating frame, φ and θ basis indices, and the dof column.
type tensorMode struct {
	axis uint8 // 0 = x̂, 1 = ŷ, 2 = ẑ
	i, j int
	col  int
}

// XYZTensorFourier represents each component of the position in a frame
// co-rotating with the toroidal angle as a tensor product of 1-D
// Fourier bases,
//
//	x̂(φ,θ) = Σ x(i,j)·w_i(φ)·v_j(θ)    (ŷ, ẑ alike)
//	Γ      = (x̂·cos 2πφ − ŷ·sin 2πφ, x̂·sin 2πφ + ŷ·cos 2πφ, ẑ)
//
// where w runs over {1, cos(2π n_fp k φ), sin(2π n_fp k φ)} up to ntor
// and v over {1, cos(2π k θ), sin(2π k θ)} up to mpol. Basis index 0 is
// the constant, 1..order the cosines, order+1..2·order the sines.
// Stellarator symmetry keeps the even products (cos·cos, sin·sin) for
// x̂ and the odd ones (cos·sin, sin·cos) for ŷ and ẑ.
//
// A nonzero ŷ detaches the parameterization's φ from the cylindrical
// angle of the evaluated point; the canonical basis cannot express such
// surfaces, which is what ToRZFourier reports.
type XYZTensorFourier struct {
	Base
	mpol, ntor, nfp int
	stellsym        bool

	modes []tensorMode
	cols  map[[3]int]int

	wTab, wdTab  [][]float64 // φ basis values and d/dφ, [i][iphi]
	vTab, vdTab  [][]float64 // θ basis values and d/dθ, [j][jtheta]
	cosPE, sinPE []float64
}

// tensorKeep reports whether a coefficient exists under the symmetry
// mask.
func tensorKeep(axis uint8, i, j, mpol, ntor int, stellsym bool) bool {
	if !stellsym {
		return true
	}
	iCos := i <= ntor
	jCos := j <= mpol
	if axis == 0 {
		return iCos == jCos
	}
	return iCos != jCos
}

// NewXYZTensorFourier constructs the tensor-product surface with all
// coefficients zero.
func NewXYZTensorFourier(mpol, ntor, nfp int, stellsym bool, opts ...Option) (*XYZTensorFourier, error) {
	if mpol < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrMpol, mpol)
	}
	if ntor < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNtor, ntor)
	}
	if nfp < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNfp, nfp)
	}
	grid, err := buildGrid(nfp, opts)
	if err != nil {
		return nil, err
	}
	if !stellsym && grid.Range() == quadrature.HalfPeriod {
		return nil, ErrRangeStellsym
	}

	s := &XYZTensorFourier{mpol: mpol, ntor: ntor, nfp: nfp, stellsym: stellsym, cols: make(map[[3]int]int)}

	var names []string
	for axis := uint8(0); axis < 3; axis++ {
		prefix := [...]string{"x", "y", "z"}[axis]
		for i := 0; i <= 2*ntor; i++ {
			for j := 0; j <= 2*mpol; j++ {
				if !tensorKeep(axis, i, j, mpol, ntor, stellsym) {
					continue
				}
				col := len(names)
				s.modes = append(s.modes, tensorMode{axis: axis, i: i, j: j, col: col})
				s.cols[[3]int{int(axis), i, j}] = col
				names = append(names, fmt.Sprintf("%s(%d,%d)", prefix, i, j))
			}
		}
	}

	store, err := dofs.NewStore(names, make([]float64, len(names)))
	if err != nil {
		return nil, err
	}
	s.Base = newBase(store, grid, s)
	s.buildTables()
	return s, nil
}

func (s *XYZTensorFourier) buildTables() {
	twoPi := 2 * math.Pi
	s.wTab = make([][]float64, 2*s.ntor+1)
	s.wdTab = make([][]float64, 2*s.ntor+1)
	for i := range s.wTab {
		s.wTab[i] = make([]float64, len(s.phi))
		s.wdTab[i] = make([]float64, len(s.phi))
		for ip, p := range s.phi {
			switch {
			case i == 0:
				s.wTab[i][ip] = 1
			case i <= s.ntor:
				om := twoPi * float64(s.nfp*i)
				s.wTab[i][ip] = math.Cos(om * p)
				s.wdTab[i][ip] = -om * math.Sin(om*p)
			default:
				om := twoPi * float64(s.nfp*(i-s.ntor))
				s.wTab[i][ip] = math.Sin(om * p)
				s.wdTab[i][ip] = om * math.Cos(om*p)
			}
		}
	}
	s.vTab = make([][]float64, 2*s.mpol+1)
	s.vdTab = make([][]float64, 2*s.mpol+1)
	for j := range s.vTab {
		s.vTab[j] = make([]float64, len(s.theta))
		s.vdTab[j] = make([]float64, len(s.theta))
		for jt, t := range s.theta {
			switch {
			case j == 0:
				s.vTab[j][jt] = 1
			case j <= s.mpol:
				om := twoPi * float64(j)
				s.vTab[j][jt] = math.Cos(om * t)
				s.vdTab[j][jt] = -om * math.Sin(om*t)
			default:
				om := twoPi * float64(j-s.mpol)
				s.vTab[j][jt] = math.Sin(om * t)
				s.vdTab[j][jt] = om * math.Cos(om*t)
			}
		}
	}
	s.cosPE = make([]float64, len(s.phi))
	s.sinPE = make([]float64, len(s.phi))
	for i, p := range s.phi {
		s.cosPE[i] = math.Cos(twoPi * p)
		s.sinPE[i] = math.Sin(twoPi * p)
	}
}

// Mpol returns the poloidal truncation order.
func (s *XYZTensorFourier) Mpol() int { return s.mpol }

// Ntor returns the toroidal truncation order.
func (s *XYZTensorFourier) Ntor() int { return s.ntor }

// StellSym reports whether the surface is stellarator symmetric.
func (s *XYZTensorFourier) StellSym() bool { return s.stellsym }

// frame accumulates x̂, ŷ, ẑ and the requested derivative flavor at one
// grid point: 0 values, 1 ∂φ, 2 ∂θ.
func (s *XYZTensorFourier) frame(x []float64, ip, jt, flavor int) (hx, hy, hz float64) {
	for _, md := range s.modes {
		var b float64
		switch flavor {
		case 0:
			b = s.wTab[md.i][ip] * s.vTab[md.j][jt]
		case 1:
			b = s.wdTab[md.i][ip] * s.vTab[md.j][jt]
		default:
			b = s.wTab[md.i][ip] * s.vdTab[md.j][jt]
		}
		v := x[md.col] * b
		switch md.axis {
		case 0:
			hx += v
		case 1:
			hy += v
		default:
			hz += v
		}
	}
	return hx, hy, hz
}

func (s *XYZTensorFourier) gammaImpl() [][][3]float64 {
	x := s.store.FullX()
	out := alloc2(len(s.phi), len(s.theta))
	for i := range s.phi {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := range s.theta {
			hx, hy, hz := s.frame(x, i, j, 0)
			out[i][j] = [3]float64{hx*ce - hy*se, hx*se + hy*ce, hz}
		}
	}
	return out
}

func (s *XYZTensorFourier) gammaDash1Impl() [][][3]float64 {
	twoPi := 2 * math.Pi
	x := s.store.FullX()
	out := alloc2(len(s.phi), len(s.theta))
	for i := range s.phi {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := range s.theta {
			hx, hy, _ := s.frame(x, i, j, 0)
			dx, dy, dz := s.frame(x, i, j, 1)
			p := dx - twoPi*hy
			q := twoPi*hx + dy
			out[i][j] = [3]float64{p*ce - q*se, p*se + q*ce, dz}
		}
	}
	return out
}

func (s *XYZTensorFourier) gammaDash2Impl() [][][3]float64 {
	x := s.store.FullX()
	out := alloc2(len(s.phi), len(s.theta))
	for i := range s.phi {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := range s.theta {
			dx, dy, dz := s.frame(x, i, j, 2)
			out[i][j] = [3]float64{dx*ce - dy*se, dx*se + dy*ce, dz}
		}
	}
	return out
}

func (s *XYZTensorFourier) gammaJacImpl() *mat.Dense {
	nphi, ntheta := len(s.phi), len(s.theta)
	out := mat.NewDense(3*nphi*ntheta, s.store.NumFull(), nil)
	for i := 0; i < nphi; i++ {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := 0; j < ntheta; j++ {
			rx, ry, rz := jacRows(out, i*ntheta+j)
			for _, md := range s.modes {
				b := s.wTab[md.i][i] * s.vTab[md.j][j]
				switch md.axis {
				case 0:
					rx[md.col] = b * ce
					ry[md.col] = b * se
				case 1:
					rx[md.col] = -b * se
					ry[md.col] = b * ce
				default:
					rz[md.col] = b
				}
			}
		}
	}
	return out
}

func (s *XYZTensorFourier) gammaDash1JacImpl() *mat.Dense {
	twoPi := 2 * math.Pi
	nphi, ntheta := len(s.phi), len(s.theta)
	out := mat.NewDense(3*nphi*ntheta, s.store.NumFull(), nil)
	for i := 0; i < nphi; i++ {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := 0; j < ntheta; j++ {
			rx, ry, rz := jacRows(out, i*ntheta+j)
			for _, md := range s.modes {
				b := s.wTab[md.i][i] * s.vTab[md.j][j]
				bp := s.wdTab[md.i][i] * s.vTab[md.j][j]
				switch md.axis {
				case 0:
					rx[md.col] = bp*ce - twoPi*b*se
					ry[md.col] = bp*se + twoPi*b*ce
				case 1:
					rx[md.col] = -twoPi*b*ce - bp*se
					ry[md.col] = -twoPi*b*se + bp*ce
				default:
					rz[md.col] = bp
				}
			}
		}
	}
	return out
}

func (s *XYZTensorFourier) gammaDash2JacImpl() *mat.Dense {
	nphi, ntheta := len(s.phi), len(s.theta)
	out := mat.NewDense(3*nphi*ntheta, s.store.NumFull(), nil)
	for i := 0; i < nphi; i++ {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := 0; j < ntheta; j++ {
			rx, ry, rz := jacRows(out, i*ntheta+j)
			for _, md := range s.modes {
				bt := s.wTab[md.i][i] * s.vdTab[md.j][j]
				switch md.axis {
				case 0:
					rx[md.col] = bt * ce
					ry[md.col] = bt * se
				case 1:
					rx[md.col] = -bt * se
					ry[md.col] = bt * ce
				default:
					rz[md.col] = bt
				}
			}
		}
	}
	return out
}
