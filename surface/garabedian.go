package surface

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/stelgeo/dofs"
)

// garaMode is one Garabedian term Δ(m,n) and its dof column.
type garaMode struct {
	m, n int
	col  int
}

// Garabedian encodes a stellarator-symmetric surface through a single
// coefficient family,
//
//	R(φ,θ) =  Σ Δ(m,n)·cos(2π((m−1)θ − n_fp·n·φ))
//	Z(φ,θ) = −Σ Δ(m,n)·sin(2π((m−1)θ − n_fp·n·φ))
//	Γ      = (R·cos 2πφ, R·sin 2πφ, Z)
//
// with m = 1−mpol..1+mpol and n = −ntor..ntor. Δ(1,0) is the major
// radius; Δ(0,0) and Δ(2,0) split the elongation of the cross section.
// The coefficient rectangle is in bijection with the symmetric
// canonical basis of the same orders.
type Garabedian struct {
	Base
	mpol, ntor, nfp int

	modes []garaMode
	cols  map[[2]int]int

	cosMT, sinMT [][]float64 // cos/sin(2π m θ_j), m = 0..mpol
	cosNP, sinNP [][]float64 // cos/sin(2π nfp n φ_i), n = 0..ntor
	cosPE, sinPE []float64
}

// NewGarabedian constructs the surface with all Δ coefficients zero.
func NewGarabedian(mpol, ntor, nfp int, opts ...Option) (*Garabedian, error) {
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

	s := &Garabedian{mpol: mpol, ntor: ntor, nfp: nfp, cols: make(map[[2]int]int)}
	var names []string
	for m := 1 - mpol; m <= 1+mpol; m++ {
		for n := -ntor; n <= ntor; n++ {
			col := len(names)
			s.modes = append(s.modes, garaMode{m: m, n: n, col: col})
			s.cols[[2]int{m, n}] = col
			names = append(names, fmt.Sprintf("Delta(%d,%d)", m, n))
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

func (s *Garabedian) buildTables() {
	twoPi := 2 * math.Pi
	s.cosMT = make([][]float64, s.mpol+1)
	s.sinMT = make([][]float64, s.mpol+1)
	for m := 0; m <= s.mpol; m++ {
		s.cosMT[m] = make([]float64, len(s.theta))
		s.sinMT[m] = make([]float64, len(s.theta))
		for j, t := range s.theta {
			s.cosMT[m][j] = math.Cos(twoPi * float64(m) * t)
			s.sinMT[m][j] = math.Sin(twoPi * float64(m) * t)
		}
	}
	s.cosNP = make([][]float64, s.ntor+1)
	s.sinNP = make([][]float64, s.ntor+1)
	for n := 0; n <= s.ntor; n++ {
		s.cosNP[n] = make([]float64, len(s.phi))
		s.sinNP[n] = make([]float64, len(s.phi))
		for i, p := range s.phi {
			s.cosNP[n][i] = math.Cos(twoPi * float64(s.nfp*n) * p)
			s.sinNP[n][i] = math.Sin(twoPi * float64(s.nfp*n) * p)
		}
	}
	s.cosPE = make([]float64, len(s.phi))
	s.sinPE = make([]float64, len(s.phi))
	for i, p := range s.phi {
		s.cosPE[i] = math.Cos(twoPi * p)
		s.sinPE[i] = math.Sin(twoPi * p)
	}
}

// Mpol returns the poloidal truncation order; m spans 1±mpol.
func (s *Garabedian) Mpol() int { return s.mpol }

// Ntor returns the toroidal truncation order.
func (s *Garabedian) Ntor() int { return s.ntor }

// StellSym reports stellarator symmetry; the Garabedian basis has no
// asymmetric terms.
func (s *Garabedian) StellSym() bool { return true }

// trig returns cos and sin of 2π((m−1)θ_j − nfp·n·φ_i).
func (s *Garabedian) trig(m, n, i, j int) (c, sn float64) {
	mm := m - 1
	am := mm
	if am < 0 {
		am = -am
	}
	ca, sa := s.cosMT[am][j], s.sinMT[am][j]
	if mm < 0 {
		sa = -sa
	}
	an := n
	if an < 0 {
		an = -an
	}
	cb, sb := s.cosNP[an][i], s.sinNP[an][i]
	if n < 0 {
		sb = -sb
	}
	return ca*cb + sa*sb, sa*cb - ca*sb
}

func (s *Garabedian) gammaImpl() [][][3]float64 {
	x := s.store.FullX()
	out := alloc2(len(s.phi), len(s.theta))
	for i := range s.phi {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := range s.theta {
			var r, z float64
			for _, md := range s.modes {
				cosang, sinang := s.trig(md.m, md.n, i, j)
				r += x[md.col] * cosang
				z -= x[md.col] * sinang
			}
			out[i][j] = [3]float64{r * ce, r * se, z}
		}
	}
	return out
}

func (s *Garabedian) gammaDash1Impl() [][][3]float64 {
	twoPi := 2 * math.Pi
	x := s.store.FullX()
	out := alloc2(len(s.phi), len(s.theta))
	for i := range s.phi {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := range s.theta {
			var r, rp, zp float64
			for _, md := range s.modes {
				cosang, sinang := s.trig(md.m, md.n, i, j)
				fp := twoPi * float64(s.nfp*md.n)
				v := x[md.col]
				r += v * cosang
				rp += v * fp * sinang
				zp += v * fp * cosang
			}
			out[i][j] = [3]float64{rp*ce - twoPi*r*se, rp*se + twoPi*r*ce, zp}
		}
	}
	return out
}

func (s *Garabedian) gammaDash2Impl() [][][3]float64 {
	twoPi := 2 * math.Pi
	x := s.store.FullX()
	out := alloc2(len(s.phi), len(s.theta))
	for i := range s.phi {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := range s.theta {
			var rt, zt float64
			for _, md := range s.modes {
				cosang, sinang := s.trig(md.m, md.n, i, j)
				ft := twoPi * float64(md.m-1)
				v := x[md.col]
				rt -= v * ft * sinang
				zt -= v * ft * cosang
			}
			out[i][j] = [3]float64{rt * ce, rt * se, zt}
		}
	}
	return out
}

func (s *Garabedian) gammaJacImpl() *mat.Dense {
	nphi, ntheta := len(s.phi), len(s.theta)
	out := mat.NewDense(3*nphi*ntheta, s.store.NumFull(), nil)
	for i := 0; i < nphi; i++ {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := 0; j < ntheta; j++ {
			rx, ry, rz := jacRows(out, i*ntheta+j)
			for _, md := range s.modes {
				cosang, sinang := s.trig(md.m, md.n, i, j)
				rx[md.col] = cosang * ce
				ry[md.col] = cosang * se
				rz[md.col] = -sinang
			}
		}
	}
	return out
}

func (s *Garabedian) gammaDash1JacImpl() *mat.Dense {
	twoPi := 2 * math.Pi
	nphi, ntheta := len(s.phi), len(s.theta)
	out := mat.NewDense(3*nphi*ntheta, s.store.NumFull(), nil)
	for i := 0; i < nphi; i++ {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := 0; j < ntheta; j++ {
			rx, ry, rz := jacRows(out, i*ntheta+j)
			for _, md := range s.modes {
				cosang, sinang := s.trig(md.m, md.n, i, j)
				fp := twoPi * float64(s.nfp*md.n)
				rx[md.col] = fp*sinang*ce - twoPi*cosang*se
				ry[md.col] = fp*sinang*se + twoPi*cosang*ce
				rz[md.col] = fp * cosang
			}
		}
	}
	return out
}

func (s *Garabedian) gammaDash2JacImpl() *mat.Dense {
	twoPi := 2 * math.Pi
	nphi, ntheta := len(s.phi), len(s.theta)
	out := mat.NewDense(3*nphi*ntheta, s.store.NumFull(), nil)
	for i := 0; i < nphi; i++ {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := 0; j < ntheta; j++ {
			rx, ry, rz := jacRows(out, i*ntheta+j)
			for _, md := range s.modes {
				cosang, sinang := s.trig(md.m, md.n, i, j)
				ft := twoPi * float64(md.m-1)
				rx[md.col] = -ft * sinang * ce
				ry[md.col] = -ft * sinang * se
				rz[md.col] = -ft * cosang
			}
		}
	}
	return out
}
