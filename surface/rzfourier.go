package surface

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/stelgeo/dofs"
	"github.com/katalvlaran/stelgeo/quadrature"
)

// rzKind selects one of the four coefficient families of the canonical
// basis.
type rzKind uint8

const (
	rcKind rzKind = iota
	rsKind
	zcKind
	zsKind
)

// rzMode is one Fourier term: coefficient family, poloidal and toroidal
// mode numbers, and the column of the dof vector holding it.
type rzMode struct {
	kind rzKind
	m, n int
	col  int
}

type rzKey struct {
	kind rzKind
	m, n int
}

// RZFourier is the canonical surface basis,
//
//	R(φ,θ) = Σ rc(m,n)·cos(2π(mθ − n_fp·n·φ)) + rs(m,n)·sin(...)
//	Z(φ,θ) = Σ zc(m,n)·cos(...)              + zs(m,n)·sin(...)
//	Γ      = (R·cos 2πφ, R·sin 2πφ, Z)
//
// with m = 0..mpol and n = −ntor..ntor. On the m = 0 row only n ≥ 0
// cosine and n ≥ 1 sine terms are independent; the rest are
// structurally absent. Stellarator symmetry keeps rc and zs only. Dof
// order is rc, rs, zc, zs (the middle two absent under symmetry), each
// family row-major in (m, n).
type RZFourier struct {
	Base
	mpol, ntor, nfp int
	stellsym        bool

	modes []rzMode
	cols  map[rzKey]int

	cosMT, sinMT [][]float64 // cos/sin(2π m θ_j), m = 0..mpol
	cosNP, sinNP [][]float64 // cos/sin(2π nfp n φ_i), n = 0..ntor
	cosPE, sinPE []float64   // cos/sin(2π φ_i)
}

// NewRZFourier constructs the canonical surface with all coefficients
// zero.
func NewRZFourier(mpol, ntor, nfp int, stellsym bool, opts ...Option) (*RZFourier, error) {
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

	s := &RZFourier{mpol: mpol, ntor: ntor, nfp: nfp, stellsym: stellsym, cols: make(map[rzKey]int)}

	kinds := []rzKind{rcKind, zsKind}
	if !stellsym {
		kinds = []rzKind{rcKind, rsKind, zcKind, zsKind}
	}
	var names []string
	for _, kind := range kinds {
		prefix := [...]string{"rc", "rs", "zc", "zs"}[kind]
		cosine := kind == rcKind || kind == zcKind
		nmin0 := 0
		if !cosine {
			nmin0 = 1
		}
		for n := nmin0; n <= ntor; n++ {
			s.addMode(kind, 0, n, len(names))
			names = append(names, fmt.Sprintf("%s(0,%d)", prefix, n))
		}
		for m := 1; m <= mpol; m++ {
			for n := -ntor; n <= ntor; n++ {
				s.addMode(kind, m, n, len(names))
				names = append(names, fmt.Sprintf("%s(%d,%d)", prefix, m, n))
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

func (s *RZFourier) addMode(kind rzKind, m, n, col int) {
	s.modes = append(s.modes, rzMode{kind: kind, m: m, n: n, col: col})
	s.cols[rzKey{kind: kind, m: m, n: n}] = col
}

func (s *RZFourier) buildTables() {
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

// Mpol returns the poloidal truncation order.
func (s *RZFourier) Mpol() int { return s.mpol }

// Ntor returns the toroidal truncation order.
func (s *RZFourier) Ntor() int { return s.ntor }

// StellSym reports whether the surface is stellarator symmetric.
func (s *RZFourier) StellSym() bool { return s.stellsym }

// ToRZFourier returns the surface itself: it is already canonical.
func (s *RZFourier) ToRZFourier() (*RZFourier, error) { return s, nil }

// trig returns cos and sin of 2π(mθ_j − nfp·n·φ_i).
func (s *RZFourier) trig(m, n, i, j int) (c, sn float64) {
	ca, sa := s.cosMT[m][j], s.sinMT[m][j]
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

func (s *RZFourier) gammaImpl() [][][3]float64 {
	x := s.store.FullX()
	out := alloc2(len(s.phi), len(s.theta))
	for i := range s.phi {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := range s.theta {
			var r, z float64
			for _, md := range s.modes {
				cosang, sinang := s.trig(md.m, md.n, i, j)
				v := x[md.col]
				switch md.kind {
				case rcKind:
					r += v * cosang
				case rsKind:
					r += v * sinang
				case zcKind:
					z += v * cosang
				default:
					z += v * sinang
				}
			}
			out[i][j] = [3]float64{r * ce, r * se, z}
		}
	}
	return out
}

func (s *RZFourier) gammaDash1Impl() [][][3]float64 {
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
				switch md.kind {
				case rcKind:
					r += v * cosang
					rp += v * fp * sinang
				case rsKind:
					r += v * sinang
					rp -= v * fp * cosang
				case zcKind:
					zp += v * fp * sinang
				default:
					zp -= v * fp * cosang
				}
			}
			out[i][j] = [3]float64{rp*ce - twoPi*r*se, rp*se + twoPi*r*ce, zp}
		}
	}
	return out
}

func (s *RZFourier) gammaDash2Impl() [][][3]float64 {
	twoPi := 2 * math.Pi
	x := s.store.FullX()
	out := alloc2(len(s.phi), len(s.theta))
	for i := range s.phi {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := range s.theta {
			var rt, zt float64
			for _, md := range s.modes {
				cosang, sinang := s.trig(md.m, md.n, i, j)
				ft := twoPi * float64(md.m)
				v := x[md.col]
				switch md.kind {
				case rcKind:
					rt -= v * ft * sinang
				case rsKind:
					rt += v * ft * cosang
				case zcKind:
					zt -= v * ft * sinang
				default:
					zt += v * ft * cosang
				}
			}
			out[i][j] = [3]float64{rt * ce, rt * se, zt}
		}
	}
	return out
}

func (s *RZFourier) gammaJacImpl() *mat.Dense {
	nphi, ntheta := len(s.phi), len(s.theta)
	out := mat.NewDense(3*nphi*ntheta, s.store.NumFull(), nil)
	for i := 0; i < nphi; i++ {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := 0; j < ntheta; j++ {
			rx, ry, rz := jacRows(out, i*ntheta+j)
			for _, md := range s.modes {
				cosang, sinang := s.trig(md.m, md.n, i, j)
				switch md.kind {
				case rcKind:
					rx[md.col] = cosang * ce
					ry[md.col] = cosang * se
				case rsKind:
					rx[md.col] = sinang * ce
					ry[md.col] = sinang * se
				case zcKind:
					rz[md.col] = cosang
				default:
					rz[md.col] = sinang
				}
			}
		}
	}
	return out
}

func (s *RZFourier) gammaDash1JacImpl() *mat.Dense {
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
				switch md.kind {
				case rcKind:
					rx[md.col] = fp*sinang*ce - twoPi*cosang*se
					ry[md.col] = fp*sinang*se + twoPi*cosang*ce
				case rsKind:
					rx[md.col] = -fp*cosang*ce - twoPi*sinang*se
					ry[md.col] = -fp*cosang*se + twoPi*sinang*ce
				case zcKind:
					rz[md.col] = fp * sinang
				default:
					rz[md.col] = -fp * cosang
				}
			}
		}
	}
	return out
}

func (s *RZFourier) gammaDash2JacImpl() *mat.Dense {
	twoPi := 2 * math.Pi
	nphi, ntheta := len(s.phi), len(s.theta)
	out := mat.NewDense(3*nphi*ntheta, s.store.NumFull(), nil)
	for i := 0; i < nphi; i++ {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := 0; j < ntheta; j++ {
			rx, ry, rz := jacRows(out, i*ntheta+j)
			for _, md := range s.modes {
				cosang, sinang := s.trig(md.m, md.n, i, j)
				ft := twoPi * float64(md.m)
				switch md.kind {
				case rcKind:
					rx[md.col] = -ft * sinang * ce
					ry[md.col] = -ft * sinang * se
				case rsKind:
					rx[md.col] = ft * cosang * ce
					ry[md.col] = ft * cosang * se
				case zcKind:
					rz[md.col] = -ft * sinang
				default:
					rz[md.col] = ft * cosang
				}
			}
		}
	}
	return out
}

// coeffIndex returns the dof column of a coefficient, or false when the
// (kind, m, n) triple is structurally absent.
func (s *RZFourier) coeffIndex(kind rzKind, m, n int) (int, bool) {
	col, ok := s.cols[rzKey{kind: kind, m: m, n: n}]
	return col, ok
}

// coeff reads a coefficient from a full dof vector; absent triples read
// as zero.
func (s *RZFourier) coeff(x []float64, kind rzKind, m, n int) float64 {
	if col, ok := s.coeffIndex(kind, m, n); ok {
		return x[col]
	}
	return 0
}
