package surface

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/stelgeo/dofs"
)

type hennKind uint8

const (
	r0Kind hennKind = iota
	bKind
	rhoKind
)

// hennMode is one Henneberg dof: family, mode numbers (m unused for the
// axis and width profiles) and the dof column.
type hennMode struct {
	kind hennKind
	m, n int
	col  int
}

// Henneberg is the compact stellarator-symmetric representation of
// Henneberg and Helander. A planar cross-section frame rotates by
// α = alphaFac·n_fp/2 per toroidal turn; within it
//
//	ρ(θ,φ) = Σ rhomn(m,n)·cos(2π(mθ − n_fp·n·φ))
//	ζ(θ,φ) = b(φ)·sin(2πθ)
//
// and the cylindrical coordinates follow as
//
//	R = R0H(φ) + ρ·cos(α̂φ) − ζ·sin(α̂φ)
//	Z = ζ·cos(α̂φ) + ρ·sin(α̂φ)
//
// with R0H and b cosine series Σ c_n·cos(2π n_fp n φ) and
// α̂ = alphaFac·n_fp·π. With alphaFac = 0 the frame does not rotate and
// the representation reduces to a constrained canonical surface; with
// alphaFac = ±1 the half-period frame rotation carries the cross
// section shaping that makes the basis compact.
type Henneberg struct {
	Base
	mmax, nmax, nfp int
	alphaFac        int

	modes []hennMode

	cosMT, sinMT [][]float64 // cos/sin(2π m θ_j), m = 0..mmax
	cosNP, sinNP [][]float64 // cos/sin(2π nfp n φ_i), n = 0..nmax
	cosAL, sinAL []float64   // cos/sin(α̂ φ_i)
	cosPE, sinPE []float64
	dAlpha       float64 // α̂ = dα/dφ
}

// NewHenneberg constructs the surface with all coefficients zero.
func NewHenneberg(mmax, nmax, nfp, alphaFac int, opts ...Option) (*Henneberg, error) {
	if mmax < 1 {
		return nil, fmt.Errorf("%w: mmax=%d", ErrMpol, mmax)
	}
	if nmax < 0 {
		return nil, fmt.Errorf("%w: nmax=%d", ErrNtor, nmax)
	}
	if nfp < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNfp, nfp)
	}
	if alphaFac < -1 || alphaFac > 1 {
		return nil, fmt.Errorf("%w: got %d", ErrAlphaFac, alphaFac)
	}
	grid, err := buildGrid(nfp, opts)
	if err != nil {
		return nil, err
	}

	s := &Henneberg{mmax: mmax, nmax: nmax, nfp: nfp, alphaFac: alphaFac}
	var names []string
	for n := 0; n <= nmax; n++ {
		s.modes = append(s.modes, hennMode{kind: r0Kind, n: n, col: len(names)})
		names = append(names, fmt.Sprintf("R0nH(%d)", n))
	}
	for n := 0; n <= nmax; n++ {
		s.modes = append(s.modes, hennMode{kind: bKind, n: n, col: len(names)})
		names = append(names, fmt.Sprintf("bn(%d)", n))
	}
	for m := 0; m <= mmax; m++ {
		nmin := -nmax
		if m == 0 {
			nmin = 1
		}
		for n := nmin; n <= nmax; n++ {
			s.modes = append(s.modes, hennMode{kind: rhoKind, m: m, n: n, col: len(names)})
			names = append(names, fmt.Sprintf("rhomn(%d,%d)", m, n))
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

func (s *Henneberg) buildTables() {
	twoPi := 2 * math.Pi
	s.cosMT = make([][]float64, s.mmax+1)
	s.sinMT = make([][]float64, s.mmax+1)
	for m := 0; m <= s.mmax; m++ {
		s.cosMT[m] = make([]float64, len(s.theta))
		s.sinMT[m] = make([]float64, len(s.theta))
		for j, t := range s.theta {
			s.cosMT[m][j] = math.Cos(twoPi * float64(m) * t)
			s.sinMT[m][j] = math.Sin(twoPi * float64(m) * t)
		}
	}
	s.cosNP = make([][]float64, s.nmax+1)
	s.sinNP = make([][]float64, s.nmax+1)
	for n := 0; n <= s.nmax; n++ {
		s.cosNP[n] = make([]float64, len(s.phi))
		s.sinNP[n] = make([]float64, len(s.phi))
		for i, p := range s.phi {
			s.cosNP[n][i] = math.Cos(twoPi * float64(s.nfp*n) * p)
			s.sinNP[n][i] = math.Sin(twoPi * float64(s.nfp*n) * p)
		}
	}
	s.dAlpha = float64(s.alphaFac*s.nfp) * math.Pi
	s.cosAL = make([]float64, len(s.phi))
	s.sinAL = make([]float64, len(s.phi))
	s.cosPE = make([]float64, len(s.phi))
	s.sinPE = make([]float64, len(s.phi))
	for i, p := range s.phi {
		s.cosAL[i] = math.Cos(s.dAlpha * p)
		s.sinAL[i] = math.Sin(s.dAlpha * p)
		s.cosPE[i] = math.Cos(twoPi * p)
		s.sinPE[i] = math.Sin(twoPi * p)
	}
}

// Mmax returns the poloidal truncation order of ρ.
func (s *Henneberg) Mmax() int { return s.mmax }

// Nmax returns the toroidal truncation order.
func (s *Henneberg) Nmax() int { return s.nmax }

// AlphaFac returns the frame rotation factor, −1, 0 or 1.
func (s *Henneberg) AlphaFac() int { return s.alphaFac }

// StellSym reports stellarator symmetry; the Henneberg basis has no
// asymmetric terms.
func (s *Henneberg) StellSym() bool { return true }

// trig returns cos and sin of 2π(mθ_j − nfp·n·φ_i).
func (s *Henneberg) trig(m, n, i, j int) (c, sn float64) {
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

// modeRZ returns the R and Z partials contributed by a unit coefficient
// of mode md at grid point (i,j): the values and their φ and θ
// derivatives. Every dof enters R and Z linearly, so these six numbers
// are the whole story for both evaluation and Jacobians.
func (s *Henneberg) modeRZ(md hennMode, i, j int) (dR, dZ, dRp, dZp, dRt, dZt float64) {
	twoPi := 2 * math.Pi
	ca, sa := s.cosAL[i], s.sinAL[i]
	switch md.kind {
	case r0Kind:
		fp := twoPi * float64(s.nfp*md.n)
		dR = s.cosNP[md.n][i]
		dRp = -fp * s.sinNP[md.n][i]
		return
	case bKind:
		fp := twoPi * float64(s.nfp*md.n)
		s2t, c2t := s.sinMT[1][j], s.cosMT[1][j]
		dz := s.cosNP[md.n][i] * s2t
		dzp := -fp * s.sinNP[md.n][i] * s2t
		dzt := twoPi * s.cosNP[md.n][i] * c2t
		dR = -dz * sa
		dZ = dz * ca
		dRp = -dzp*sa - dz*ca*s.dAlpha
		dZp = dzp*ca - dz*sa*s.dAlpha
		dRt = -dzt * sa
		dZt = dzt * ca
		return
	default:
		cosB, sinB := s.trig(md.m, md.n, i, j)
		ft := twoPi * float64(md.m)
		fp := twoPi * float64(s.nfp*md.n)
		dr := cosB
		drp := fp * sinB
		drt := -ft * sinB
		dR = dr * ca
		dZ = dr * sa
		dRp = drp*ca - dr*sa*s.dAlpha
		dZp = drp*sa + dr*ca*s.dAlpha
		dRt = drt * ca
		dZt = drt * sa
		return
	}
}

func (s *Henneberg) gammaImpl() [][][3]float64 {
	x := s.store.FullX()
	out := alloc2(len(s.phi), len(s.theta))
	for i := range s.phi {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := range s.theta {
			var r, z float64
			for _, md := range s.modes {
				dR, dZ, _, _, _, _ := s.modeRZ(md, i, j)
				r += x[md.col] * dR
				z += x[md.col] * dZ
			}
			out[i][j] = [3]float64{r * ce, r * se, z}
		}
	}
	return out
}

func (s *Henneberg) gammaDash1Impl() [][][3]float64 {
	twoPi := 2 * math.Pi
	x := s.store.FullX()
	out := alloc2(len(s.phi), len(s.theta))
	for i := range s.phi {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := range s.theta {
			var r, rp, zp float64
			for _, md := range s.modes {
				dR, _, dRp, dZp, _, _ := s.modeRZ(md, i, j)
				v := x[md.col]
				r += v * dR
				rp += v * dRp
				zp += v * dZp
			}
			out[i][j] = [3]float64{rp*ce - twoPi*r*se, rp*se + twoPi*r*ce, zp}
		}
	}
	return out
}

func (s *Henneberg) gammaDash2Impl() [][][3]float64 {
	x := s.store.FullX()
	out := alloc2(len(s.phi), len(s.theta))
	for i := range s.phi {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := range s.theta {
			var rt, zt float64
			for _, md := range s.modes {
				_, _, _, _, dRt, dZt := s.modeRZ(md, i, j)
				rt += x[md.col] * dRt
				zt += x[md.col] * dZt
			}
			out[i][j] = [3]float64{rt * ce, rt * se, zt}
		}
	}
	return out
}

func (s *Henneberg) gammaJacImpl() *mat.Dense {
	nphi, ntheta := len(s.phi), len(s.theta)
	out := mat.NewDense(3*nphi*ntheta, s.store.NumFull(), nil)
	for i := 0; i < nphi; i++ {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := 0; j < ntheta; j++ {
			rx, ry, rz := jacRows(out, i*ntheta+j)
			for _, md := range s.modes {
				dR, dZ, _, _, _, _ := s.modeRZ(md, i, j)
				rx[md.col] = dR * ce
				ry[md.col] = dR * se
				rz[md.col] = dZ
			}
		}
	}
	return out
}

func (s *Henneberg) gammaDash1JacImpl() *mat.Dense {
	twoPi := 2 * math.Pi
	nphi, ntheta := len(s.phi), len(s.theta)
	out := mat.NewDense(3*nphi*ntheta, s.store.NumFull(), nil)
	for i := 0; i < nphi; i++ {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := 0; j < ntheta; j++ {
			rx, ry, rz := jacRows(out, i*ntheta+j)
			for _, md := range s.modes {
				dR, _, dRp, dZp, _, _ := s.modeRZ(md, i, j)
				rx[md.col] = dRp*ce - twoPi*dR*se
				ry[md.col] = dRp*se + twoPi*dR*ce
				rz[md.col] = dZp
			}
		}
	}
	return out
}

func (s *Henneberg) gammaDash2JacImpl() *mat.Dense {
	nphi, ntheta := len(s.phi), len(s.theta)
	out := mat.NewDense(3*nphi*ntheta, s.store.NumFull(), nil)
	for i := 0; i < nphi; i++ {
		ce, se := s.cosPE[i], s.sinPE[i]
		for j := 0; j < ntheta; j++ {
			rx, ry, rz := jacRows(out, i*ntheta+j)
			for _, md := range s.modes {
				_, _, _, _, dRt, dZt := s.modeRZ(md, i, j)
				rx[md.col] = dRt * ce
				ry[md.col] = dRt * se
				rz[md.col] = dZt
			}
		}
	}
	return out
}
