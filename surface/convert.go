package surface

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ConvTol bounds the coefficient residual a conversion may absorb
// silently. Anything larger means the target basis cannot carry the
// source surface and the conversion returns ErrNotRepresentable instead
// of truncating.
const ConvTol = 1e-10

// gridOpts reproduces the source's quadrature grid on a conversion
// target, so that Gamma arrays stay comparable point for point.
func gridOpts(s Surface) []Option {
	return []Option{
		WithRange(s.Range()),
		WithPhiPoints(s.QuadPhi()),
		WithThetaPoints(s.QuadTheta()),
	}
}

// ToRZFourier converts by product-to-sum expansion of the tensor basis.
// The map is exact and exists only while every ŷ coefficient vanishes;
// a nonzero ŷ moves the evaluated point off the φ half-plane and no
// canonical dof set reproduces that.
func (s *XYZTensorFourier) ToRZFourier() (*RZFourier, error) {
	x := s.store.FullX()
	for _, md := range s.modes {
		if md.axis == 1 && math.Abs(x[md.col]) > ConvTol {
			return nil, fmt.Errorf("%w: y(%d,%d)=%g detaches φ from the cylindrical angle",
				ErrNotRepresentable, md.i, md.j, x[md.col])
		}
	}

	out, err := NewRZFourier(s.mpol, s.ntor, s.nfp, s.stellsym, gridOpts(s)...)
	if err != nil {
		return nil, err
	}
	y := make([]float64, out.store.NumFull())
	add := func(kind rzKind, m, n int, v float64) {
		if col, ok := out.coeffIndex(kind, m, n); ok {
			y[col] += v
		}
	}

	// With ŷ ≡ 0 the frame component x̂ is the cylindrical radius and ẑ
	// the height. Each product w_i(φ)·v_j(θ) splits into the canonical
	// angles 2π(mθ − n_fp·n·φ) at n and −n.
	for _, md := range s.modes {
		v := x[md.col]
		if md.axis == 1 {
			continue
		}
		kc, ks := rcKind, rsKind
		if md.axis == 2 {
			kc, ks = zcKind, zsKind
		}
		phiConst := md.i == 0
		phiCos := md.i >= 1 && md.i <= s.ntor
		n := md.i
		if md.i > s.ntor {
			n = md.i - s.ntor
		}
		thetaConst := md.j == 0
		thetaCos := md.j >= 1 && md.j <= s.mpol
		m := md.j
		if md.j > s.mpol {
			m = md.j - s.mpol
		}
		switch {
		case phiConst && thetaConst:
			add(kc, 0, 0, v)
		case phiConst && thetaCos:
			add(kc, m, 0, v)
		case phiConst:
			add(ks, m, 0, v)
		case thetaConst && phiCos:
			add(kc, 0, n, v)
		case thetaConst:
			add(ks, 0, n, -v)
		case phiCos && thetaCos:
			add(kc, m, n, v/2)
			add(kc, m, -n, v/2)
		case !phiCos && !thetaCos:
			add(kc, m, n, v/2)
			add(kc, m, -n, -v/2)
		case phiCos:
			add(ks, m, n, v/2)
			add(ks, m, -n, v/2)
		default:
			add(ks, m, -n, v/2)
			add(ks, m, n, -v/2)
		}
	}
	if err := out.store.SetFullX(y); err != nil {
		return nil, err
	}
	return out, nil
}

// TensorFromRZ expresses a canonical surface in the tensor-product
// basis at the given truncation orders. The reverse product-to-sum map
// is exact; a source coefficient whose target cell falls outside the
// requested orders fails the conversion with ErrNotRepresentable unless
// it is below ConvTol.
func TensorFromRZ(src *RZFourier, mpol, ntor int) (*XYZTensorFourier, error) {
	out, err := NewXYZTensorFourier(mpol, ntor, src.Nfp(), src.StellSym(), gridOpts(src)...)
	if err != nil {
		return nil, err
	}
	x := src.store.FullX()
	names := src.store.Names()
	y := make([]float64, out.store.NumFull())
	add := func(axis uint8, i, j int, v float64) {
		if col, ok := out.cols[[3]int{int(axis), i, j}]; ok {
			y[col] += v
		}
	}

	// Basis indices of the target: cos(2πmθ) sits at j=m, sin at
	// j=mpol+m, and likewise for φ with ntor; index 0 is the constant.
	for _, md := range src.modes {
		v := x[md.col]
		a := md.n
		sign := 1.0
		if a < 0 {
			a = -a
			sign = -1
		}
		if md.m > mpol || a > ntor {
			if math.Abs(v) > ConvTol {
				return nil, fmt.Errorf("%w: %s exceeds mpol=%d, ntor=%d",
					ErrNotRepresentable, names[md.col], mpol, ntor)
			}
			continue
		}
		var axis uint8
		if md.kind == zcKind || md.kind == zsKind {
			axis = 2
		}
		cosOf := md.kind == rcKind || md.kind == zcKind
		jc, js := md.m, mpol+md.m
		ic, is := a, ntor+a

		switch {
		case md.m == 0 && md.n == 0:
			add(axis, 0, 0, v)
		case md.n == 0 && cosOf:
			add(axis, 0, jc, v)
		case md.n == 0:
			add(axis, 0, js, v)
		case md.m == 0 && cosOf:
			add(axis, ic, 0, v)
		case md.m == 0:
			add(axis, is, 0, -sign*v)
		case cosOf:
			// cos(A−B) = cosA·cosB + sinA·sinB
			add(axis, ic, jc, v)
			add(axis, is, js, sign*v)
		default:
			// sin(A−B) = sinA·cosB − cosA·sinB
			add(axis, ic, js, v)
			add(axis, is, jc, -sign*v)
		}
	}
	if err := out.store.SetFullX(y); err != nil {
		return nil, err
	}
	return out, nil
}

// ToRZFourier converts by the exact linear index map: every canonical
// mode (m,n) collects Δ(1−m,−n) + Δ(1+m,n) into rc and
// Δ(1−m,−n) − Δ(1+m,n) into zs.
func (s *Garabedian) ToRZFourier() (*RZFourier, error) {
	out, err := NewRZFourier(s.mpol, s.ntor, s.nfp, true, gridOpts(s)...)
	if err != nil {
		return nil, err
	}
	x := s.store.FullX()
	get := func(m, n int) float64 {
		if col, ok := s.cols[[2]int{m, n}]; ok {
			return x[col]
		}
		return 0
	}
	y := make([]float64, out.store.NumFull())
	for m := 0; m <= s.mpol; m++ {
		nmin := -s.ntor
		if m == 0 {
			nmin = 0
		}
		for n := nmin; n <= s.ntor; n++ {
			if m == 0 && n == 0 {
				// Both index maps land on Δ(1,0), which alone carries
				// the major radius.
				col, _ := out.coeffIndex(rcKind, 0, 0)
				y[col] = get(1, 0)
				continue
			}
			d1 := get(1-m, -n)
			d2 := get(1+m, n)
			if col, ok := out.coeffIndex(rcKind, m, n); ok {
				y[col] = d1 + d2
			}
			if col, ok := out.coeffIndex(zsKind, m, n); ok {
				y[col] = d1 - d2
			}
		}
	}
	if err := out.store.SetFullX(y); err != nil {
		return nil, err
	}
	return out, nil
}

// GarabedianFromRZ inverts the index map exactly. The Garabedian basis
// has no asymmetric terms, so the source must be stellarator symmetric.
func GarabedianFromRZ(src *RZFourier) (*Garabedian, error) {
	if !src.StellSym() {
		return nil, ErrStellsym
	}
	out, err := NewGarabedian(src.Mpol(), src.Ntor(), src.Nfp(), gridOpts(src)...)
	if err != nil {
		return nil, err
	}
	x := src.store.FullX()
	y := make([]float64, out.store.NumFull())
	set := func(m, n int, v float64) {
		if col, ok := out.cols[[2]int{m, n}]; ok {
			y[col] = v
		}
	}
	for m := 0; m <= src.Mpol(); m++ {
		nmin := -src.Ntor()
		if m == 0 {
			nmin = 0
		}
		for n := nmin; n <= src.Ntor(); n++ {
			rc := src.coeff(x, rcKind, m, n)
			zs := src.coeff(x, zsKind, m, n)
			if m == 0 && n == 0 {
				set(1, 0, rc)
				continue
			}
			set(1-m, -n, (rc+zs)/2)
			set(1+m, n, (rc-zs)/2)
		}
	}
	if err := out.store.SetFullX(y); err != nil {
		return nil, err
	}
	return out, nil
}

// ToRZFourier converts exactly when the cross-section frame does not
// rotate. With alphaFac = ±1 the factors cos(±n_fp·π·φ) put
// half-period harmonics into R and Z that no canonical mode carries, so
// the conversion refuses rather than truncate.
func (s *Henneberg) ToRZFourier() (*RZFourier, error) {
	if s.alphaFac != 0 {
		return nil, fmt.Errorf("%w: alphaFac=%d mixes half-period harmonics into R and Z",
			ErrNotRepresentable, s.alphaFac)
	}
	out, err := NewRZFourier(s.mmax, s.nmax, s.nfp, true, gridOpts(s)...)
	if err != nil {
		return nil, err
	}
	x := s.store.FullX()
	y := make([]float64, out.store.NumFull())
	add := func(kind rzKind, m, n int, v float64) {
		if col, ok := out.coeffIndex(kind, m, n); ok {
			y[col] += v
		}
	}
	// At alphaFac = 0: R = R0H(φ) + ρ(θ,φ) and Z = b(φ)·sin(2πθ).
	for _, md := range s.modes {
		v := x[md.col]
		switch md.kind {
		case r0Kind:
			add(rcKind, 0, md.n, v)
		case bKind:
			if md.n == 0 {
				add(zsKind, 1, 0, v)
			} else {
				add(zsKind, 1, md.n, v/2)
				add(zsKind, 1, -md.n, v/2)
			}
		default:
			add(rcKind, md.m, md.n, v)
		}
	}
	if err := out.store.SetFullX(y); err != nil {
		return nil, err
	}
	return out, nil
}

// HennebergFromRZ projects a stellarator-symmetric canonical surface
// onto the Henneberg basis by least squares over the coefficient map
// and verifies the fit. Only alphaFac = 0 can reproduce a canonical
// surface pointwise; the rotating frames sample half-period harmonics
// the canonical basis never emits. The ρ(0,n) coefficients duplicate
// R0nH(n) in the non-rotating frame and stay pinned at zero.
//
// A canonical surface with zs energy outside the m = 1 row, or with
// zs(1,n) ≠ zs(1,−n), has no Henneberg image; the residual check
// reports the first coefficient left behind.
func HennebergFromRZ(src *RZFourier, alphaFac int) (*Henneberg, error) {
	if alphaFac < -1 || alphaFac > 1 {
		return nil, fmt.Errorf("%w: got %d", ErrAlphaFac, alphaFac)
	}
	if alphaFac != 0 {
		return nil, fmt.Errorf("%w: alphaFac=%d mixes half-period harmonics into R and Z",
			ErrNotRepresentable, alphaFac)
	}
	if !src.StellSym() {
		return nil, ErrStellsym
	}
	out, err := NewHenneberg(src.Mpol(), src.Ntor(), src.Nfp(), 0, gridOpts(src)...)
	if err != nil {
		return nil, err
	}

	var ls []hennMode
	for _, md := range out.modes {
		if md.kind == rhoKind && md.m == 0 {
			continue
		}
		ls = append(ls, md)
	}
	rows := src.store.NumFull()
	a := mat.NewDense(rows, len(ls), nil)
	for k, md := range ls {
		switch md.kind {
		case r0Kind:
			if col, ok := src.coeffIndex(rcKind, 0, md.n); ok {
				a.Set(col, k, 1)
			}
		case bKind:
			if md.n == 0 {
				if col, ok := src.coeffIndex(zsKind, 1, 0); ok {
					a.Set(col, k, 1)
				}
				break
			}
			if col, ok := src.coeffIndex(zsKind, 1, md.n); ok {
				a.Set(col, k, 0.5)
			}
			if col, ok := src.coeffIndex(zsKind, 1, -md.n); ok {
				a.Set(col, k, 0.5)
			}
		default:
			if col, ok := src.coeffIndex(rcKind, md.m, md.n); ok {
				a.Set(col, k, 1)
			}
		}
	}

	b := mat.NewVecDense(rows, src.store.FullX())
	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("surface: henneberg projection: %w", err)
	}

	var fit mat.VecDense
	fit.MulVec(a, &sol)
	names := src.store.Names()
	for i := 0; i < rows; i++ {
		if r := math.Abs(fit.AtVec(i) - b.AtVec(i)); r > ConvTol {
			return nil, fmt.Errorf("%w: residual %.3g at %s", ErrNotRepresentable, r, names[i])
		}
	}

	y := make([]float64, out.store.NumFull())
	for k, md := range ls {
		y[md.col] = sol.AtVec(k)
	}
	if err := out.store.SetFullX(y); err != nil {
		return nil, err
	}
	return out, nil
}
