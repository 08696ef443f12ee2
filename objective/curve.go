package objective

import (
	"fmt"
	"math"

	"github.com/katalvlaran/stelgeo"
	"github.com/katalvlaran/stelgeo/cache"
	"github.com/katalvlaran/stelgeo/curve"
)

// CurveLength is the arclength functional J = ∫ |Γ'| dθ of a closed
// curve over the unit parameter interval.
type CurveLength struct {
	memo *cache.Cache
	c    curve.Curve
}

// NewCurveLength builds the length functional of c.
func NewCurveLength(c curve.Curve) *CurveLength {
	return &CurveLength{memo: cache.New(c), c: c}
}

// Curve returns the referenced curve.
func (o *CurveLength) Curve() curve.Curve { return o.c }

// J returns the curve length.
func (o *CurveLength) J() (float64, error) {
	return cache.Get(o.memo, "j", func() float64 {
		return mean(o.c.IncrementalArcLength())
	}), nil
}

// DJ returns dJ/ddof on the curve's store.
func (o *CurveLength) DJ() (stelgeo.Deriv, error) {
	return cache.Get(o.memo, "dj", func() stelgeo.Deriv {
		jac := o.c.IncrementalArcLengthJac()
		n, nd := jac.Dims()
		grad := make([]float64, nd)
		for i := 0; i < n; i++ {
			row := jac.RawRowView(i)
			for j, v := range row {
				grad[j] += v
			}
		}
		for j := range grad {
			grad[j] /= float64(n)
		}
		d := stelgeo.Deriv{}
		d.Add(o.c, grad)
		return d
	}), nil
}

// LpCurveCurvature penalizes curvature exceeding a threshold,
//
//	J = (1/p) ∫ max(κ − κ₀, 0)^p |Γ'| dθ.
//
// Wherever κ stays at or below κ₀ both the penalty and its gradient
// vanish, so a feasible curve is left alone by the optimizer.
type LpCurveCurvature struct {
	memo     *cache.Cache
	c        curve.Curve
	p        float64
	kappaMax float64
}

// NewLpCurveCurvature builds the curvature penalty with exponent p and
// threshold kappaMax. kappaMax zero penalizes all curvature.
func NewLpCurveCurvature(c curve.Curve, p, kappaMax float64) (*LpCurveCurvature, error) {
	if p < 1 {
		return nil, fmt.Errorf("%w: p=%v", ErrExponent, p)
	}
	if kappaMax < 0 {
		return nil, fmt.Errorf("%w: kappaMax=%v", ErrThreshold, kappaMax)
	}
	return &LpCurveCurvature{memo: cache.New(c), c: c, p: p, kappaMax: kappaMax}, nil
}

// J returns the penalty value.
func (o *LpCurveCurvature) J() (float64, error) {
	return cache.Get(o.memo, "j", func() float64 {
		kappa := o.c.Kappa()
		arclen := o.c.IncrementalArcLength()
		var sum float64
		for i, k := range kappa {
			if ex := k - o.kappaMax; ex > 0 {
				sum += math.Pow(ex, o.p) * arclen[i]
			}
		}
		return sum / (o.p * float64(len(kappa)))
	}), nil
}

// DJ returns dJ/ddof on the curve's store.
func (o *LpCurveCurvature) DJ() (stelgeo.Deriv, error) {
	return cache.Get(o.memo, "dj", func() stelgeo.Deriv {
		kappa := o.c.Kappa()
		arclen := o.c.IncrementalArcLength()
		kJac := o.c.KappaJac()
		lJac := o.c.IncrementalArcLengthJac()
		n, nd := kJac.Dims()
		grad := make([]float64, nd)
		for i := 0; i < n; i++ {
			ex := kappa[i] - o.kappaMax
			if ex <= 0 {
				continue
			}
			ck := math.Pow(ex, o.p-1) * arclen[i]
			cl := math.Pow(ex, o.p) / o.p
			kRow := kJac.RawRowView(i)
			lRow := lJac.RawRowView(i)
			for j := 0; j < nd; j++ {
				grad[j] += ck*kRow[j] + cl*lRow[j]
			}
		}
		for j := range grad {
			grad[j] /= float64(n)
		}
		d := stelgeo.Deriv{}
		d.Add(o.c, grad)
		return d
	}), nil
}

// LpCurveTorsion penalizes torsion, J = (1/p) ∫ |τ|^p |Γ'| dθ.
// Evaluation fails with curve.ErrDegenerate where τ is undefined.
type LpCurveTorsion struct {
	memo *cache.Cache
	c    curve.Curve
	p    float64
}

// NewLpCurveTorsion builds the torsion penalty with exponent p.
func NewLpCurveTorsion(c curve.Curve, p float64) (*LpCurveTorsion, error) {
	if p < 1 {
		return nil, fmt.Errorf("%w: p=%v", ErrExponent, p)
	}
	return &LpCurveTorsion{memo: cache.New(c), c: c, p: p}, nil
}

// J returns the penalty value.
func (o *LpCurveTorsion) J() (float64, error) {
	res := cache.Get(o.memo, "j", func() jResult {
		tau, err := o.c.Torsion()
		if err != nil {
			return jResult{err: err}
		}
		arclen := o.c.IncrementalArcLength()
		var sum float64
		for i, tv := range tau {
			sum += math.Pow(math.Abs(tv), o.p) * arclen[i]
		}
		return jResult{val: sum / (o.p * float64(len(tau)))}
	})
	return res.val, res.err
}

// DJ returns dJ/ddof on the curve's store. Points with τ = 0 get a
// zero row; for p = 1 that is the subgradient choice at the kink of
// |τ|, and for p > 1 the derivative there is zero anyway.
func (o *LpCurveTorsion) DJ() (stelgeo.Deriv, error) {
	res := cache.Get(o.memo, "dj", func() djResult {
		tau, err := o.c.Torsion()
		if err != nil {
			return djResult{err: err}
		}
		tJac, err := o.c.TorsionJac()
		if err != nil {
			return djResult{err: err}
		}
		arclen := o.c.IncrementalArcLength()
		lJac := o.c.IncrementalArcLengthJac()
		n, nd := tJac.Dims()
		grad := make([]float64, nd)
		for i := 0; i < n; i++ {
			if tau[i] == 0 {
				continue
			}
			at := math.Abs(tau[i])
			ct := math.Pow(at, o.p-1) * math.Copysign(1, tau[i]) * arclen[i]
			cl := math.Pow(at, o.p) / o.p
			tRow := tJac.RawRowView(i)
			lRow := lJac.RawRowView(i)
			for j := 0; j < nd; j++ {
				grad[j] += ct*tRow[j] + cl*lRow[j]
			}
		}
		for j := range grad {
			grad[j] /= float64(n)
		}
		d := stelgeo.Deriv{}
		d.Add(o.c, grad)
		return djResult{d: d}
	})
	return res.d, res.err
}
