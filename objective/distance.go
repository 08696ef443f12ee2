package objective

import (
	"fmt"
	"math"

	"github.com/katalvlaran/stelgeo"
	"github.com/katalvlaran/stelgeo/cache"
	"github.com/katalvlaran/stelgeo/curve"
	"github.com/katalvlaran/stelgeo/surface"
)

// CurveCurveDistance penalizes pairs of curves approaching closer than
// a minimum separation,
//
//	J = Σ_{i<j} ∫∫ max(0, d_min − |Γ_i − Γ_j|)² |Γ_i'| |Γ_j'| dθ dθ'.
//
// The hinge is squared, so J is continuously differentiable and pairs
// with clearance above d_min contribute exactly zero. Pairs whose
// bounding spheres already guarantee that clearance are skipped before
// any pointwise work; the skipped terms are identically zero, so the
// pruning changes neither J nor its gradient.
type CurveCurveDistance struct {
	memo   *cache.Cache
	curves []curve.Curve
	dmin   float64
}

// NewCurveCurveDistance builds the pairwise clearance penalty over the
// given set. Symmetry copies may share dof stores; their gradient
// contributions accumulate on the shared parameters.
func NewCurveCurveDistance(curves []curve.Curve, dmin float64) (*CurveCurveDistance, error) {
	if dmin < 0 {
		return nil, fmt.Errorf("%w: dmin=%v", ErrThreshold, dmin)
	}
	deps := make([]cache.Source, len(curves))
	for i, c := range curves {
		deps[i] = c
	}
	return &CurveCurveDistance{memo: cache.New(deps...), curves: curves, dmin: dmin}, nil
}

// MinDistance returns the smallest pointwise separation over all curve
// pairs, or +Inf with fewer than two curves. Unlike J it is reported
// regardless of the threshold.
func (o *CurveCurveDistance) MinDistance() float64 {
	best := math.Inf(1)
	for i := 0; i < len(o.curves); i++ {
		ga := o.curves[i].Gamma()
		for j := i + 1; j < len(o.curves); j++ {
			gb := o.curves[j].Gamma()
			for _, a := range ga {
				for _, b := range gb {
					if d := dist3(a, b); d < best {
						best = d
					}
				}
			}
		}
	}
	return best
}

// candidates returns the index pairs whose bounding spheres come within
// dmin of each other.
func (o *CurveCurveDistance) candidates() [][2]int {
	return cache.Get(o.memo, "pairs", func() [][2]int {
		n := len(o.curves)
		centers := make([][3]float64, n)
		radii := make([]float64, n)
		for i, c := range o.curves {
			centers[i], radii[i] = boundingSphere(c.Gamma())
		}
		var pairs [][2]int
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if dist3(centers[i], centers[j]) > radii[i]+radii[j]+o.dmin {
					continue
				}
				pairs = append(pairs, [2]int{i, j})
			}
		}
		return pairs
	})
}

// J returns the total penalty.
func (o *CurveCurveDistance) J() (float64, error) {
	return cache.Get(o.memo, "j", func() float64 {
		var sum float64
		for _, pr := range o.candidates() {
			sum += o.pairValue(o.curves[pr[0]], o.curves[pr[1]])
		}
		return sum
	}), nil
}

func (o *CurveCurveDistance) pairValue(a, b curve.Curve) float64 {
	ga, gb := a.Gamma(), b.Gamma()
	la, lb := a.IncrementalArcLength(), b.IncrementalArcLength()
	var sum float64
	for k := range ga {
		for l := range gb {
			if h := o.dmin - dist3(ga[k], gb[l]); h > 0 {
				sum += h * h * la[k] * lb[l]
			}
		}
	}
	return sum / float64(len(ga)*len(gb))
}

// DJ returns dJ/ddof accumulated over every involved curve's store.
func (o *CurveCurveDistance) DJ() (stelgeo.Deriv, error) {
	return cache.Get(o.memo, "dj", func() stelgeo.Deriv {
		d := stelgeo.Deriv{}
		for _, pr := range o.candidates() {
			o.pairGrad(o.curves[pr[0]], o.curves[pr[1]], d)
		}
		return d
	}), nil
}

// pairGrad accumulates one pair's gradient into d. Per quadrature point
// it collects the coefficients of dΓ/ddof and d|Γ'|/ddof, then applies
// both vector-Jacobian products once per curve.
func (o *CurveCurveDistance) pairGrad(a, b curve.Curve, d stelgeo.Deriv) {
	ga, gb := a.Gamma(), b.Gamma()
	la, lb := a.IncrementalArcLength(), b.IncrementalArcLength()
	na, nb := len(ga), len(gb)
	vga := make([][3]float64, na)
	vla := make([]float64, na)
	vgb := make([][3]float64, nb)
	vlb := make([]float64, nb)
	inv := 1 / float64(na*nb)
	for k := 0; k < na; k++ {
		for l := 0; l < nb; l++ {
			sep := dist3(ga[k], gb[l])
			h := o.dmin - sep
			if h <= 0 {
				continue
			}
			vla[k] += h * h * lb[l] * inv
			vlb[l] += h * h * la[k] * inv
			if sep == 0 {
				// Coincident points have no separation direction; the
				// hinge square still leaves a finite value term.
				continue
			}
			coef := -2 * h / sep * la[k] * lb[l] * inv
			for ax := 0; ax < 3; ax++ {
				step := coef * (ga[k][ax] - gb[l][ax])
				vga[k][ax] += step
				vgb[l][ax] -= step
			}
		}
	}
	accumulateCurveVJP(d, a, vga, vla)
	accumulateCurveVJP(d, b, vgb, vlb)
}

// accumulateCurveVJP adds vγᵀ·(dΓ/ddof) + vℓᵀ·(d|Γ'|/ddof) to d's
// entry for c.
func accumulateCurveVJP(d stelgeo.Deriv, c curve.Curve, vgamma [][3]float64, varclen []float64) {
	gJac := c.GammaJac()
	lJac := c.IncrementalArcLengthJac()
	nd := c.NumDofs()
	grad := make([]float64, nd)
	for i := range vgamma {
		for ax := 0; ax < 3; ax++ {
			v := vgamma[i][ax]
			if v == 0 {
				continue
			}
			row := gJac.RawRowView(3*i + ax)
			for j := 0; j < nd; j++ {
				grad[j] += v * row[j]
			}
		}
		if w := varclen[i]; w != 0 {
			row := lJac.RawRowView(i)
			for j := 0; j < nd; j++ {
				grad[j] += w * row[j]
			}
		}
	}
	d.Add(c, grad)
}

// CurveSurfaceDistance penalizes curves approaching a surface closer
// than a minimum separation,
//
//	J = Σ_i ∫∫ max(0, d_min − |Γ_i − Γ_s|)² |Γ_i'| |n_s| dθ dφ dθ_s,
//
// measured against the surface's sampled grid points with their area
// weights. The gradient is taken with respect to the curve dofs only;
// the surface acts as a fixed obstacle, the usual arrangement when
// coils are optimized around a prescribed boundary.
type CurveSurfaceDistance struct {
	memo   *cache.Cache
	curves []curve.Curve
	surf   surface.Surface
	dmin   float64
}

type surfSamples struct {
	pts [][3]float64
	w   []float64
}

// NewCurveSurfaceDistance builds the curve-to-surface clearance penalty.
func NewCurveSurfaceDistance(curves []curve.Curve, s surface.Surface, dmin float64) (*CurveSurfaceDistance, error) {
	if dmin < 0 {
		return nil, fmt.Errorf("%w: dmin=%v", ErrThreshold, dmin)
	}
	deps := make([]cache.Source, 0, len(curves)+1)
	for _, c := range curves {
		deps = append(deps, c)
	}
	deps = append(deps, s)
	return &CurveSurfaceDistance{memo: cache.New(deps...), curves: curves, surf: s, dmin: dmin}, nil
}

func (o *CurveSurfaceDistance) samples() surfSamples {
	return cache.Get(o.memo, "surfsamples", func() surfSamples {
		pts := flattenGrid(o.surf.Gamma())
		nr := flattenGrid(o.surf.Normal())
		w := make([]float64, len(nr))
		for i, v := range nr {
			w[i] = norm3(v)
		}
		return surfSamples{pts: pts, w: w}
	})
}

// MinDistance returns the smallest separation between any curve point
// and any sampled surface point, or +Inf with no curves.
func (o *CurveSurfaceDistance) MinDistance() float64 {
	best := math.Inf(1)
	sm := o.samples()
	for _, c := range o.curves {
		for _, a := range c.Gamma() {
			for _, b := range sm.pts {
				if d := dist3(a, b); d < best {
					best = d
				}
			}
		}
	}
	return best
}

// J returns the total penalty.
func (o *CurveSurfaceDistance) J() (float64, error) {
	return cache.Get(o.memo, "j", func() float64 {
		sm := o.samples()
		sc, sr := boundingSphere(sm.pts)
		var sum float64
		for _, c := range o.curves {
			ga := c.Gamma()
			cc, cr := boundingSphere(ga)
			if dist3(cc, sc) > cr+sr+o.dmin {
				continue
			}
			la := c.IncrementalArcLength()
			var cs float64
			for k := range ga {
				for p := range sm.pts {
					if h := o.dmin - dist3(ga[k], sm.pts[p]); h > 0 {
						cs += h * h * la[k] * sm.w[p]
					}
				}
			}
			sum += cs / float64(len(ga)*len(sm.pts))
		}
		return sum
	}), nil
}

// DJ returns dJ/ddof on the curves' stores. The surface store gets no
// entry.
func (o *CurveSurfaceDistance) DJ() (stelgeo.Deriv, error) {
	return cache.Get(o.memo, "dj", func() stelgeo.Deriv {
		d := stelgeo.Deriv{}
		sm := o.samples()
		sc, sr := boundingSphere(sm.pts)
		for _, c := range o.curves {
			ga := c.Gamma()
			cc, cr := boundingSphere(ga)
			if dist3(cc, sc) > cr+sr+o.dmin {
				continue
			}
			la := c.IncrementalArcLength()
			na := len(ga)
			vga := make([][3]float64, na)
			vla := make([]float64, na)
			inv := 1 / float64(na*len(sm.pts))
			for k := 0; k < na; k++ {
				for p := range sm.pts {
					sep := dist3(ga[k], sm.pts[p])
					h := o.dmin - sep
					if h <= 0 {
						continue
					}
					vla[k] += h * h * sm.w[p] * inv
					if sep == 0 {
						continue
					}
					coef := -2 * h / sep * la[k] * sm.w[p] * inv
					for ax := 0; ax < 3; ax++ {
						vga[k][ax] += coef * (ga[k][ax] - sm.pts[p][ax])
					}
				}
			}
			accumulateCurveVJP(d, c, vga, vla)
		}
		return d
	}), nil
}
