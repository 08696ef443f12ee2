package objective

import (
	"errors"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/katalvlaran/stelgeo"
)

var (
	// ErrExponent indicates an Lp exponent below 1.
	ErrExponent = errors.New("objective: Lp exponent must be at least 1")
	// ErrThreshold indicates a negative distance or curvature threshold.
	ErrThreshold = errors.New("objective: threshold must be nonnegative")
	// ErrPhiIndex indicates a cross-section index outside the surface grid.
	ErrPhiIndex = errors.New("objective: cross-section index out of range")
	// ErrShape indicates a target array whose shape does not match the
	// surface grid.
	ErrShape = errors.New("objective: target shape does not match the surface grid")
	// ErrPenaltyMode indicates an unknown QuadraticPenalty mode.
	ErrPenaltyMode = errors.New("objective: unknown penalty mode")
)

// Objective is a scalar functional of one or more parametrized objects.
type Objective interface {
	// J returns the value on the objects' current dof vectors.
	J() (float64, error)

	// DJ returns the gradient with respect to the full dof vector of
	// every referenced object, keyed by dof store. The returned map may
	// be cache-owned: merge or copy it, do not scale it in place.
	DJ() (stelgeo.Deriv, error)
}

// Gradient evaluates o's gradient restricted to the free dofs of the
// given objects, concatenated in argument order. This pairs with the
// concatenation of the objects' X() views in an optimizer loop.
func Gradient(o Objective, ps ...stelgeo.Parametrized) ([]float64, error) {
	d, err := o.DJ()
	if err != nil {
		return nil, err
	}
	return stelgeo.GradientOf(d, ps...), nil
}

// jResult and djResult let value and gradient computations memoize
// their error alongside the payload.
type jResult struct {
	val float64
	err error
}

type djResult struct {
	d   stelgeo.Deriv
	err error
}

func mean(xs []float64) float64 {
	var s float64
	for _, v := range xs {
		s += v
	}
	return s / float64(len(xs))
}

func dot3(a, b [3]float64) float64 {
	av, bv := vec3.T(a), vec3.T(b)
	return vec3.Dot(&av, &bv)
}

func dist3(a, b [3]float64) float64 {
	av, bv := vec3.T(a), vec3.T(b)
	d := vec3.Sub(&av, &bv)
	return d.Length()
}

func norm3(a [3]float64) float64 {
	av := vec3.T(a)
	return av.Length()
}

// flattenGrid concatenates a surface's φ-major grid rows into one point
// list, matching the row layout of the surface Jacobians.
func flattenGrid(g [][][3]float64) [][3]float64 {
	if len(g) == 0 {
		return nil
	}
	out := make([][3]float64, 0, len(g)*len(g[0]))
	for _, row := range g {
		out = append(out, row...)
	}
	return out
}

// boundingSphere returns the centroid of pts and the radius of the
// smallest centroid-centered ball containing them.
func boundingSphere(pts [][3]float64) (center [3]float64, radius float64) {
	for _, p := range pts {
		for a := 0; a < 3; a++ {
			center[a] += p[a]
		}
	}
	inv := 1 / float64(len(pts))
	for a := 0; a < 3; a++ {
		center[a] *= inv
	}
	for _, p := range pts {
		if d := dist3(p, center); d > radius {
			radius = d
		}
	}
	return center, radius
}
