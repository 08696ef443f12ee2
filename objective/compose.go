package objective

import (
	"fmt"
	"math"

	"github.com/katalvlaran/stelgeo"
)

// Weighted scales another objective by a constant factor.
type Weighted struct {
	inner  Objective
	weight float64
}

// NewWeighted wraps o so that J = w·J₀.
func NewWeighted(o Objective, w float64) *Weighted {
	return &Weighted{inner: o, weight: w}
}

// Weight returns the scale factor.
func (o *Weighted) Weight() float64 { return o.weight }

// J returns the scaled value.
func (o *Weighted) J() (float64, error) {
	v, err := o.inner.J()
	if err != nil {
		return 0, err
	}
	return o.weight * v, nil
}

// DJ returns the scaled gradient in a fresh map, leaving the inner
// objective's cached map untouched.
func (o *Weighted) DJ() (stelgeo.Deriv, error) {
	inner, err := o.inner.DJ()
	if err != nil {
		return nil, err
	}
	d := stelgeo.Deriv{}
	d.Merge(inner)
	d.Scale(o.weight)
	return d, nil
}

// Sum adds objectives. Gradient entries of shared dof stores merge, so
// several penalties on the same coil produce one combined gradient.
type Sum struct {
	objs []Objective
}

// NewSum builds the sum of the given objectives.
func NewSum(objs ...Objective) *Sum {
	return &Sum{objs: append([]Objective(nil), objs...)}
}

// J returns the summed value. The first failing term aborts the sum.
func (o *Sum) J() (float64, error) {
	var total float64
	for _, ob := range o.objs {
		v, err := ob.J()
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// DJ returns the merged gradient in a fresh map.
func (o *Sum) DJ() (stelgeo.Deriv, error) {
	d := stelgeo.Deriv{}
	for _, ob := range o.objs {
		g, err := ob.DJ()
		if err != nil {
			return nil, err
		}
		d.Merge(g)
	}
	return d, nil
}

// PenaltyMode selects which side of the threshold QuadraticPenalty
// punishes.
type PenaltyMode int

const (
	// PenaltyMax punishes values above the threshold.
	PenaltyMax PenaltyMode = iota

	// PenaltyMin punishes values below the threshold.
	PenaltyMin

	// PenaltyIdentity punishes any deviation from the threshold.
	PenaltyIdentity
)

// QuadraticPenalty turns a scalar objective into a soft constraint,
//
//	J = ½ g(J₀ − t)²,
//
// where g clamps per the mode: max(·, 0) for PenaltyMax, min(·, 0) for
// PenaltyMin, the identity for PenaltyIdentity. The square keeps J
// continuously differentiable across the threshold.
type QuadraticPenalty struct {
	inner     Objective
	threshold float64
	mode      PenaltyMode
}

// NewQuadraticPenalty wraps o as a soft constraint against threshold t.
func NewQuadraticPenalty(o Objective, t float64, mode PenaltyMode) (*QuadraticPenalty, error) {
	switch mode {
	case PenaltyMax, PenaltyMin, PenaltyIdentity:
	default:
		return nil, fmt.Errorf("%w: %d", ErrPenaltyMode, mode)
	}
	return &QuadraticPenalty{inner: o, threshold: t, mode: mode}, nil
}

func (o *QuadraticPenalty) excess() (float64, error) {
	v, err := o.inner.J()
	if err != nil {
		return 0, err
	}
	g := v - o.threshold
	switch o.mode {
	case PenaltyMax:
		g = math.Max(g, 0)
	case PenaltyMin:
		g = math.Min(g, 0)
	}
	return g, nil
}

// J returns the penalty value.
func (o *QuadraticPenalty) J() (float64, error) {
	g, err := o.excess()
	if err != nil {
		return 0, err
	}
	return 0.5 * g * g, nil
}

// DJ returns g·DJ₀ in a fresh map. Inside the feasible region the map
// is empty: nothing pulls on the dofs.
func (o *QuadraticPenalty) DJ() (stelgeo.Deriv, error) {
	g, err := o.excess()
	if err != nil {
		return nil, err
	}
	d := stelgeo.Deriv{}
	if g == 0 {
		return d, nil
	}
	inner, err := o.inner.DJ()
	if err != nil {
		return nil, err
	}
	d.Merge(inner)
	d.Scale(g)
	return d, nil
}
