package surface

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/stelgeo"
	"github.com/katalvlaran/stelgeo/quadrature"
)

var (
	// ErrMpol indicates a poloidal truncation order below 1.
	ErrMpol = errors.New("surface: mpol must be at least 1")
	// ErrNtor indicates a negative toroidal truncation order.
	ErrNtor = errors.New("surface: ntor must be non-negative")
	// ErrNfp indicates a field-period count below 1.
	ErrNfp = errors.New("surface: field-period count must be at least 1")
	// ErrAlphaFac indicates a Henneberg rotation factor outside {-1, 0, 1}.
	ErrAlphaFac = errors.New("surface: alphaFac must be -1, 0 or 1")
	// ErrRangeStellsym indicates a half-period grid requested for a
	// surface without stellarator symmetry.
	ErrRangeStellsym = errors.New("surface: half-period range requires stellarator symmetry")
	// ErrStellsym indicates a conversion that requires a stellarator
	// symmetric source.
	ErrStellsym = errors.New("surface: conversion requires a stellarator-symmetric source")
	// ErrDegenerate indicates a vanishing area element, where the unit
	// normal and the area gradient are undefined.
	ErrDegenerate = errors.New("surface: degenerate area element")
	// ErrNotRepresentable indicates a conversion whose target basis cannot
	// reproduce the source surface exactly.
	ErrNotRepresentable = errors.New("surface: target basis cannot represent the source exactly")
)

// Surface is the uniform evaluation contract shared by all
// representations. Position arrays are indexed [φ][θ]; the *Jac
// accessors return derivatives with respect to the full dof vector,
// rows running over flattened grid entries (φ-major, then θ, then
// x,y,z), columns over dofs in declaration order.
type Surface interface {
	stelgeo.Parametrized

	// QuadPhi returns a copy of the toroidal quadrature points in [0,1).
	QuadPhi() []float64
	// QuadTheta returns a copy of the poloidal quadrature points in [0,1).
	QuadTheta() []float64
	NPhi() int
	NTheta() int
	Nfp() int
	Range() quadrature.Range
	StellSym() bool
	NumDofs() int

	Gamma() [][][3]float64
	GammaDash1() [][][3]float64
	GammaDash2() [][][3]float64
	Normal() [][][3]float64
	UnitNormal() ([][][3]float64, error)
	Area() float64
	Volume() float64

	GammaJac() *mat.Dense
	GammaDash1Jac() *mat.Dense
	GammaDash2Jac() *mat.Dense
	AreaJac() ([]float64, error)
	VolumeJac() []float64

	// ToRZFourier expresses the surface in the canonical basis. The
	// canonical representation returns itself.
	ToRZFourier() (*RZFourier, error)

	// Invalidate drops every cached quantity. Dof mutation does this
	// automatically; the method exists for manual cache control.
	Invalidate()
}

type options struct {
	rng      quadrature.Range
	nphi     int
	ntheta   int
	phiPts   []float64
	thetaPts []float64
}

// Option configures surface construction.
type Option func(*options)

// WithRange selects the φ-axis range policy. The default is the full
// torus.
func WithRange(r quadrature.Range) Option {
	return func(o *options) { o.rng = r }
}

// WithNPhi requests n uniformly spaced toroidal points under the range
// policy. Mutually exclusive with WithPhiPoints.
func WithNPhi(n int) Option {
	return func(o *options) { o.nphi = n }
}

// WithNTheta requests n uniformly spaced poloidal points. Mutually
// exclusive with WithThetaPoints.
func WithNTheta(n int) Option {
	return func(o *options) { o.ntheta = n }
}

// WithPhiPoints supplies an explicit, strictly increasing toroidal point
// set in [0,1). Mutually exclusive with WithNPhi.
func WithPhiPoints(pts []float64) Option {
	return func(o *options) { o.phiPts = pts }
}

// WithThetaPoints supplies an explicit, strictly increasing poloidal
// point set in [0,1). Mutually exclusive with WithNTheta.
func WithThetaPoints(pts []float64) Option {
	return func(o *options) { o.thetaPts = pts }
}

// defaultGridSide is the per-axis point count used when neither a count
// nor explicit points are supplied.
const defaultGridSide = 31

func buildGrid(nfp int, opts []Option) (*quadrature.Grid2D, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	var phi []float64
	var err error
	switch {
	case o.nphi != 0 && o.phiPts != nil:
		return nil, fmt.Errorf("phi axis: %w", quadrature.ErrConflict)
	case o.phiPts != nil:
		phi, err = quadrature.FromPoints(o.phiPts)
	default:
		n := o.nphi
		if n == 0 {
			n = defaultGridSide
		}
		phi, err = quadrature.PhiAxis(o.rng, nfp, n)
	}
	if err != nil {
		return nil, fmt.Errorf("phi axis: %w", err)
	}

	var theta []float64
	switch {
	case o.ntheta != 0 && o.thetaPts != nil:
		return nil, fmt.Errorf("theta axis: %w", quadrature.ErrConflict)
	case o.thetaPts != nil:
		theta, err = quadrature.FromPoints(o.thetaPts)
	default:
		n := o.ntheta
		if n == 0 {
			n = defaultGridSide
		}
		theta, err = quadrature.Uniform(n)
	}
	if err != nil {
		return nil, fmt.Errorf("theta axis: %w", err)
	}

	return quadrature.Grid2DFromPoints(o.rng, nfp, phi, theta)
}
