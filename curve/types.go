package curve

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/stelgeo"
)

var (
	// ErrOrder indicates an invalid Fourier truncation order.
	ErrOrder = errors.New("curve: invalid order")
	// ErrNfp indicates a field-period count below 1.
	ErrNfp = errors.New("curve: field-period count must be at least 1")
	// ErrDegenerate indicates a differential-geometry operator evaluated
	// where the curve is locally singular: a vanishing tangent or a
	// vanishing Γ'×Γ'' (locally straight).
	ErrDegenerate = errors.New("curve: frame undefined on degenerate segment")
	// ErrNotRepresentable indicates a conversion target order too small to
	// reproduce the source curve exactly.
	ErrNotRepresentable = errors.New("curve: target order cannot represent the source exactly")
)

// Curve is the uniform evaluation contract shared by all representations.
// The *Jac accessors return derivatives with respect to the full dof
// vector; rows run over quadrature points (flattened x,y,z for the
// position family), columns over dofs in declaration order.
type Curve interface {
	stelgeo.Parametrized

	// QuadPoints returns a copy of the quadrature points in [0,1).
	QuadPoints() []float64
	NumQuadPoints() int
	NumDofs() int

	Gamma() [][3]float64
	GammaDash() [][3]float64
	GammaDashDash() [][3]float64
	GammaDashDashDash() [][3]float64

	IncrementalArcLength() []float64
	Kappa() []float64
	Torsion() ([]float64, error)
	FrenetFrame() (tangent, normal, binormal [][3]float64, err error)

	GammaJac() *mat.Dense
	GammaDashJac() *mat.Dense
	GammaDashDashJac() *mat.Dense
	GammaDashDashDashJac() *mat.Dense
	IncrementalArcLengthJac() *mat.Dense
	KappaJac() *mat.Dense
	TorsionJac() (*mat.Dense, error)

	// Invalidate drops every cached quantity. Dof mutation does this
	// automatically; the method exists for manual cache control.
	Invalidate()
}

type options struct {
	numQuad int
	quad    []float64
}

// Option configures curve construction.
type Option func(*options)

// WithNumQuadPoints requests n uniformly spaced quadrature points.
// Mutually exclusive with WithQuadPoints.
func WithNumQuadPoints(n int) Option {
	return func(o *options) { o.numQuad = n }
}

// WithQuadPoints supplies an explicit, strictly increasing point set in
// [0,1). Mutually exclusive with WithNumQuadPoints.
func WithQuadPoints(pts []float64) Option {
	return func(o *options) { o.quad = pts }
}

func applyOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
