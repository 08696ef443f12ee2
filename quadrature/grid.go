package quadrature

import "fmt"

// Uniform returns n evenly spaced points {i/n : i = 0..n-1}.
// Returns ErrCount if n < 1.
func Uniform(n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrCount, n)
	}
	pts := make([]float64, n)
	for i := 0; i < n; i++ {
		pts[i] = float64(i) / float64(n)
	}
	return pts, nil
}

// FromPoints validates an explicit point sequence and returns a copy.
// Returns ErrPoints unless the sequence is non-empty, strictly increasing,
// and contained in [0,1).
func FromPoints(pts []float64) ([]float64, error) {
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: empty sequence", ErrPoints)
	}
	for i, p := range pts {
		if p < 0 || p >= 1 {
			return nil, fmt.Errorf("%w: point %d = %g outside [0,1)", ErrPoints, i, p)
		}
		if i > 0 && p <= pts[i-1] {
			return nil, fmt.Errorf("%w: point %d = %g does not increase", ErrPoints, i, p)
		}
	}
	out := make([]float64, len(pts))
	copy(out, pts)
	return out, nil
}

// Resolve builds a single axis from exactly one of a point count or an
// explicit sequence. A zero count with a nil sequence falls back to def.
// Returns ErrConflict when both are supplied.
func Resolve(n int, pts []float64, def int) ([]float64, error) {
	if n != 0 && pts != nil {
		return nil, ErrConflict
	}
	if pts != nil {
		return FromPoints(pts)
	}
	if n == 0 {
		n = def
	}
	return Uniform(n)
}

// Grid2D is the immutable φ×θ evaluation grid of one surface.
type Grid2D struct {
	rng   Range
	nfp   int
	phi   []float64
	theta []float64
}

// PhiAxis returns the n toroidal sample points implied by the range
// policy: i/n over the full torus, i/(nfp·n) over one field period, or
// (i+1/2)/(2·nfp·n) over the shifted half period. Returns ErrNfp,
// ErrCount or ErrRange on invalid arguments.
func PhiAxis(rng Range, nfp, n int) ([]float64, error) {
	if nfp < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNfp, nfp)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrCount, n)
	}
	phi := make([]float64, n)
	switch rng {
	case Full:
		for i := range phi {
			phi[i] = float64(i) / float64(n)
		}
	case FieldPeriod:
		div := float64(nfp * n)
		for i := range phi {
			phi[i] = float64(i) / div
		}
	case HalfPeriod:
		// Half-spacing shift keeps the symmetry planes unsampled.
		div := float64(2 * nfp * n)
		for i := range phi {
			phi[i] = (float64(i) + 0.5) / div
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrRange, int(rng))
	}
	return phi, nil
}

// NewGrid2D builds a uniform surface grid with nphi toroidal and ntheta
// poloidal points under the given range policy. The θ axis always spans
// the full poloidal circle. Returns ErrNfp, ErrCount or ErrRange on
// invalid arguments.
func NewGrid2D(rng Range, nfp, nphi, ntheta int) (*Grid2D, error) {
	phi, err := PhiAxis(rng, nfp, nphi)
	if err != nil {
		return nil, err
	}
	theta, err := Uniform(ntheta)
	if err != nil {
		return nil, err
	}
	return &Grid2D{rng: rng, nfp: nfp, phi: phi, theta: theta}, nil
}

// Grid2DFromPoints builds a surface grid from explicit φ and θ sequences.
// Both sequences are validated as for FromPoints; the range policy is
// recorded as given and not re-derived from the points.
func Grid2DFromPoints(rng Range, nfp int, phi, theta []float64) (*Grid2D, error) {
	if nfp < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNfp, nfp)
	}
	if rng < Full || rng > HalfPeriod {
		return nil, fmt.Errorf("%w: %d", ErrRange, int(rng))
	}
	p, err := FromPoints(phi)
	if err != nil {
		return nil, fmt.Errorf("phi axis: %w", err)
	}
	t, err := FromPoints(theta)
	if err != nil {
		return nil, fmt.Errorf("theta axis: %w", err)
	}
	return &Grid2D{rng: rng, nfp: nfp, phi: p, theta: t}, nil
}

// Phi returns a copy of the toroidal sample points.
func (g *Grid2D) Phi() []float64 {
	out := make([]float64, len(g.phi))
	copy(out, g.phi)
	return out
}

// Theta returns a copy of the poloidal sample points.
func (g *Grid2D) Theta() []float64 {
	out := make([]float64, len(g.theta))
	copy(out, g.theta)
	return out
}

// NPhi returns the toroidal point count.
func (g *Grid2D) NPhi() int { return len(g.phi) }

// NTheta returns the poloidal point count.
func (g *Grid2D) NTheta() int { return len(g.theta) }

// Nfp returns the field-period count the grid was built for.
func (g *Grid2D) Nfp() int { return g.nfp }

// Range returns the φ range policy.
func (g *Grid2D) Range() Range { return g.rng }
