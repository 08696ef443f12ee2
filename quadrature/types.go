package quadrature

import "errors"

var (
	// ErrCount indicates a non-positive point count.
	ErrCount = errors.New("quadrature: point count must be positive")
	// ErrNfp indicates a field-period count below 1.
	ErrNfp = errors.New("quadrature: field-period count must be at least 1")
	// ErrPoints indicates an explicit point sequence that is not strictly
	// increasing within [0,1).
	ErrPoints = errors.New("quadrature: explicit points must be strictly increasing within [0,1)")
	// ErrConflict indicates both a point count and an explicit sequence were
	// supplied for the same axis.
	ErrConflict = errors.New("quadrature: point count and explicit points are mutually exclusive")
	// ErrRange indicates an unknown range policy value.
	ErrRange = errors.New("quadrature: unknown range policy")
)

// Range selects how much of the toroidal angle a surface grid covers.
type Range int

const (
	// Full covers the whole torus: φ ∈ [0, 1).
	Full Range = iota
	// FieldPeriod covers one field period: φ ∈ [0, 1/n_fp).
	FieldPeriod
	// HalfPeriod covers half a field period with a half-spacing shift:
	// φ ∈ (0, 1/(2·n_fp)), excluding both symmetry planes.
	HalfPeriod
)

// String returns the conventional spelling of the range policy.
func (r Range) String() string {
	switch r {
	case Full:
		return "full torus"
	case FieldPeriod:
		return "field period"
	case HalfPeriod:
		return "half period"
	default:
		return "unknown"
	}
}
