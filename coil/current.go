package coil

import (
	"errors"

	"github.com/katalvlaran/stelgeo"
	"github.com/katalvlaran/stelgeo/cache"
	"github.com/katalvlaran/stelgeo/dofs"
)

var (
	// ErrCountMismatch indicates curve and current lists of different
	// lengths.
	ErrCountMismatch = errors.New("coil: curve and current counts differ")
	// ErrNfp indicates a field-period count below 1.
	ErrNfp = errors.New("coil: field-period count must be at least 1")
	// ErrCoilCount indicates an empty coil set request.
	ErrCoilCount = errors.New("coil: need at least one coil")
)

// CurrentProvider supplies a coil current and the adjoint of its
// parameter dependence. The epoch lets dependent caches track current
// changes.
type CurrentProvider interface {
	cache.Source

	// Get returns the current value.
	Get() float64

	// VJP returns the gradient of v·I with respect to the underlying
	// current dofs, keyed by their stores.
	VJP(v float64) stelgeo.Deriv
}

// Current is a single optimizable scalar, the electric current of a
// coil or of a set of coils constrained to share it. Its one dof is
// named I.
type Current struct {
	store *dofs.Store
	memo  *cache.Cache
}

// NewCurrent builds a current with the given initial value.
func NewCurrent(value float64) (*Current, error) {
	st, err := dofs.NewStore([]string{"I"}, []float64{value})
	if err != nil {
		return nil, err
	}
	c := &Current{store: st, memo: cache.New()}
	st.OnChange(c.memo.Invalidate)
	return c, nil
}

// Dofs returns the store holding the single current dof.
func (c *Current) Dofs() *dofs.Store { return c.store }

// Epoch returns the cache validity epoch.
func (c *Current) Epoch() uint64 { return c.memo.Epoch() }

// Get returns the current value.
func (c *Current) Get() float64 {
	return c.store.FullX()[0]
}

// Set replaces the current value, invalidating dependents.
func (c *Current) Set(v float64) error {
	return c.store.Set("I", v)
}

// VJP returns v routed to the current's dof.
func (c *Current) VJP(v float64) stelgeo.Deriv {
	d := stelgeo.Deriv{}
	d.Add(c, []float64{v})
	return d
}

// ScaledCurrent is a current multiplied by a fixed factor. It shares
// the base current's dofs; the customary use is flipping the sign for
// stellarator-symmetric coil copies.
type ScaledCurrent struct {
	base  CurrentProvider
	scale float64
}

// Scaled wraps c so that Get returns f·c.Get().
func Scaled(c CurrentProvider, f float64) *ScaledCurrent {
	return &ScaledCurrent{base: c, scale: f}
}

// Neg is Scaled(c, -1).
func Neg(c CurrentProvider) *ScaledCurrent {
	return Scaled(c, -1)
}

// Epoch returns the base current's epoch.
func (s *ScaledCurrent) Epoch() uint64 { return s.base.Epoch() }

// Get returns the scaled value.
func (s *ScaledCurrent) Get() float64 { return s.scale * s.base.Get() }

// VJP routes the scaled adjoint to the base dofs.
func (s *ScaledCurrent) VJP(v float64) stelgeo.Deriv {
	return s.base.VJP(s.scale * v)
}

// CurrentSum is the sum of two currents, for circuits where one coil
// carries the superposition of two controlled currents.
type CurrentSum struct {
	a, b CurrentProvider
}

// Add builds the sum of two currents.
func Add(a, b CurrentProvider) *CurrentSum {
	return &CurrentSum{a: a, b: b}
}

// Epoch combines both summands' epochs. Either counter growing makes
// the combined epoch grow.
func (s *CurrentSum) Epoch() uint64 { return s.a.Epoch() + s.b.Epoch() }

// Get returns the summed value.
func (s *CurrentSum) Get() float64 { return s.a.Get() + s.b.Get() }

// VJP routes the adjoint to both summands' dofs.
func (s *CurrentSum) VJP(v float64) stelgeo.Deriv {
	d := stelgeo.Deriv{}
	d.Merge(s.a.VJP(v))
	d.Merge(s.b.VJP(v))
	return d
}
