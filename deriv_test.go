package stelgeo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stelgeo/dofs"
)

// stub satisfies Parametrized around a bare store.
type stub struct {
	st *dofs.Store
}

func (s *stub) Dofs() *dofs.Store { return s.st }
func (s *stub) Epoch() uint64     { return 0 }

func newStub(t *testing.T, names ...string) *stub {
	t.Helper()
	vals := make([]float64, len(names))
	st, err := dofs.NewStore(names, vals)
	require.NoError(t, err)
	return &stub{st: st}
}

func TestDerivAddAccumulates(t *testing.T) {
	a := newStub(t, "p", "q")
	d := Deriv{}
	d.Add(a, []float64{1, 2})
	d.Add(a, []float64{10, 20})
	require.Equal(t, []float64{11, 22}, d.Get(a))
}

func TestDerivSharedStoreAccumulates(t *testing.T) {
	a := newStub(t, "p", "q", "r")
	// A second view over the same store, as a rotated curve would be.
	b := &stub{st: a.st}

	d := Deriv{}
	d.Add(a, []float64{1, 0, 0})
	d.Add(b, []float64{0, 1, 1})
	require.Equal(t, []float64{1, 1, 1}, d.Get(a))
	require.Len(t, d, 1)
}

func TestDerivAddShapeMismatchPanics(t *testing.T) {
	a := newStub(t, "p", "q")
	d := Deriv{}
	require.Panics(t, func() { d.Add(a, []float64{1}) })
}

func TestDerivMergeScale(t *testing.T) {
	a := newStub(t, "p")
	b := newStub(t, "u", "v")

	d := Deriv{}
	d.Add(a, []float64{2})

	o := Deriv{}
	o.Add(a, []float64{3})
	o.Add(b, []float64{1, 1})

	d.Merge(o)
	d.Scale(2)
	require.Equal(t, []float64{10}, d.Get(a))
	require.Equal(t, []float64{2, 2}, d.Get(b))
}

func TestGradientOfRestrictsAndConcatenates(t *testing.T) {
	a := newStub(t, "p", "q", "r")
	b := newStub(t, "u", "v")

	d := Deriv{}
	d.Add(a, []float64{1, 2, 3})

	require.NoError(t, a.st.Fix("q"))

	// a contributes its free entries, b has no entry and yields zeros.
	g := GradientOf(d, a, b)
	require.Equal(t, []float64{1, 3, 0, 0}, g)
}

func TestDerivGetCopies(t *testing.T) {
	a := newStub(t, "p")
	d := Deriv{}
	d.Add(a, []float64{5})
	g := d.Get(a)
	g[0] = 99
	require.Equal(t, []float64{5}, d.Get(a))
}
