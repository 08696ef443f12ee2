package stelgeo

import "github.com/katalvlaran/stelgeo/dofs"

// Deriv accumulates gradient contributions of a scalar functional with
// respect to the full dof vectors of one or more objects. Keys are the
// dof stores themselves, so contributions from several views of the same
// parameters (a base curve and its rotated symmetry copies) sum up in one
// place.
//
// All slices are laid out over the FULL dof vector; restriction to the
// free subset happens only in GradientOf.
type Deriv map[*dofs.Store][]float64

// Add accumulates grad into the entry of p's store. grad must have
// length p.Dofs().NumFull(); a mismatch is a programming error and
// panics, matching the shape conventions of the numeric stack.
func (d Deriv) Add(p Parametrized, grad []float64) {
	st := p.Dofs()
	if len(grad) != st.NumFull() {
		panic("stelgeo: Deriv.Add gradient length does not match dof count")
	}
	g, ok := d[st]
	if !ok {
		g = make([]float64, st.NumFull())
		d[st] = g
	}
	for i, v := range grad {
		g[i] += v
	}
}

// Merge accumulates every entry of o into d.
func (d Deriv) Merge(o Deriv) {
	for st, g := range o {
		dst, ok := d[st]
		if !ok {
			dst = make([]float64, len(g))
			d[st] = dst
		}
		for i, v := range g {
			dst[i] += v
		}
	}
}

// Scale multiplies every accumulated gradient by f in place.
func (d Deriv) Scale(f float64) {
	for _, g := range d {
		for i := range g {
			g[i] *= f
		}
	}
}

// Get returns a copy of the full-dof gradient accumulated for p, or a
// zero vector when p contributed nothing.
func (d Deriv) Get(p Parametrized) []float64 {
	st := p.Dofs()
	out := make([]float64, st.NumFull())
	copy(out, d[st])
	return out
}

// GradientOf restricts d to the free dofs of the given objects and
// concatenates the pieces in argument order. Objects without an entry
// contribute zeros. This is the vector an outer optimizer pairs with the
// concatenation of the objects' X() views.
func GradientOf(d Deriv, ps ...Parametrized) []float64 {
	out := make([]float64, 0)
	for _, p := range ps {
		st := p.Dofs()
		g := d[st]
		for _, i := range st.FreeIndices() {
			if g == nil {
				out = append(out, 0)
			} else {
				out = append(out, g[i])
			}
		}
	}
	return out
}
