package coil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stelgeo/curve"
)

// offsetCircle builds a planar circle of radius 1 centered at (2, 0, 0).
func offsetCircle(t *testing.T) *curve.XYZFourier {
	t.Helper()
	c, err := curve.NewXYZFourier(1)
	require.NoError(t, err)
	st := c.Dofs()
	require.NoError(t, st.Set("xc(0)", 2))
	require.NoError(t, st.Set("xc(1)", 1))
	require.NoError(t, st.Set("ys(1)", 1))
	return c
}

func TestApplySymmetriesLayout(t *testing.T) {
	b0 := offsetCircle(t)
	b1 := offsetCircle(t)
	require.NoError(t, b1.Dofs().Set("xc(0)", 3))

	out := ApplySymmetries([]curve.Curve{b0, b1}, 3, true)
	require.Len(t, out, 12)

	// The first block is the base curves themselves, not copies.
	require.Same(t, b0, out[0])
	require.Same(t, b1, out[1])

	// Every image shares the dof store of its base curve.
	for i, c := range out {
		want := b0.Dofs()
		if i%2 == 1 {
			want = b1.Dofs()
		}
		require.Same(t, want, c.Dofs(), "image %d", i)
	}
}

func TestApplySymmetriesGeometry(t *testing.T) {
	b := offsetCircle(t)
	out := ApplySymmetries([]curve.Curve{b, offsetCircle(t)}, 3, true)

	g := b.Gamma()
	flipped := out[2].Gamma()
	rotated := out[4].Gamma()

	alpha := 2 * math.Pi / 3
	for i := range g {
		require.InDelta(t, g[i][0], flipped[i][0], 1e-14)
		require.InDelta(t, -g[i][1], flipped[i][1], 1e-14)
		require.InDelta(t, -g[i][2], flipped[i][2], 1e-14)

		x := math.Cos(alpha)*g[i][0] - math.Sin(alpha)*g[i][1]
		y := math.Sin(alpha)*g[i][0] + math.Cos(alpha)*g[i][1]
		require.InDelta(t, x, rotated[i][0], 1e-14)
		require.InDelta(t, y, rotated[i][1], 1e-14)
		require.InDelta(t, g[i][2], rotated[i][2], 1e-14)
	}
}

func TestApplySymmetriesNoStellsym(t *testing.T) {
	b := offsetCircle(t)
	out := ApplySymmetries([]curve.Curve{b}, 4, false)
	require.Len(t, out, 4)
	require.Same(t, b, out[0])
}

func TestApplyCurrentSymmetries(t *testing.T) {
	a, err := NewCurrent(2)
	require.NoError(t, err)
	b, err := NewCurrent(7)
	require.NoError(t, err)

	out := ApplyCurrentSymmetries([]CurrentProvider{a, b}, 3, true)
	require.Len(t, out, 12)

	want := []float64{2, 7, -2, -7, 2, 7, -2, -7, 2, 7, -2, -7}
	for i, c := range out {
		require.Equal(t, want[i], c.Get(), "current %d", i)
	}

	// Flipped currents still write their adjoint to the base store.
	require.Equal(t, []float64{-1}, out[2].VJP(1).Get(a))
}

func TestViaSymmetriesValidation(t *testing.T) {
	b := offsetCircle(t)
	cur, err := NewCurrent(1)
	require.NoError(t, err)

	_, err = ViaSymmetries([]curve.Curve{b, b}, []CurrentProvider{cur}, 2, true)
	require.ErrorIs(t, err, ErrCountMismatch)

	_, err = ViaSymmetries([]curve.Curve{b}, []CurrentProvider{cur}, 0, true)
	require.ErrorIs(t, err, ErrNfp)
}

func TestViaSymmetriesPairing(t *testing.T) {
	b := offsetCircle(t)
	cur, err := NewCurrent(1e5)
	require.NoError(t, err)

	coils, err := ViaSymmetries([]curve.Curve{b}, []CurrentProvider{cur}, 2, true)
	require.NoError(t, err)
	require.Len(t, coils, 4)

	require.Same(t, b, coils[0].Curve)
	require.Equal(t, 1e5, coils[0].Current.Get())

	// Index 1 is the stellarator-symmetric partner: flipped curve, negated current.
	require.Same(t, b.Dofs(), coils[1].Curve.Dofs())
	require.Equal(t, -1e5, coils[1].Current.Get())
	g := b.Gamma()
	fg := coils[1].Curve.Gamma()
	require.InDelta(t, -g[3][1], fg[3][1], 1e-14)
}

func TestEquallySpacedValidation(t *testing.T) {
	_, err := EquallySpaced(0, 2, 2, 0.5, 2, true)
	require.ErrorIs(t, err, ErrCoilCount)

	_, err = EquallySpaced(3, 2, 2, 0.5, 0, true)
	require.ErrorIs(t, err, ErrNfp)

	_, err = EquallySpaced(3, 0, 2, 0.5, 2, true)
	require.ErrorIs(t, err, curve.ErrOrder)
}

func TestEquallySpacedGeometry(t *testing.T) {
	const (
		ncoils = 3
		order  = 2
		r0     = 2.0
		r1     = 0.5
		nfp    = 2
	)
	coils, err := EquallySpaced(ncoils, order, r0, r1, nfp, true)
	require.NoError(t, err)
	require.Len(t, coils, ncoils)

	for i, c := range coils {
		alpha := (float64(i) + 0.5) * 2 * math.Pi / float64(2*nfp*ncoils)
		st := c.Dofs()
		for name, want := range map[string]float64{
			"xc(0)": r0 * math.Cos(alpha),
			"xc(1)": r1 * math.Cos(alpha),
			"yc(0)": r0 * math.Sin(alpha),
			"yc(1)": r1 * math.Sin(alpha),
			"zs(1)": r1,
		} {
			v, err := st.Get(name)
			require.NoError(t, err)
			require.InDelta(t, want, v, 1e-15, "coil %d dof %s", i, name)
		}
	}

	// Each coil is a circle of radius r1 about its center, in the vertical
	// plane through its toroidal angle.
	alpha := 0.5 * 2 * math.Pi / float64(2*nfp*ncoils)
	cx, cy := r0*math.Cos(alpha), r0*math.Sin(alpha)
	g := coils[0].Gamma()
	require.InDelta(t, (r0+r1)*math.Cos(alpha), g[0][0], 1e-13)
	require.InDelta(t, (r0+r1)*math.Sin(alpha), g[0][1], 1e-13)
	require.InDelta(t, 0, g[0][2], 1e-13)
	for i, p := range g {
		require.InDelta(t, 0, -math.Sin(alpha)*p[0]+math.Cos(alpha)*p[1], 1e-13, "point %d off plane", i)
		dx, dy, dz := p[0]-cx, p[1]-cy, p[2]
		require.InDelta(t, r1, math.Sqrt(dx*dx+dy*dy+dz*dz), 1e-13, "point %d off circle", i)
	}
}
