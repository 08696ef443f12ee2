package objective

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stelgeo/curve"
)

func TestWeighted(t *testing.T) {
	c := circleXYZ(t, 1, 0, 16)
	length := NewCurveLength(c)
	o := NewWeighted(length, 2.5)
	require.Equal(t, 2.5, o.Weight())

	v, err := o.J()
	require.NoError(t, err)
	require.InDelta(t, 2.5*2*math.Pi, v, 1e-12)

	want, err := Gradient(length, c)
	require.NoError(t, err)
	got, err := Gradient(o, c)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		require.InDelta(t, 2.5*want[i], got[i], 1e-12)
	}
}

func TestWeightedLeavesInnerGradientAlone(t *testing.T) {
	c := circleXYZ(t, 1, 0, 16)
	length := NewCurveLength(c)
	o := NewWeighted(length, 10)

	before, err := length.DJ()
	require.NoError(t, err)
	snapshot := before.Get(c)

	_, err = o.DJ()
	require.NoError(t, err)

	after, err := length.DJ()
	require.NoError(t, err)
	require.Equal(t, snapshot, after.Get(c))
}

func TestSum(t *testing.T) {
	c1 := circleXYZ(t, 1, 0, 16)
	c2 := circleXYZ(t, 2, 0, 16)
	l1 := NewCurveLength(c1)
	l2 := NewCurveLength(c2)

	// c1 appears twice: its gradient entries must merge.
	o := NewSum(l1, l2, NewCurveLength(c1))
	v, err := o.J()
	require.NoError(t, err)
	require.InDelta(t, 2*(2*math.Pi)+2*math.Pi*2, v, 1e-12)

	g1, err := Gradient(l1, c1)
	require.NoError(t, err)
	g2, err := Gradient(l2, c2)
	require.NoError(t, err)
	got, err := Gradient(o, c1, c2)
	require.NoError(t, err)
	require.Len(t, got, len(g1)+len(g2))
	for i := range g1 {
		require.InDelta(t, 2*g1[i], got[i], 1e-12)
	}
	for i := range g2 {
		require.InDelta(t, g2[i], got[len(g1)+i], 1e-12)
	}
}

func TestQuadraticPenaltyValidation(t *testing.T) {
	c := circleXYZ(t, 1, 0, 16)
	_, err := NewQuadraticPenalty(NewCurveLength(c), 1, PenaltyMode(7))
	require.ErrorIs(t, err, ErrPenaltyMode)
}

func TestQuadraticPenaltyModes(t *testing.T) {
	c := circleXYZ(t, 1, 0, 16)
	length := NewCurveLength(c)
	l0 := 2 * math.Pi

	cases := []struct {
		name      string
		mode      PenaltyMode
		threshold float64
		want      float64
		active    bool
	}{
		{"max-violated", PenaltyMax, l0 - 1, 0.5, true},
		{"max-satisfied", PenaltyMax, l0 + 1, 0, false},
		{"min-violated", PenaltyMin, l0 + 1, 0.5, true},
		{"min-satisfied", PenaltyMin, l0 - 1, 0, false},
		{"identity-above", PenaltyIdentity, l0 - 1, 0.5, true},
		{"identity-below", PenaltyIdentity, l0 + 1, 0.5, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o, err := NewQuadraticPenalty(length, tc.threshold, tc.mode)
			require.NoError(t, err)

			v, err := o.J()
			require.NoError(t, err)
			require.InDelta(t, tc.want, v, 1e-10)

			grad, err := Gradient(o, c)
			require.NoError(t, err)
			inner, err := Gradient(length, c)
			require.NoError(t, err)
			for i := range grad {
				if !tc.active {
					require.Zero(t, grad[i])
					continue
				}
				g := l0 - tc.threshold
				require.InDelta(t, g*inner[i], grad[i], 1e-10)
			}
		})
	}
}

func TestGradientFreeRestriction(t *testing.T) {
	c := circleXYZ(t, 1, 0, 16)
	o := NewCurveLength(c)
	require.NoError(t, c.Dofs().Fix("zc(0)"))
	defer func() { require.NoError(t, c.Dofs().Unfix("zc(0)")) }()

	d, err := o.DJ()
	require.NoError(t, err)
	full := d.Get(c)

	free, err := Gradient(o, c)
	require.NoError(t, err)
	require.Len(t, free, c.Dofs().NumFree())
	for k, idx := range c.Dofs().FreeIndices() {
		require.Equal(t, full[idx], free[k])
	}
}

func TestCompositorsPropagateErrors(t *testing.T) {
	// A curve with all dofs zero has no defined torsion anywhere.
	flat, err := curve.NewXYZFourier(1, curve.WithNumQuadPoints(8))
	require.NoError(t, err)
	bad, err := NewLpCurveTorsion(flat, 2)
	require.NoError(t, err)
	good := NewCurveLength(circleXYZ(t, 1, 0, 8))

	sum := NewSum(good, bad)
	_, err = sum.J()
	require.ErrorIs(t, err, curve.ErrDegenerate)
	_, err = sum.DJ()
	require.ErrorIs(t, err, curve.ErrDegenerate)

	_, err = NewWeighted(bad, 2).J()
	require.ErrorIs(t, err, curve.ErrDegenerate)

	pen, err := NewQuadraticPenalty(bad, 1, PenaltyMax)
	require.NoError(t, err)
	_, err = pen.J()
	require.ErrorIs(t, err, curve.ErrDegenerate)
	_, err = pen.DJ()
	require.ErrorIs(t, err, curve.ErrDegenerate)
}
