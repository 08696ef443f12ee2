package surface

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewHennebergValidation(t *testing.T) {
	_, err := NewHenneberg(0, 0, 1, 0)
	require.ErrorIs(t, err, ErrMpol)
	_, err = NewHenneberg(1, -1, 1, 0)
	require.ErrorIs(t, err, ErrNtor)
	_, err = NewHenneberg(1, 0, 0, 0)
	require.ErrorIs(t, err, ErrNfp)
	_, err = NewHenneberg(1, 0, 1, 2)
	require.ErrorIs(t, err, ErrAlphaFac)
	_, err = NewHenneberg(1, 0, 1, -2)
	require.ErrorIs(t, err, ErrAlphaFac)
}

func TestHennebergDofNames(t *testing.T) {
	h, err := NewHenneberg(1, 1, 2, -1, WithNPhi(4), WithNTheta(4))
	require.NoError(t, err)
	require.Equal(t, []string{
		"R0nH(0)", "R0nH(1)", "bn(0)", "bn(1)",
		"rhomn(0,1)", "rhomn(1,-1)", "rhomn(1,0)", "rhomn(1,1)",
	}, h.Dofs().Names())
	require.True(t, h.StellSym())
	require.Equal(t, -1, h.AlphaFac())
	require.Equal(t, 1, h.Mmax())
	require.Equal(t, 1, h.Nmax())
}

func TestHennebergTorusGeometry(t *testing.T) {
	const R0, r = 2.0, 0.5
	h, err := NewHenneberg(1, 0, 1, 0, WithNPhi(16), WithNTheta(16))
	require.NoError(t, err)
	setAll(t, h, map[string]float64{"R0nH(0)": R0, "bn(0)": r, "rhomn(1,0)": r})

	require.InDelta(t, 4*math.Pi*math.Pi*R0*r, h.Area(), 1e-9)
	require.InDelta(t, 2*math.Pi*math.Pi*R0*r*r, h.Volume(), 1e-9)
}

// A rotating-frame ellipse: after a quarter of the frame turn the
// cross-section axes must have swapped.
func TestHennebergFrameRotation(t *testing.T) {
	const (
		R0 = 2.0
		a  = 0.4 // in-frame horizontal half axis, carried by ρ
		b0 = 0.2 // in-frame vertical half axis, carried by b
	)
	h, err := NewHenneberg(1, 0, 2, 1, WithPhiPoints([]float64{0, 0.25}), WithNTheta(8))
	require.NoError(t, err)
	setAll(t, h, map[string]float64{"R0nH(0)": R0, "bn(0)": b0, "rhomn(1,0)": a})

	g := h.Gamma()
	theta := h.QuadTheta()
	for k, th := range theta {
		c, s := math.Cos(2*math.Pi*th), math.Sin(2*math.Pi*th)

		// φ = 0: α = 0, the frame is upright; x carries R.
		require.InDelta(t, R0+a*c, g[0][k][0], 1e-12)
		require.InDelta(t, 0, g[0][k][1], 1e-12)
		require.InDelta(t, b0*s, g[0][k][2], 1e-12)

		// φ = 1/4: α = π/2 after alphaFac·nfp·π·φ; y carries R.
		require.InDelta(t, 0, g[1][k][0], 1e-12)
		require.InDelta(t, R0-b0*s, g[1][k][1], 1e-12)
		require.InDelta(t, a*c, g[1][k][2], 1e-12)
	}
}
