package surface

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stelgeo/quadrature"
)

func TestNewXYZTensorFourierValidation(t *testing.T) {
	_, err := NewXYZTensorFourier(0, 0, 1, true)
	require.ErrorIs(t, err, ErrMpol)
	_, err = NewXYZTensorFourier(1, -1, 1, true)
	require.ErrorIs(t, err, ErrNtor)
	_, err = NewXYZTensorFourier(1, 0, 0, true)
	require.ErrorIs(t, err, ErrNfp)
	_, err = NewXYZTensorFourier(1, 0, 2, false, WithRange(quadrature.HalfPeriod))
	require.ErrorIs(t, err, ErrRangeStellsym)
}

func TestTensorSymmetryMask(t *testing.T) {
	s, err := NewXYZTensorFourier(2, 1, 2, true, WithNPhi(4), WithNTheta(4))
	require.NoError(t, err)
	// x̂ keeps the 8 even products, ŷ and ẑ the 7 odd ones each.
	require.Equal(t, 22, s.NumDofs())

	for _, name := range []string{"x(0,0)", "x(1,1)", "x(2,3)", "y(0,3)", "y(2,0)", "z(1,4)"} {
		_, err := s.Dofs().Index(name)
		require.NoError(t, err, name)
	}
	for _, name := range []string{"y(0,0)", "y(1,1)", "z(2,3)", "x(0,3)", "x(2,0)"} {
		_, err := s.Dofs().Index(name)
		require.Error(t, err, name)
	}

	full, err := NewXYZTensorFourier(2, 1, 2, false, WithNPhi(4), WithNTheta(4))
	require.NoError(t, err)
	require.Equal(t, 3*3*5, full.NumDofs())
}

func TestTensorTorusGeometry(t *testing.T) {
	const R0, r = 2.0, 0.5
	s, err := NewXYZTensorFourier(1, 1, 1, true, WithNPhi(16), WithNTheta(16))
	require.NoError(t, err)
	setAll(t, s, map[string]float64{"x(0,0)": R0, "x(0,1)": r, "z(0,2)": r})

	require.InDelta(t, 4*math.Pi*math.Pi*R0*r, s.Area(), 1e-9)
	require.InDelta(t, 2*math.Pi*math.Pi*R0*r*r, s.Volume(), 1e-9)
}

func TestTensorFieldPeriodSymmetry(t *testing.T) {
	const nfp = 2
	s, err := NewXYZTensorFourier(1, 1, nfp, false, WithPhiPoints([]float64{0.05, 0.55}), WithNTheta(5))
	require.NoError(t, err)
	setAll(t, s, map[string]float64{
		"x(0,0)": 1.5, "x(0,1)": 0.3, "z(0,2)": 0.3,
		"x(1,1)": 0.05, "y(1,2)": 0.04, "z(2,1)": 0.03,
	})

	g := s.Gamma()
	co := math.Cos(math.Pi) // 2π/nfp
	si := math.Sin(math.Pi)
	for k := 0; k < s.NTheta(); k++ {
		p, q := g[0][k], g[1][k]
		require.InDelta(t, co*p[0]-si*p[1], q[0], 1e-12)
		require.InDelta(t, si*p[0]+co*p[1], q[1], 1e-12)
		require.InDelta(t, p[2], q[2], 1e-12)
	}
}
