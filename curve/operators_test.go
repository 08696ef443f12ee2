package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// fdTol compares an analytic derivative against a central difference
// with a mixed absolute/relative tolerance.
func fdTol(t *testing.T, want, got, tol float64) {
	t.Helper()
	scale := math.Max(1, math.Abs(want))
	require.InDelta(t, want, got, tol*scale)
}

// checkJacVec verifies jac against central differences of a vector
// quantity (rows flattened point-major, x,y,z minor).
func checkJacVec(t *testing.T, c Curve, quantity func() [][3]float64, jac *mat.Dense, h, tol float64) {
	t.Helper()
	st := c.Dofs()
	x0 := st.FullX()
	defer func() { require.NoError(t, st.SetFullX(x0)) }()

	for j := 0; j < c.NumDofs(); j++ {
		x := append([]float64(nil), x0...)
		x[j] = x0[j] + h
		require.NoError(t, st.SetFullX(x))
		qp := quantity()

		x[j] = x0[j] - h
		require.NoError(t, st.SetFullX(x))
		qm := quantity()

		for i := range qp {
			for a := 0; a < 3; a++ {
				fd := (qp[i][a] - qm[i][a]) / (2 * h)
				fdTol(t, fd, jac.At(3*i+a, j), tol)
			}
		}
	}
}

// checkJacScalar verifies jac against central differences of a scalar
// per-point quantity.
func checkJacScalar(t *testing.T, c Curve, quantity func() []float64, jac *mat.Dense, h, tol float64) {
	t.Helper()
	st := c.Dofs()
	x0 := st.FullX()
	defer func() { require.NoError(t, st.SetFullX(x0)) }()

	for j := 0; j < c.NumDofs(); j++ {
		x := append([]float64(nil), x0...)
		x[j] = x0[j] + h
		require.NoError(t, st.SetFullX(x))
		qp := append([]float64(nil), quantity()...)

		x[j] = x0[j] - h
		require.NoError(t, st.SetFullX(x))
		qm := quantity()

		for i := range qp {
			fd := (qp[i] - qm[i]) / (2 * h)
			fdTol(t, fd, jac.At(i, j), tol)
		}
	}
}

// wiggleXYZ is a nonplanar, everywhere-curved test shape.
func wiggleXYZ(t *testing.T) *XYZFourier {
	t.Helper()
	c, err := NewXYZFourier(2, WithNumQuadPoints(12))
	require.NoError(t, err)
	for name, v := range map[string]float64{
		"xc(1)": 1.0, "ys(1)": 1.0, "zs(2)": 0.3, "xc(2)": 0.05, "yc(2)": -0.04, "zc(0)": 0.1,
	} {
		require.NoError(t, c.Dofs().Set(name, v))
	}
	return c
}

// wiggleRZ is its cylindrical counterpart.
func wiggleRZ(t *testing.T) *RZFourier {
	t.Helper()
	c, err := NewRZFourier(2, 2, false, WithNumQuadPoints(12))
	require.NoError(t, err)
	for name, v := range map[string]float64{
		"rc(0)": 1.0, "rc(1)": 0.12, "rs(2)": 0.04, "zc(0)": 0.05, "zs(1)": 0.15,
	} {
		require.NoError(t, c.Dofs().Set(name, v))
	}
	return c
}

func TestXYZFourierJacobians(t *testing.T) {
	c := wiggleXYZ(t)
	const h, tol = 1e-6, 1e-5

	checkJacVec(t, c, c.Gamma, c.GammaJac(), h, tol)
	checkJacVec(t, c, c.GammaDash, c.GammaDashJac(), h, tol)
	checkJacVec(t, c, c.GammaDashDash, c.GammaDashDashJac(), h, tol)
	checkJacVec(t, c, c.GammaDashDashDash, c.GammaDashDashDashJac(), h, tol)
}

func TestRZFourierJacobians(t *testing.T) {
	c := wiggleRZ(t)
	const h, tol = 1e-6, 1e-5

	checkJacVec(t, c, c.Gamma, c.GammaJac(), h, tol)
	checkJacVec(t, c, c.GammaDash, c.GammaDashJac(), h, tol)
	checkJacVec(t, c, c.GammaDashDash, c.GammaDashDashJac(), h, tol)
	checkJacVec(t, c, c.GammaDashDashDash, c.GammaDashDashDashJac(), h, tol)
}

func TestDerivedQuantityJacobians(t *testing.T) {
	const h, tol = 1e-6, 5e-5

	for _, tc := range []struct {
		name string
		c    Curve
	}{
		{"xyz", wiggleXYZ(t)},
		{"rz", wiggleRZ(t)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.c
			checkJacScalar(t, c, c.IncrementalArcLength, c.IncrementalArcLengthJac(), h, tol)
			checkJacScalar(t, c, c.Kappa, c.KappaJac(), h, tol)

			tj, err := c.TorsionJac()
			require.NoError(t, err)
			checkJacScalar(t, c, func() []float64 {
				v, terr := c.Torsion()
				require.NoError(t, terr)
				return v
			}, tj, h, tol)
		})
	}
}

func TestRotatedJacobians(t *testing.T) {
	base := wiggleXYZ(t)
	r := NewRotated(base, 1.1, true)
	const h, tol = 1e-6, 1e-5

	// The shared store drives both curves; the rotated Jacobian must
	// track mutations of the base dofs.
	checkJacVec(t, r, r.Gamma, r.GammaJac(), h, tol)
	checkJacVec(t, r, r.GammaDash, r.GammaDashJac(), h, tol)
	checkJacScalar(t, r, r.Kappa, r.KappaJac(), h, tol)
}

func TestJacobianShapes(t *testing.T) {
	c := wiggleXYZ(t)
	n, nd := c.NumQuadPoints(), c.NumDofs()

	r, cl := c.GammaJac().Dims()
	require.Equal(t, 3*n, r)
	require.Equal(t, nd, cl)

	r, cl = c.KappaJac().Dims()
	require.Equal(t, n, r)
	require.Equal(t, nd, cl)
}
