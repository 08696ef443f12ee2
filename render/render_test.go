package render

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stelgeo/curve"
)

func circleCurve(t *testing.T) *curve.XYZFourier {
	t.Helper()
	c, err := curve.NewXYZFourier(1)
	require.NoError(t, err)
	st := c.Dofs()
	require.NoError(t, st.Set("xc(1)", 1))
	require.NoError(t, st.Set("ys(1)", 1))
	return c
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	require.Equal(t, 18.0, o.WidthCm)
	require.Equal(t, 14.0, o.HeightCm)
	require.Equal(t, -60.0, o.AzimuthDeg)
	require.Equal(t, 30.0, o.ElevationDeg)
	require.True(t, o.AxisLabels)
	require.False(t, o.Verbose)
}

func TestViewBasis(t *testing.T) {
	// Viewer on the +x axis: screen right is +y, screen up is +z.
	right, up := viewBasis(0, 0)
	require.InDeltaSlice(t, []float64{0, 1, 0}, right[:], 1e-15)
	require.InDeltaSlice(t, []float64{0, 0, 1}, up[:], 1e-15)

	right, up = viewBasis(90, 0)
	require.InDeltaSlice(t, []float64{-1, 0, 0}, right[:], 1e-15)
	require.InDeltaSlice(t, []float64{0, 0, 1}, up[:], 1e-15)

	// Top view, looking down the z axis.
	right, up = viewBasis(0, 90)
	require.InDeltaSlice(t, []float64{0, 1, 0}, right[:], 1e-15)
	require.InDeltaSlice(t, []float64{-1, 0, 0}, up[:], 1e-15)
}

func TestCloseLoop(t *testing.T) {
	in := [][3]float64{{1, 2, 3}, {4, 5, 6}}
	out := closeLoop(in)
	require.Len(t, out, 3)
	require.Equal(t, in[0], out[2])
	require.Len(t, in, 2)

	require.Nil(t, closeLoop(nil))
}

func TestEngineClosed(t *testing.T) {
	eng := NewGonumEngine(DefaultOptions())
	require.NoError(t, eng.Close())
	require.ErrorIs(t, eng.Curve([][3]float64{{0, 0, 0}}, CurveStyle{}), ErrClosed)
	require.ErrorIs(t, eng.Save("never.png"), ErrClosed)
	require.NoError(t, eng.Close())
}

func TestCurveStyleOverrides(t *testing.T) {
	eng := NewGonumEngine(DefaultOptions())
	defer eng.Close()
	pts := [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	st := CurveStyle{Label: "base coil", Color: color.RGBA{R: 255, A: 255}, Width: 2}
	require.NoError(t, eng.Curve(pts, st))
}

func TestPlotCurvesWritesPNG(t *testing.T) {
	opts := DefaultOptions()
	opts.Title = "coils"
	opts.Path = filepath.Join(t.TempDir(), "coils.png")
	cs := []curve.Curve{circleCurve(t), circleCurve(t)}
	require.NoError(t, PlotCurves(nil, cs, opts))

	b, err := os.ReadFile(opts.Path)
	require.NoError(t, err)
	require.Greater(t, len(b), 8)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, b[:4])
}

func TestPlotCurvesCallerEngine(t *testing.T) {
	opts := DefaultOptions()
	opts.Path = filepath.Join(t.TempDir(), "ignored.png")
	eng := NewGonumEngine(opts)
	require.NoError(t, PlotCurves(eng, []curve.Curve{circleCurve(t)}, opts))

	// The caller keeps save and close, so nothing was written yet.
	_, err := os.Stat(opts.Path)
	require.ErrorIs(t, err, os.ErrNotExist)

	saved := filepath.Join(t.TempDir(), "explicit.png")
	require.NoError(t, eng.Save(saved))
	require.NoError(t, eng.Close())
	info, err := os.Stat(saved)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}
