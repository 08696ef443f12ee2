package objective

import (
	"math"
	"testing"

	"github.com/katalvlaran/stelgeo/curve"
)

// benchCoilSet is a ring of eight circular coils around a torus.
func benchCoilSet(b *testing.B) []curve.Curve {
	b.Helper()
	out := make([]curve.Curve, 0, 8)
	for i := 0; i < 8; i++ {
		c, err := curve.NewXYZFourier(4, curve.WithNumQuadPoints(64))
		if err != nil {
			b.Fatal(err)
		}
		st := c.Dofs()
		angle := 2 * math.Pi * float64(i) / 8
		_ = st.Set("xc(0)", 2*math.Cos(angle))
		_ = st.Set("yc(0)", 2*math.Sin(angle))
		_ = st.Set("xc(1)", 0.8)
		_ = st.Set("zs(1)", 0.8)
		out = append(out, c)
	}
	return out
}

func BenchmarkCurveCurveDistanceJ(b *testing.B) {
	curves := benchCoilSet(b)
	o, err := NewCurveCurveDistance(curves, 0.5)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		curves[0].Invalidate()
		if _, err := o.J(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCurveLengthDJ(b *testing.B) {
	curves := benchCoilSet(b)
	o := NewCurveLength(curves[0])
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		curves[0].Invalidate()
		if _, err := o.DJ(); err != nil {
			b.Fatal(err)
		}
	}
}
