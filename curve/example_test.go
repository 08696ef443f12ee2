package curve_test

import (
	"fmt"
	"log"

	"github.com/katalvlaran/stelgeo/curve"
)

// ExampleNewRZFourier builds the circle r(phi)=2 and evaluates it on
// four quadrature points.
func ExampleNewRZFourier() {
	c, err := curve.NewRZFourier(0, 1, true, curve.WithNumQuadPoints(4))
	if err != nil {
		log.Fatal(err)
	}
	if err := c.Dofs().Set("rc(0)", 2); err != nil {
		log.Fatal(err)
	}

	g := c.Gamma()
	fmt.Printf("%.1f %.1f\n", g[0][0], g[1][1])
	// Output:
	// 2.0 2.0
}

// ExampleXYZFourier_Kappa shows that a circle of radius 2 has constant
// curvature 1/2.
func ExampleXYZFourier_Kappa() {
	c, err := curve.NewXYZFourier(1, curve.WithNumQuadPoints(8))
	if err != nil {
		log.Fatal(err)
	}
	st := c.Dofs()
	if err := st.Set("xc(1)", 2); err != nil {
		log.Fatal(err)
	}
	if err := st.Set("ys(1)", 2); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("kappa = %.3f\n", c.Kappa()[0])
	// Output:
	// kappa = 0.500
}

// ExampleNewRotated places a field-period copy of a curve by rotating
// it around the z axis.
func ExampleNewRotated() {
	base, err := curve.NewXYZFourier(1, curve.WithNumQuadPoints(4))
	if err != nil {
		log.Fatal(err)
	}
	st := base.Dofs()
	if err := st.Set("xc(0)", 3); err != nil {
		log.Fatal(err)
	}

	// A half-turn maps the offset (3,0,0) to (-3,0,0).
	rot := curve.NewRotated(base, 3.141592653589793, false)
	fmt.Printf("%.0f\n", rot.Gamma()[0][0])
	// Output:
	// -3
}
