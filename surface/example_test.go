package surface_test

import (
	"fmt"
	"log"

	"github.com/katalvlaran/stelgeo/surface"
)

// ExampleNewRZFourier builds a circular torus and reports its exact
// area 4π²·R·r and volume 2π²·R·r².
func ExampleNewRZFourier() {
	s, err := surface.NewRZFourier(1, 0, 1, true, surface.WithNPhi(16), surface.WithNTheta(16))
	if err != nil {
		log.Fatal(err)
	}
	st := s.Dofs()
	for name, v := range map[string]float64{"rc(0,0)": 2, "rc(1,0)": 0.5, "zs(1,0)": 0.5} {
		if err := st.Set(name, v); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("area   %.3f\n", s.Area())
	fmt.Printf("volume %.3f\n", s.Volume())
	// Output:
	// area   39.478
	// volume 9.870
}

// ExampleGarabedianFromRZ shows the index map between the canonical
// and Garabedian coefficients of a circular torus.
func ExampleGarabedianFromRZ() {
	s, err := surface.NewRZFourier(1, 0, 1, true, surface.WithNPhi(8), surface.WithNTheta(8))
	if err != nil {
		log.Fatal(err)
	}
	st := s.Dofs()
	for name, v := range map[string]float64{"rc(0,0)": 2, "rc(1,0)": 0.5, "zs(1,0)": 0.5} {
		if err := st.Set(name, v); err != nil {
			log.Fatal(err)
		}
	}

	g, err := surface.GarabedianFromRZ(s)
	if err != nil {
		log.Fatal(err)
	}
	for _, name := range []string{"Delta(1,0)", "Delta(0,0)", "Delta(2,0)"} {
		v, err := g.Dofs().Get(name)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s = %g\n", name, v)
	}
	// Output:
	// Delta(1,0) = 2
	// Delta(0,0) = 0.5
	// Delta(2,0) = 0
}
