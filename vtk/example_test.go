package vtk_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/stelgeo/curve"
	"github.com/katalvlaran/stelgeo/vtk"
)

// ExampleWriteCurves exports one circular coil and shows the file
// preamble ParaView reads.
func ExampleWriteCurves() {
	dir, err := os.MkdirTemp("", "vtk")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	c, err := curve.NewXYZFourier(1, curve.WithNumQuadPoints(32))
	if err != nil {
		log.Fatal(err)
	}
	st := c.Dofs()
	if err := st.Set("xc(1)", 1); err != nil {
		log.Fatal(err)
	}
	if err := st.Set("ys(1)", 1); err != nil {
		log.Fatal(err)
	}

	path := filepath.Join(dir, "coil.vtk")
	if err := vtk.WriteCurves(path, []curve.Curve{c}, nil); err != nil {
		log.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	lines := strings.Split(string(b), "\n")
	for _, l := range lines[:5] {
		fmt.Println(l)
	}
	// Output:
	// # vtk DataFile Version 3.0
	// stelgeo coil set
	// ASCII
	// DATASET POLYDATA
	// POINTS 33 double
}
