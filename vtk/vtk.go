package vtk

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/katalvlaran/stelgeo/curve"
	"github.com/katalvlaran/stelgeo/surface"
)

var (
	// ErrDataLength indicates a scalar array whose length does not
	// match the geometry's point count.
	ErrDataLength = errors.New("vtk: point data length mismatch")
	// ErrScalarName indicates a scalar name the legacy format cannot
	// hold (empty or containing whitespace).
	ErrScalarName = errors.New("vtk: scalar name must be a single token")
)

// WriteCurves writes the curves to path as legacy-ASCII POLYDATA, one
// polyline cell per curve with the loop closed by a duplicated first
// point. Scalar arrays hold one value per quadrature point, curves
// concatenated in order; the seam values are duplicated to match the
// written points.
func WriteCurves(path string, curves []curve.Curve, scalars map[string][]float64) error {
	gammas := make([][][3]float64, len(curves))
	total := 0
	for i, c := range curves {
		gammas[i] = c.Gamma()
		total += len(gammas[i])
	}
	names := sortedNames(scalars)
	for _, name := range names {
		if err := checkName(name); err != nil {
			return err
		}
		if len(scalars[name]) != total {
			return fmt.Errorf("%w: %s has %d values for %d points", ErrDataLength, name, len(scalars[name]), total)
		}
	}

	written := total + len(curves)
	return writeFile(path, func(w *bufio.Writer) {
		header(w, "stelgeo coil set")
		fmt.Fprintln(w, "DATASET POLYDATA")

		fmt.Fprintf(w, "POINTS %d double\n", written)
		for _, g := range gammas {
			for _, p := range g {
				writePoint(w, p)
			}
			writePoint(w, g[0])
		}

		// The size field counts every integer in the cell list, the
		// per-cell point count included.
		fmt.Fprintf(w, "LINES %d %d\n", len(curves), len(curves)+written)
		base := 0
		for _, g := range gammas {
			n := len(g) + 1
			fmt.Fprintf(w, "%d", n)
			for k := 0; k < n; k++ {
				fmt.Fprintf(w, " %d", base+k)
			}
			fmt.Fprintln(w)
			base += n
		}

		if len(names) == 0 {
			return
		}
		fmt.Fprintf(w, "POINT_DATA %d\n", written)
		for _, name := range names {
			fmt.Fprintf(w, "SCALARS %s double 1\nLOOKUP_TABLE default\n", name)
			vals := scalars[name]
			off := 0
			for _, g := range gammas {
				for k := range g {
					fmt.Fprintf(w, "%.17g\n", vals[off+k])
				}
				fmt.Fprintf(w, "%.17g\n", vals[off])
				off += len(g)
			}
		}
	})
}

// WriteSurface writes the surface grid to path as a legacy-ASCII
// STRUCTURED_GRID, theta varying fastest within each phi column.
// Point-data arrays hold one value per grid point in that same order,
// nphi·ntheta values in total.
func WriteSurface(path string, s surface.Surface, pointData map[string][]float64) error {
	nphi, ntheta := s.NPhi(), s.NTheta()
	n := nphi * ntheta
	names := sortedNames(pointData)
	for _, name := range names {
		if err := checkName(name); err != nil {
			return err
		}
		if len(pointData[name]) != n {
			return fmt.Errorf("%w: %s has %d values for %d points", ErrDataLength, name, len(pointData[name]), n)
		}
	}

	g := s.Gamma()
	return writeFile(path, func(w *bufio.Writer) {
		header(w, "stelgeo surface")
		fmt.Fprintln(w, "DATASET STRUCTURED_GRID")
		fmt.Fprintf(w, "DIMENSIONS %d %d 1\n", ntheta, nphi)
		fmt.Fprintf(w, "POINTS %d double\n", n)
		for i := 0; i < nphi; i++ {
			for k := 0; k < ntheta; k++ {
				writePoint(w, g[i][k])
			}
		}

		if len(names) == 0 {
			return
		}
		fmt.Fprintf(w, "POINT_DATA %d\n", n)
		for _, name := range names {
			fmt.Fprintf(w, "SCALARS %s double 1\nLOOKUP_TABLE default\n", name)
			for _, v := range pointData[name] {
				fmt.Fprintf(w, "%.17g\n", v)
			}
		}
	})
}

// writeFile funnels a buffered body into path. Write errors inside the
// body stick to the bufio.Writer and surface at Flush.
func writeFile(path string, body func(*bufio.Writer)) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vtk: create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	body(w)
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("vtk: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("vtk: close %s: %w", path, err)
	}
	return nil
}

func header(w *bufio.Writer, title string) {
	fmt.Fprintln(w, "# vtk DataFile Version 3.0")
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "ASCII")
}

// writePoint prints one coordinate triple with enough digits to
// round-trip float64 exactly.
func writePoint(w *bufio.Writer, p [3]float64) {
	fmt.Fprintf(w, "%.17g %.17g %.17g\n", p[0], p[1], p[2])
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\r\n") {
		return fmt.Errorf("%w: %q", ErrScalarName, name)
	}
	return nil
}

func sortedNames(m map[string][]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
