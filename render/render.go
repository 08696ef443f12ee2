package render

import (
	"fmt"

	"github.com/katalvlaran/stelgeo/curve"
)

// PlotCurves draws every curve as a closed loop, one palette color per
// curve. A nil eng builds a GonumEngine from opts, saves the figure to
// opts.Path when that is set, and closes the engine before returning.
// With a caller-supplied engine the call only draws; saving and closing
// stay with the caller, and opts.Path is ignored.
func PlotCurves(eng Engine, curves []curve.Curve, opts Options) error {
	owned := eng == nil
	if owned {
		eng = NewGonumEngine(opts)
	}
	for i, c := range curves {
		pts := closeLoop(c.Gamma())
		if err := eng.Curve(pts, CurveStyle{}); err != nil {
			return fmt.Errorf("render: curve %d: %w", i, err)
		}
		if opts.Verbose {
			fmt.Printf("render: curve %d, %d points\n", i, len(pts))
		}
	}
	if !owned {
		return nil
	}
	if opts.Path != "" {
		if err := eng.Save(opts.Path); err != nil {
			return err
		}
		if opts.Verbose {
			fmt.Printf("render: saved %s\n", opts.Path)
		}
	}
	return eng.Close()
}

// closeLoop appends the first point so the drawn polyline returns to
// its start. The input is not modified.
func closeLoop(pts [][3]float64) [][3]float64 {
	if len(pts) == 0 {
		return nil
	}
	out := make([][3]float64, 0, len(pts)+1)
	out = append(out, pts...)
	return append(out, pts[0])
}
