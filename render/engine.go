package render

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Engine is a drawing backend. Implementations accumulate polylines
// into one figure; Save writes it out and Close releases it.
type Engine interface {
	// Curve draws one polyline in the given style.
	Curve(pts [][3]float64, style CurveStyle) error

	// Save writes the accumulated figure to path.
	Save(path string) error

	// Close releases the figure. Draw and save calls after Close
	// return ErrClosed.
	Close() error
}

// GonumEngine renders through gonum.org/v1/plot: 3-D points are
// projected orthographically onto the view plane and drawn as 2-D
// lines. The zero value is not usable; construct with NewGonumEngine.
type GonumEngine struct {
	plt           *plot.Plot
	right, up     vec3.T
	width, height vg.Length
	series        int
}

// NewGonumEngine builds an engine from the figure-level fields of opts
// (size, view angles, title, axis labels). Nonpositive sizes fall back
// to the defaults.
func NewGonumEngine(opts Options) *GonumEngine {
	p := plot.New()
	if opts.Title != "" {
		p.Title.Text = opts.Title
	}
	if opts.AxisLabels {
		p.X.Label.Text = "u"
		p.Y.Label.Text = "v"
	}
	w, h := opts.WidthCm, opts.HeightCm
	if w <= 0 {
		w = DefaultOptions().WidthCm
	}
	if h <= 0 {
		h = DefaultOptions().HeightCm
	}
	right, up := viewBasis(opts.AzimuthDeg, opts.ElevationDeg)
	return &GonumEngine{
		plt:    p,
		right:  right,
		up:     up,
		width:  vg.Length(w) * vg.Centimeter,
		height: vg.Length(h) * vg.Centimeter,
	}
}

// viewBasis returns the screen-plane basis for the given view angles.
// The viewer sits along (cos e·cos a, cos e·sin a, sin e); right spans
// the horizontal screen axis, up the vertical one.
func viewBasis(azimDeg, elevDeg float64) (right, up vec3.T) {
	sa, ca := math.Sincos(azimDeg * math.Pi / 180)
	se, ce := math.Sincos(elevDeg * math.Pi / 180)
	right = vec3.T{-sa, ca, 0}
	up = vec3.T{-se * ca, -se * sa, ce}
	return right, up
}

// Curve projects pts onto the view plane and adds the polyline to the
// figure. A nil style color picks the next palette color; a zero width
// draws at one point.
func (g *GonumEngine) Curve(pts [][3]float64, style CurveStyle) error {
	if g.plt == nil {
		return ErrClosed
	}
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		v := vec3.T(p)
		xys[i].X = vec3.Dot(&g.right, &v)
		xys[i].Y = vec3.Dot(&g.up, &v)
	}
	ln, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("render: line: %w", err)
	}
	if style.Color != nil {
		ln.Color = style.Color
	} else {
		ln.Color = plotutil.Color(g.series)
	}
	w := style.Width
	if w <= 0 {
		w = 1
	}
	ln.Width = vg.Points(w)
	g.plt.Add(ln)
	if style.Label != "" {
		g.plt.Legend.Add(style.Label, ln)
	}
	g.series++
	return nil
}

// Save writes the figure to path; the extension picks the format.
func (g *GonumEngine) Save(path string) error {
	if g.plt == nil {
		return ErrClosed
	}
	if err := g.plt.Save(g.width, g.height, path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}

// Close releases the figure. Closing twice is harmless.
func (g *GonumEngine) Close() error {
	g.plt = nil
	return nil
}
