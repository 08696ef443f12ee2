package render

import (
	"errors"
	"image/color"
)

// ErrClosed indicates a draw or save call on an engine after Close.
var ErrClosed = errors.New("render: engine already closed")

// CurveStyle controls how a single polyline is drawn.
type CurveStyle struct {
	// Label, when non-empty, adds a legend entry for the curve.
	Label string

	// Color draws the line in the given color. Nil picks the next
	// color from the backend's default palette.
	Color color.Color

	// Width is the line width in printer's points. Zero means 1.
	Width float64
}

// Options configures figure construction and PlotCurves behavior.
//
// Fields:
//   - WidthCm, HeightCm — figure size in centimeters.
//   - AzimuthDeg, ElevationDeg — view direction of the orthographic
//     projection, in degrees.
//   - Title — figure title; empty leaves the title off.
//   - AxisLabels — label the screen-plane axes u and v.
//   - Path — when PlotCurves builds its own engine, the file to save
//     to (format chosen by extension, .png being the usual). Empty
//     skips saving.
//   - Verbose — print one progress line per curve and per save.
type Options struct {
	WidthCm      float64
	HeightCm     float64
	AzimuthDeg   float64
	ElevationDeg float64
	Title        string
	AxisLabels   bool
	Path         string
	Verbose      bool
}

// DefaultOptions returns an Options struct with:
//   - 18 cm × 14 cm figure
//   - azimuth -60°, elevation 30° (the familiar three-quarter view)
//   - axis labels on, no title, no save path, quiet
func DefaultOptions() Options {
	return Options{
		WidthCm:      18,
		HeightCm:     14,
		AzimuthDeg:   -60,
		ElevationDeg: 30,
		Title:        "",
		AxisLabels:   true,
		Path:         "",
		Verbose:      false,
	}
}
