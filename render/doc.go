// Package render draws coil and surface geometry as 2-D figures.
//
// What:
//   - Engine: the drawing backend contract (draw a polyline, save, close).
//   - GonumEngine: the default backend, an orthographic 3-D→2-D projection
//     rendered with gonum.org/v1/plot.
//   - PlotCurves: draw a set of closed curves in one call.
//
// Why:
// Optimization runs produce coil sets that are hard to judge from dof
// vectors alone. A quick projected view answers "did the coils tangle"
// before any field computation. The Engine seam keeps the geometry walk
// independent of the backend, so an interactive or vector backend can be
// dropped in without touching callers.
//
// The projection is orthographic: the view direction is set by azimuth
// and elevation angles (degrees, matplotlib view_init convention) and
// points are dotted against the two screen-plane basis vectors. No
// perspective, no hidden-line removal.
//
// Errors: drawing or saving on a closed engine returns ErrClosed; save
// failures from the backend are wrapped and returned.
package render
