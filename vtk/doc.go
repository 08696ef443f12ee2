// Package vtk exports geometry as legacy-ASCII VTK files for ParaView
// and friends.
//
// What:
//   - WriteCurves: a coil set as one POLYDATA file, one polyline cell
//     per curve, each loop closed, with optional per-point scalars.
//   - WriteSurface: a surface grid as a STRUCTURED_GRID file with
//     optional per-point scalars (the usual payload being B·n̂).
//
// Why:
// Optimization artifacts need to outlive the process in a form field-line
// tools already read. The legacy ASCII format is a plain line protocol,
// so the writers are self-contained: no VTK library, no binary layout.
//
// Point order matches the evaluation grids: curves concatenate their
// quadrature points in order (plus the duplicated closing point), a
// surface lists theta fastest within each phi column. Scalar arrays
// are given in that same order, one value per quadrature point; the
// writers duplicate the seam values themselves.
//
// Errors: a scalar array whose length disagrees with the point count
// returns ErrDataLength; file-system failures are wrapped and returned.
package vtk
