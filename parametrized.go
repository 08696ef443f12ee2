package stelgeo

import "github.com/katalvlaran/stelgeo/dofs"

// Parametrized is any object whose shape or strength is controlled by a
// named dof vector: curves, surfaces, coil currents. The geometry
// packages satisfy it through their embedded base types.
type Parametrized interface {
	// Dofs returns the object's dof store. Derived objects that share a
	// store (a rotated copy and its base curve) return the same pointer,
	// so gradient contributions land on the shared parameters.
	Dofs() *dofs.Store

	// Epoch returns the object's cache validity epoch. It grows on every
	// dof mutation and manual invalidation, transitively through derived
	// objects.
	Epoch() uint64
}
