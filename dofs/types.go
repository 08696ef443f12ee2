package dofs

import (
	"errors"
	"fmt"
)

var (
	// ErrNameCount indicates the name and value slices differ in length.
	ErrNameCount = errors.New("dofs: names and values must have equal length")
	// ErrDuplicateName indicates two dofs were declared with the same name.
	ErrDuplicateName = errors.New("dofs: dof names must be unique")
	// ErrUnknownName indicates a named lookup for a dof that does not exist.
	ErrUnknownName = errors.New("dofs: no dof with that name")
	// ErrIndexRange indicates a full-vector index outside [0, NumFull).
	ErrIndexRange = errors.New("dofs: dof index out of range")
	// ErrLength indicates a replacement vector of the wrong length.
	ErrLength = errors.New("dofs: replacement vector has wrong length")
)

// NameError reports a failed named lookup together with the name that
// missed. It unwraps to ErrUnknownName so errors.Is keeps working.
type NameError struct {
	Name string
}

// Error implements the error interface.
func (e *NameError) Error() string {
	return fmt.Sprintf("dofs: no dof named %q", e.Name)
}

// Unwrap exposes the ErrUnknownName sentinel.
func (e *NameError) Unwrap() error { return ErrUnknownName }
