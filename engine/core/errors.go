package core

import (
	"errors"
)

var (
	// ErrSurfaceNotReady is transient: the host has not attached a drawable yet.
	ErrSurfaceNotReady = errors.New("render surface not ready")
	// ErrSurfaceLost is returned by a surface whose host went away mid-session.
	ErrSurfaceLost = errors.New("render surface lost")
	// ErrInvalidShape reports malformed shape parameters.
	ErrInvalidShape = errors.New("invalid shape parameters")
	// ErrInvalidDescriptor reports a scene descriptor that cannot be built.
	ErrInvalidDescriptor = errors.New("invalid scene descriptor")
	// ErrInvalidConfig reports an application configuration that cannot be used.
	ErrInvalidConfig = errors.New("invalid configuration")
)
