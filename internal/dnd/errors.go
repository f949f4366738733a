package dnd

import "errors"

var (
	// ErrInvalidPosition is returned when a drop position is neither above nor below
	ErrInvalidPosition = errors.New("unsupported position")

	// ErrUnknownTarget is returned when the drop target is not a known connection
	ErrUnknownTarget = errors.New("unknown target connection")

	// ErrTargetMissing signals a broken invariant: the target vanished from
	// its own group while planning.
	ErrTargetMissing = errors.New("target connection not present in destination list")
)
