package piecetable

import (
	"errors"

	"github.com/dshills/quill/internal/engine/arena"
)

// Errors returned by piece table mutations.
var (
	// ErrOutOfMemory indicates the add buffer or the piece arena could not grow.
	// It matches arena.ErrOutOfMemory.
	ErrOutOfMemory = arena.ErrOutOfMemory

	// ErrInvalidArgument indicates a nonsensical offset or length.
	ErrInvalidArgument = errors.New("invalid argument")
)
