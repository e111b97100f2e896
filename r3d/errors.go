package r3d

import (
	"github.com/pkg/errors"
)

// Construction failures. Use errors.Cause to match them.
var (
	ErrResource = errors.New("failed to create GPU resource")
	ErrCompile  = errors.New("failed to compile shader")
	ErrLink     = errors.New("failed to link program")
	ErrLocation = errors.New("shader location not found")

	ErrAlreadyAttached = errors.New("node is already attached")
	ErrNoNode          = errors.New("no such node")
)
