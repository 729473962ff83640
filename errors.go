package quickhull

import (
	"errors"
	"fmt"
)

// ErrDegenerateInput is the parent of every error caused by a point set that
// does not enclose any volume. Test with errors.Is.
var ErrDegenerateInput = errors.New("quickhull: degenerate input")

var (
	ErrTooFewPoints       = fmt.Errorf("%w: fewer than 4 distinct points", ErrDegenerateInput)
	ErrAllPointsCollinear = fmt.Errorf("%w: all points are collinear", ErrDegenerateInput)
	ErrAllPointsCoplanar  = fmt.Errorf("%w: all points are coplanar", ErrDegenerateInput)
)

// ErrInvalidPoint is returned when an input coordinate is NaN or infinite.
var ErrInvalidPoint = errors.New("quickhull: invalid point")

// ErrInvalidHull is returned by Hull.Validate.
var ErrInvalidHull = errors.New("quickhull: invalid hull")
