package distance

import "github.com/pkg/errors"

var (
	ErrUnknownMetric    = errors.New("unknown distance function")
	ErrDuplicateMetric  = errors.New("distance function already registered")
	ErrMissingBounds    = errors.New("no bounds for attribute")
	ErrZeroWidthBounds  = errors.New("attribute bounds have no width")
	ErrArity            = errors.New("attribute count does not fit the distance function")
	ErrVectorLength     = errors.New("vectors must have the same length")
	ErrBadVectorLiteral = errors.New("cannot parse vector literal")
)
