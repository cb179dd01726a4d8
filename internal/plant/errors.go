package plant

import "github.com/pkg/errors"

var (
	ErrUnknownParam    = errors.New("plant: unknown parameter")
	ErrParameterBounds = errors.New("plant: parameter out of valid bounds")
	ErrUnknownSystem   = errors.New("plant: unknown mechanism")
)
