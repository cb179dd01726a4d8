package control

import (
	"math"

	"github.com/StuyPulse/StuyLib-sub001/internal/filter"
)

// Filtered wraps a controller with setpoint, measurement and output
// filters and remembers the values of its last update.
type Filtered struct {
	c Controller

	setpointFilter    filter.Filter[float64]
	measurementFilter filter.Filter[float64]
	outputFilter      filter.Filter[float64]
	errorVelocity     *filter.DerivativeFilter

	setpoint    float64
	measurement float64
	output      float64
	velocity    float64
}

func NewFiltered(c Controller, opts ...Option) (*Filtered, error) {
	if isNil(c) {
		return nil, ErrNilController
	}
	return &Filtered{
		c:                 c,
		setpointFilter:    filter.Identity[float64](),
		measurementFilter: filter.Identity[float64](),
		outputFilter:      filter.Identity[float64](),
		errorVelocity:     newOptions(opts).derivative(),
	}, nil
}

func (f *Filtered) SetSetpointFilter(filters ...filter.Filter[float64]) *Filtered {
	f.setpointFilter = filter.Chain(filters...)
	return f
}

func (f *Filtered) SetMeasurementFilter(filters ...filter.Filter[float64]) *Filtered {
	f.measurementFilter = filter.Chain(filters...)
	return f
}

func (f *Filtered) SetOutputFilter(filters ...filter.Filter[float64]) *Filtered {
	f.outputFilter = filter.Chain(filters...)
	return f
}

func (f *Filtered) Update(setpoint, measurement float64) float64 {
	f.setpoint = f.setpointFilter.Get(setpoint)
	f.measurement = f.measurementFilter.Get(measurement)
	f.velocity = f.errorVelocity.Get(f.Error())
	f.output = f.outputFilter.Get(f.c.Update(f.setpoint, f.measurement))
	return f.output
}

// Setpoint returns the filtered setpoint of the last update.
func (f *Filtered) Setpoint() float64 { return f.setpoint }

func (f *Filtered) Measurement() float64 { return f.measurement }

func (f *Filtered) Output() float64 { return f.output }

func (f *Filtered) Error() float64 { return f.setpoint - f.measurement }

// ErrorVelocity returns the rate of change of the error per second.
func (f *Filtered) ErrorVelocity() float64 { return f.velocity }

// IsDone reports whether the last error is within maxError.
func (f *Filtered) IsDone(maxError float64) bool {
	return math.Abs(f.Error()) < math.Abs(maxError)
}

// IsDoneWithVelocity also requires the error to be changing slower than
// maxVelocity.
func (f *Filtered) IsDoneWithVelocity(maxError, maxVelocity float64) bool {
	return f.IsDone(maxError) && math.Abs(f.velocity) < math.Abs(maxVelocity)
}
