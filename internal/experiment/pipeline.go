package experiment

import (
	"github.com/benbjohnson/clock"

	"github.com/StuyPulse/StuyLib-sub001/internal/control"
	"github.com/StuyPulse/StuyLib-sub001/internal/filter"
	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
	"github.com/StuyPulse/StuyLib-sub001/internal/sim"
	"github.com/StuyPulse/StuyLib-sub001/internal/stream"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

type filterFloat = filter.Filter[float64]

func lowPass(rc float64, c clock.Clock) filterFloat {
	return filter.LowPass(tunable.Const(rc), filter.WithClock(c))
}

// outputFilters rate limits the command when configured and always clips
// it to the motor's voltage range.
func outputFilters(c *Context) ([]filterFloat, error) {
	var filters []filterFloat
	if r := c.Config.Filters.OutputRateLimit; r > 0 {
		limit, err := filter.RateLimit(tunable.Const(r), filter.WithClock(c.Clock))
		if err != nil {
			return nil, err
		}
		filters = append(filters, limit)
	}
	return append(filters, filter.Clamp(tunable.Const(plant.DefaultMaxVoltage))), nil
}

// wireLinear runs a linear controller inside a control.Filtered so the
// profile, measurement smoothing and output shaping all live on the
// controller, then binds it to the simulator's streams.
func wireLinear(c *Context, s *sim.Simulator, ctrl control.Controller) (stream.Stream[float64], *control.Filtered, error) {
	cfg := c.Config
	f, err := control.NewFiltered(ctrl, c.Options()...)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Profile.Enabled() {
		profile := filter.MotionProfile(
			tunable.Const(cfg.Profile.MaxVelocity),
			tunable.Const(cfg.Profile.MaxAcceleration),
			filter.WithClock(c.Clock),
		)
		profile.Reset(c.System.Measure(c.X0))
		f.SetSetpointFilter(profile)
	}
	if rc := cfg.Filters.MeasurementRC; rc > 0 {
		f.SetMeasurementFilter(lowPass(rc, c.Clock))
	}
	out, err := outputFilters(c)
	if err != nil {
		return nil, nil, err
	}
	f.SetOutputFilter(out...)

	return control.Bind(f).WithSetpoint(s.Setpoint()).WithMeasurement(s.Measurement()), f, nil
}

// wireAngular filters the angle streams themselves, since angular
// controllers take angles rather than numbers.
func wireAngular(c *Context, s *sim.Simulator, ctrl control.AngleController) (stream.Stream[float64], error) {
	cfg := c.Config

	setpoint := s.SetpointAngle()
	if cfg.Profile.Enabled() {
		profile := filter.AngleMotionProfile(
			tunable.Const(cfg.Profile.MaxVelocity),
			tunable.Const(cfg.Profile.MaxAcceleration),
			filter.WithClock(c.Clock),
		)
		profile.Reset(geom.FromRadians(c.System.Measure(c.X0)))
		setpoint = stream.Filtered[geom.Angle](setpoint, profile)
	}

	measurement := s.MeasurementAngle()
	if rc := cfg.Filters.MeasurementRC; rc > 0 {
		measurement = stream.Filtered[geom.Angle](measurement,
			filter.AngleLowPass(tunable.Const(rc), filter.WithClock(c.Clock)))
	}

	out, err := outputFilters(c)
	if err != nil {
		return nil, err
	}
	bound := control.BindAngle(ctrl).WithSetpoint(setpoint).WithMeasurement(measurement)
	return stream.Filtered[float64](bound, out...), nil
}
