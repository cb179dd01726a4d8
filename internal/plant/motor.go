package plant

import (
	"github.com/pkg/errors"

	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
)

const (
	DefaultMaxVoltage = 12.0
)

// Motor holds the characterization of a motor and its load: static
// friction kS (V), velocity constant kV (V per unit/s) and acceleration
// constant kA (V per unit/s²). Commands are clipped to ±MaxVoltage.
type Motor struct {
	KS         float64
	KV         float64
	KA         float64
	MaxVoltage float64
}

// accel returns the acceleration produced by voltage u at velocity v after
// subtracting the load voltage.
func (m *Motor) accel(u, v, load float64) float64 {
	if m.MaxVoltage > 0 {
		u = geom.ClampMagnitude(u, m.MaxVoltage)
	}
	return (u - load - m.KS*geom.Sign(v) - m.KV*v) / m.KA
}

func (m *Motor) params(into map[string]float64) map[string]float64 {
	into["kS"] = m.KS
	into["kV"] = m.KV
	into["kA"] = m.KA
	into["maxVoltage"] = m.MaxVoltage
	return into
}

func (m *Motor) setParam(name string, value float64) error {
	switch name {
	case "kS":
		m.KS = value
	case "kV":
		m.KV = value
	case "kA":
		if value <= 0 {
			return errors.Wrapf(ErrParameterBounds, "kA must be positive, got %v", value)
		}
		m.KA = value
	case "maxVoltage":
		m.MaxVoltage = value
	default:
		return errors.Wrap(ErrUnknownParam, name)
	}
	return nil
}
