package geom

import (
	"fmt"
	"math"
)

const (
	tau = 2.0 * math.Pi

	stringSigFigs = 5
)

// Angle is an immutable angular value stored in radians and kept in the
// range (-π, π]. The zero value is an angle of zero radians.
type Angle struct {
	rad float64
}

// Common angles.
var (
	Zero      = Angle{}
	Deg90     = FromDegrees(90)
	Deg180    = FromDegrees(180)
	Deg270    = FromDegrees(270)
	HalfPi    = FromRadians(math.Pi / 2)
	QuarterPi = FromRadians(math.Pi / 4)

	// NullAngle marks an angle that has not been initialized. Arithmetic on
	// it yields NullAngle again.
	NullAngle = Angle{rad: math.NaN()}
)

// normalizeRadians maps r into (center-π, center+π].
func normalizeRadians(r, center float64) float64 {
	return wrap(r, center, tau)
}

func normalizeDegrees(d, center float64) float64 {
	return wrap(d, center, 360.0)
}

// wrap maps v into (center-period/2, center+period/2]. The ceil step can
// land one period off near the bounds after rounding.
func wrap(v, center, period float64) float64 {
	half := period / 2
	v -= period * math.Ceil((v-center-half)/period)
	if v > center+half {
		v -= period
	} else if v <= center-half {
		v += period
	}
	return v
}

func FromRadians(radians float64) Angle {
	return Angle{rad: normalizeRadians(radians, 0)}
}

func FromDegrees(degrees float64) Angle {
	return FromRadians(degrees * math.Pi / 180.0)
}

func FromArcMinutes(arcminutes float64) Angle {
	return FromDegrees(arcminutes / 60.0)
}

func FromArcSeconds(arcseconds float64) Angle {
	return FromArcMinutes(arcseconds / 60.0)
}

// FromVector returns the heading of the point (x, y) from the origin.
func FromVector(x, y float64) Angle {
	return FromRadians(math.Atan2(y, x))
}

// FromSlope returns the angle of a line with the given slope.
func FromSlope(slope float64) Angle {
	return FromRadians(math.Atan(slope))
}

func (a Angle) IsNull() bool {
	return math.IsNaN(a.rad)
}

func (a Angle) Radians() float64 {
	return a.rad
}

// RadiansAround returns the angle in radians within (center-π, center+π].
func (a Angle) RadiansAround(center float64) float64 {
	return normalizeRadians(a.rad, center)
}

func (a Angle) Degrees() float64 {
	return a.rad * 180.0 / math.Pi
}

// DegreesAround returns the angle in degrees within (center-180, center+180].
func (a Angle) DegreesAround(center float64) float64 {
	return normalizeDegrees(a.Degrees(), center)
}

func (a Angle) Add(other Angle) Angle {
	return FromRadians(a.rad + other.rad)
}

// Sub returns the shortest signed angular distance from other to a.
func (a Angle) Sub(other Angle) Angle {
	return FromRadians(a.rad - other.rad)
}

func (a Angle) AddRadians(radians float64) Angle {
	return FromRadians(a.rad + radians)
}

func (a Angle) AddDegrees(degrees float64) Angle {
	return a.Add(FromDegrees(degrees))
}

func (a Angle) Mul(scale float64) Angle {
	return FromRadians(a.rad * scale)
}

func (a Angle) Div(divisor float64) Angle {
	return FromRadians(a.rad / divisor)
}

func (a Angle) Negative() Angle {
	return FromRadians(-a.rad)
}

func (a Angle) Sin() float64 { return math.Sin(a.rad) }
func (a Angle) Cos() float64 { return math.Cos(a.rad) }
func (a Angle) Tan() float64 { return math.Tan(a.rad) }

// Vector returns the unit vector pointing in the direction of the angle.
func (a Angle) Vector() Vector2D {
	return Vector2D{X: a.Cos(), Y: a.Sin()}
}

// VelocityRadians returns the signed shortest-path angular velocity, in
// radians per second, needed to move from prev to a in dt seconds.
func (a Angle) VelocityRadians(prev Angle, dt float64) float64 {
	return a.Sub(prev).Radians() / dt
}

func (a Angle) VelocityDegrees(prev Angle, dt float64) float64 {
	return a.Sub(prev).Degrees() / dt
}

func (a Angle) Equal(other Angle) bool {
	return a.rad == other.rad
}

func (a Angle) String() string {
	if a.IsNull() {
		return "Angle(null)"
	}
	return fmt.Sprintf("Angle(%vdeg)", Round(a.Degrees(), stringSigFigs))
}
