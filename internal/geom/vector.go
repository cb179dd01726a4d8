package geom

import (
	"fmt"
	"math"
)

// Vector2D is an immutable 2D vector.
type Vector2D struct {
	X float64
	Y float64
}

// Origin is the additive identity.
var Origin = Vector2D{}

func Vec(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

func (v Vector2D) Add(o Vector2D) Vector2D { return Vector2D{v.X + o.X, v.Y + o.Y} }
func (v Vector2D) Sub(o Vector2D) Vector2D { return Vector2D{v.X - o.X, v.Y - o.Y} }

// Mul multiplies component-wise.
func (v Vector2D) Mul(o Vector2D) Vector2D { return Vector2D{v.X * o.X, v.Y * o.Y} }

// Div divides component-wise.
func (v Vector2D) Div(o Vector2D) Vector2D { return Vector2D{v.X / o.X, v.Y / o.Y} }

func (v Vector2D) Scale(k float64) Vector2D { return Vector2D{v.X * k, v.Y * k} }

func (v Vector2D) Dot(o Vector2D) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vector2D) Magnitude() float64 { return math.Hypot(v.X, v.Y) }

// Distance returns the distance between v and o.
func (v Vector2D) Distance(o Vector2D) float64 {
	return math.Hypot(o.X-v.X, o.Y-v.Y)
}

func (v Vector2D) Angle() Angle {
	return FromVector(v.X, v.Y)
}

func (v Vector2D) Polar() Polar2D {
	return NewPolar(v.Magnitude(), v.Angle())
}

func (v Vector2D) Rotate(a Angle) Vector2D {
	c, s := a.Cos(), a.Sin()
	return Vector2D{
		X: v.X*c - v.Y*s,
		Y: v.Y*c + v.X*s,
	}
}

// RotateAround rotates v by a about origin.
func (v Vector2D) RotateAround(a Angle, origin Vector2D) Vector2D {
	return v.Sub(origin).Rotate(a).Add(origin)
}

// Normalize returns the unit vector in the direction of v. The origin has no
// direction and is returned unchanged.
func (v Vector2D) Normalize() Vector2D {
	m := v.Magnitude()
	if m == 0 {
		return Origin
	}
	return v.Scale(1.0 / m)
}

func (v Vector2D) Negative() Vector2D { return Vector2D{-v.X, -v.Y} }

// Clamp limits the magnitude of v to maxMagnitude, keeping its direction.
func (v Vector2D) Clamp(maxMagnitude float64) Vector2D {
	if maxMagnitude <= 0 {
		return Origin
	}
	m := v.Magnitude()
	if m <= maxMagnitude {
		return v
	}
	return v.Scale(maxMagnitude / m)
}

func (v Vector2D) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vector2D) String() string {
	return fmt.Sprintf("Vector2D(%v, %v)", Round(v.X, stringSigFigs), Round(v.Y, stringSigFigs))
}

// Polar2D is a vector in polar form. The magnitude is never negative.
type Polar2D struct {
	Magnitude float64
	Angle     Angle
}

func NewPolar(magnitude float64, angle Angle) Polar2D {
	if magnitude < 0 {
		return Polar2D{Magnitude: -magnitude, Angle: angle.Add(Deg180)}
	}
	return Polar2D{Magnitude: magnitude, Angle: angle}
}

func (p Polar2D) Vector() Vector2D {
	return p.Angle.Vector().Scale(p.Magnitude)
}

func (p Polar2D) Rotate(a Angle) Polar2D {
	return Polar2D{Magnitude: p.Magnitude, Angle: p.Angle.Add(a)}
}

func (p Polar2D) Scale(k float64) Polar2D {
	return NewPolar(p.Magnitude*k, p.Angle)
}

// Distance uses the law of cosines.
func (p Polar2D) Distance(o Polar2D) float64 {
	a, b := p.Magnitude, o.Magnitude
	t := p.Angle.Sub(o.Angle)
	return math.Sqrt(math.Max(0, a*a+b*b-2.0*a*b*t.Cos()))
}
