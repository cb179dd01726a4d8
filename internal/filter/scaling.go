package filter

import (
	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

// Stateless scalar filters.

func Clamp(limit tunable.Number) Filter[float64] {
	limit = tunable.Of(limit)
	return Func[float64](func(x float64) float64 {
		return geom.ClampMagnitude(x, limit.Value())
	})
}

func Deadband(window tunable.Number) Filter[float64] {
	window = tunable.Of(window)
	return Func[float64](func(x float64) float64 {
		return geom.Deadband(x, window.Value())
	})
}

func Scale(k tunable.Number) Filter[float64] {
	k = tunable.Of(k)
	return Func[float64](func(x float64) float64 {
		return x * k.Value()
	})
}

func Negate() Filter[float64] {
	return Func[float64](func(x float64) float64 { return -x })
}

var (
	Square   Filter[float64] = Func[float64](geom.Square)
	Cube     Filter[float64] = Func[float64](geom.Cube)
	Circular Filter[float64] = Func[float64](geom.Circular)
)

func Pow(power float64) Filter[float64] {
	return Func[float64](func(x float64) float64 {
		return geom.Pow(x, power)
	})
}

func CircularPow(power float64) Filter[float64] {
	return Func[float64](func(x float64) float64 {
		return geom.CircularPow(x, power)
	})
}

// XY filters each component of a vector independently.
func XY(x, y Filter[float64]) Filter[geom.Vector2D] {
	x, y = Chain(x), Chain(y)
	return Func[geom.Vector2D](func(v geom.Vector2D) geom.Vector2D {
		return geom.Vec(x.Get(v.X), y.Get(v.Y))
	})
}

// VectorClamp limits the magnitude of a vector.
func VectorClamp(limit tunable.Number) Filter[geom.Vector2D] {
	limit = tunable.Of(limit)
	return Func[geom.Vector2D](func(v geom.Vector2D) geom.Vector2D {
		return v.Clamp(limit.Value())
	})
}

// VectorDeadZone maps vectors shorter than deadzone to the origin.
func VectorDeadZone(deadzone tunable.Number) Filter[geom.Vector2D] {
	deadzone = tunable.Of(deadzone)
	return Func[geom.Vector2D](func(v geom.Vector2D) geom.Vector2D {
		if v.Magnitude() < deadzone.Value() {
			return geom.Origin
		}
		return v
	})
}

// VectorMagnitude applies f to the magnitude of a vector, keeping its
// direction.
func VectorMagnitude(f Filter[float64]) Filter[geom.Vector2D] {
	return Func[geom.Vector2D](func(v geom.Vector2D) geom.Vector2D {
		return v.Normalize().Scale(f.Get(v.Magnitude()))
	})
}

// AngleOffset rotates every angle by offset.
func AngleOffset(offset geom.Angle) Filter[geom.Angle] {
	return Func[geom.Angle](func(a geom.Angle) geom.Angle {
		return a.Add(offset)
	})
}
