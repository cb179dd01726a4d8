package geom

import "math"

// Clamp limits x to the range between lo and hi. The bounds may be given
// in either order.
func Clamp(x, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if x > hi {
		return hi
	}
	if x < lo {
		return lo
	}
	return x
}

// ClampMagnitude limits x to [-limit, limit].
func ClampMagnitude(x, limit float64) float64 {
	return Clamp(x, -limit, limit)
}

// Limit clamps x to [-1, 1].
func Limit(x float64) float64 {
	return Clamp(x, -1, 1)
}

// Sign returns -1, 0 or 1. Unlike math.Signbit it treats -0 as 0.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Deadband zeroes values whose magnitude is below window and rescales the
// rest so the output still spans [-1, 1].
func Deadband(x, window float64) float64 {
	window = math.Abs(window)
	if window >= 1 {
		return 0
	}
	if math.Abs(x) < window {
		return 0
	}
	return (x - math.Copysign(window, x)) / (1.0 - window)
}

// SignedPow raises |x| to power and restores the sign of x.
func SignedPow(x, power float64) float64 {
	return math.Pow(math.Abs(x), power) * Sign(x)
}

// Round rounds x to the given number of significant figures.
func Round(x float64, sigfigs int) float64 {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) || sigfigs <= 0 {
		return x
	}
	mag := math.Ceil(math.Log10(math.Abs(x)))
	shift := math.Pow(10, float64(sigfigs)-mag)
	return math.Round(x*shift) / shift
}

// Input scaling curves. Each maps [-1, 1] onto [-1, 1] and keeps the sign of
// its input.

func Square(x float64) float64 {
	return Limit(x * x * Sign(x))
}

func Cube(x float64) float64 {
	return Limit(x * x * x)
}

func Pow(x, power float64) float64 {
	return Limit(SignedPow(x, power))
}

// Circular is the quarter-circle curve sign(x)·(1 - sqrt(1 - x²)).
func Circular(x float64) float64 {
	return CircularPow(x, 2)
}

// CircularPow generalizes Circular to a superellipse of order p. Orders
// below 1 are treated as 1 (the identity).
func CircularPow(x, p float64) float64 {
	sign := Sign(x)
	x = Limit(math.Abs(x))
	p = math.Max(1.0, p)
	x = 1.0 - math.Pow(x, p)
	x = 1.0 - math.Pow(x, 1.0/p)
	return Limit(x * sign)
}
