// Package geom provides the numeric primitives shared by the filters and
// controllers:
//
//   - [Angle]: wraparound-safe angle in radians, normalized to (-π, π]
//   - [Vector2D]: immutable 2D vector
//   - [Polar2D]: vector in polar form
//
// It also holds the scalar helpers ([Clamp], [Deadband], [SignedPow]) and
// the joystick input curves ([Square], [Cube], [Pow], [Circular]).
//
// All types are values; none of them carry mutable state.
package geom
