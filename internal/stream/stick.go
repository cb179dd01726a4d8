package stream

import (
	"github.com/StuyPulse/StuyLib-sub001/internal/geom"
	"github.com/StuyPulse/StuyLib-sub001/internal/tunable"
)

// StickAngle is the heading of a joystick. While the stick is inside the
// deadzone it keeps reporting the last heading; before the stick has ever
// left the deadzone it reports geom.NullAngle.
type StickAngle struct {
	stick    Stream[geom.Vector2D]
	deadzone tunable.Number
	last     geom.Angle
}

func Stick(stick Stream[geom.Vector2D], deadzone tunable.Number) *StickAngle {
	return &StickAngle{
		stick:    stick,
		deadzone: tunable.Of(deadzone),
		last:     geom.NullAngle,
	}
}

func (s *StickAngle) Get() geom.Angle {
	v := s.stick.Get()
	if v.Magnitude() > s.deadzone.Value() {
		s.last = v.Angle()
	}
	return s.last
}
