// Package control provides feedback and feedforward controllers that turn a
// setpoint and a measurement into a motor command.
//
// Numeric controllers implement [Controller]; angular controllers implement
// [AngleController] and work on the shortest arc between angles:
//
//   - [PIDController], [AnglePIDController]: time-step aware PID with an
//     integrator filter and stale-input reset
//   - [Feedforward], [ArmFeedforward]: motor, elevator and arm models driven
//     by a target velocity, decorated into controllers with Velocity,
//     Position and Angle
//   - [BangBangController], [TBHController]: simple flywheel controllers
//   - [Group], [Combine], [AngleGroup]: sum several controllers
//
// # Usage
//
//	pid := control.PID(tunable.Const(1), tunable.Const(0), tunable.Const(0.1))
//	ff := control.ElevatorFeedforward(kG, kS, kV, kA).Position()
//	c, _ := control.Group(pid, ff)
//	out := c.Update(setpoint, measurement) // once per loop
//
// Controllers are single-owner. Wrap with [Synchronized] to share one
// between goroutines.
package control
