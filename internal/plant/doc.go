// Package plant provides simulated mechanisms for exercising controllers
// without hardware.
//
// Each mechanism implements [System]. The motor command u is in volts and
// the dynamics are the inverse of the feedforward models in package
// control, so a feedforward with matching gains tracks a profile exactly:
//
//   - [Flywheel]: velocity control, state [ω]
//   - [Elevator]: position control against constant gravity, state [h, v]
//   - [Arm]: angle control against gravity torque, state [θ, ω]
//   - [Turret]: continuous heading control, state [θ, ω]
//
// Arm and Turret also implement [Angular]. Mechanisms with hard stops
// implement [Constrained].
package plant
