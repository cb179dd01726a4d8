// Package analysis inspects recorded loop runs after the fact.
//
//   - [PowerSpectrum] and [DominantFrequency]: find limit cycles, such as
//     the chatter of a bang-bang loop
//   - [NewPhasePortrait]: tracking error against its rate, rendered as text
//   - [NewStepResponse]: rise time, peak and steady-state error of a run
//     with a single setpoint step
package analysis
