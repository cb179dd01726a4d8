// Package sim closes the loop between a simulated mechanism and a
// controller pipeline.
//
// The simulator owns a mock clock and advances it by exactly dt before each
// controller update, so every stopwatch inside the pipeline measures the
// simulated interval rather than wall time. Controllers must therefore be
// built with the simulator's clock (see [Simulator.Clock]).
package sim
