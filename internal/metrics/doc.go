// Package metrics scores closed-loop runs. Every metric implements
// sim.Metric and sees each sample once, in order.
package metrics
