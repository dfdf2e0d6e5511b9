// Package execution holds the run aggregate of the distribution pipeline:
// its state machine positions, the per-stage execution log and the immutable
// snapshots published to the status registry.
package execution
