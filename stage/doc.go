// Package stage defines the capability contract implemented by every
// processing unit of the distribution pipeline and the registry that binds
// concrete implementations to the six stage kinds. Implementations are
// interchangeable: the orchestrator and the resilient runtime depend only on
// the Stage interface, never on a concrete stage.
//
// Stages signal failure by returning an error; they must not retry
// themselves. The error classification (transient vs fatal) drives the
// resilient runtime's retry decision.
package stage
