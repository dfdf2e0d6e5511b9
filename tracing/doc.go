// Package tracing adapts OpenTelemetry for the orchestration engine.
package tracing
