// Package cascade is a content-distribution workflow engine. A request moves
// through a six-stage pipeline (analysis, compliance, routing, journalist
// targeting, deployment, reporting) driven by a state machine with a single
// parallel fan-out, retry-with-backoff stage execution and an immutable
// status snapshot published on every transition.
//
// Minimal usage:
//
//	svc := cascade.New()
//	snapshot, err := svc.Runtime().Execute(ctx, &model.Request{...})
package cascade
