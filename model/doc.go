// Package model defines the data contracts exchanged between the orchestrator
// and the pipeline stages: the inbound distribution request, the six stage
// output variants and the enumerations they share. The orchestrator treats a
// stage output as immutable once the producing stage has returned it.
package model
