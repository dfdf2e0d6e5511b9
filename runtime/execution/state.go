package execution

// State is the orchestrator state-machine position of a run.
type State string

const (
	StateCreated             State = "CREATED"
	StateAnalyzing           State = "ANALYZING"
	StateCheckingCompliance  State = "CHECKING_COMPLIANCE"
	StateRouting             State = "ROUTING"
	StateTargeting           State = "TARGETING"
	StatePreparingDeployment State = "PREPARING_DEPLOYMENT"
	StateDeploying           State = "DEPLOYING"
	StateReporting           State = "REPORTING"
	StateCompleted           State = "COMPLETED"
	StateFailed              State = "FAILED"
	StateCancelled           State = "CANCELLED"
)

// Terminal reports whether the state ends the run; a terminal run never
// mutates again.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled:
		return true
	}
	return false
}

// Order ranks states along the declared pipeline so that observers can check
// monotonic progress. TARGETING and PREPARING_DEPLOYMENT share a rank: they
// form the one parallel fan-out. Terminal states rank above every
// non-terminal state.
func (s State) Order() int {
	switch s {
	case StateCreated:
		return 0
	case StateAnalyzing:
		return 1
	case StateCheckingCompliance:
		return 2
	case StateRouting:
		return 3
	case StateTargeting, StatePreparingDeployment:
		return 4
	case StateDeploying:
		return 5
	case StateReporting:
		return 6
	case StateCompleted, StateFailed, StateCancelled:
		return 7
	}
	return -1
}

// Failure reason codes attached to terminal FAILED/CANCELLED runs.
const (
	ReasonValidationFailed  = "validation_failed"
	ReasonComplianceBlocked = "compliance_blocked"
	ReasonStageFailed       = "stage_failed"
	ReasonCancelled         = "cancelled"
)
