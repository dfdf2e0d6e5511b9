package model

// RoutingInput is the routing stage contract input.
type RoutingInput struct {
	Analysis     *Analysis         `json:"analysis"`
	Compliance   *ComplianceReport `json:"compliance"`
	Budget       float64           `json:"budget"`
	Urgency      Urgency           `json:"urgency"`
	Forced       []Channel         `json:"forced,omitempty"`
	Requirements []Requirement     `json:"requirements,omitempty"`
}

// Allocation is the budget share assigned to a single channel.
type Allocation struct {
	Channel         Channel `json:"channel"`
	Budget          float64 `json:"budget"`
	ExpectedReach   int     `json:"expectedReach"`
	ExpectedPickups int     `json:"expectedPickups"`
	ExpectedROI     float64 `json:"expectedROI"`
	Rationale       string  `json:"rationale,omitempty"`
}

// ChannelMix is the routing stage output: the selected channels with their
// budget allocations and projections.
type ChannelMix struct {
	Allocations []Allocation `json:"allocations"`
	TotalBudget float64      `json:"totalBudget"`

	ExpectedReach     int     `json:"expectedReach"`
	ExpectedPickups   int     `json:"expectedPickups"`
	ExpectedBacklinks int     `json:"expectedBacklinks"`
	ExpectedROI       float64 `json:"expectedROI"`

	Strategy    string             `json:"strategy,omitempty"`
	Timing      map[Channel]string `json:"timing,omitempty"`
	RiskFactors []string           `json:"riskFactors,omitempty"`
	Confidence  float64            `json:"confidence"`
}

// Has reports whether the mix selects the given channel.
func (m *ChannelMix) Has(ch Channel) bool {
	for _, a := range m.Allocations {
		if a.Channel == ch {
			return true
		}
	}
	return false
}

// BudgetFor returns the budget allocated to the given channel, zero when the
// channel is not part of the mix.
func (m *ChannelMix) BudgetFor(ch Channel) float64 {
	for _, a := range m.Allocations {
		if a.Channel == ch {
			return a.Budget
		}
	}
	return 0
}
