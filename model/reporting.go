package model

// ReportingInput is the reporting stage contract input.
type ReportingInput struct {
	Mix     *ChannelMix        `json:"mix"`
	Outcome *DeploymentOutcome `json:"outcome"`
	Spend   float64            `json:"spend"`
}

// Pickup is an individual media pickup attributed to the distribution.
type Pickup struct {
	Outlet    string `json:"outlet"`
	URL       string `json:"url,omitempty"`
	Reach     int    `json:"reach"`
	Sentiment string `json:"sentiment,omitempty"`
}

// Report is the reporting stage output: performance and ROI attribution for
// a completed deployment.
type Report struct {
	Pickups        []Pickup `json:"pickups,omitempty"`
	TotalPickups   int      `json:"totalPickups"`
	TotalBacklinks int      `json:"totalBacklinks"`
	TotalReach     int      `json:"totalReach"`

	SocialShares   int `json:"socialShares"`
	WebsiteTraffic int `json:"websiteTraffic"`

	Spend          float64 `json:"spend"`
	EstimatedValue float64 `json:"estimatedValue"`
	ROIPercent     float64 `json:"roiPercent"`
	CostPerPickup  float64 `json:"costPerPickup"`

	TopChannels     []Channel `json:"topChannels,omitempty"`
	Insights        []string  `json:"insights,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
}
