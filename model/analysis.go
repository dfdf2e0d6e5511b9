package model

// AnalysisInput is the analysis stage contract input.
type AnalysisInput struct {
	Headline   string     `json:"headline"`
	Content    string     `json:"content"`
	Summary    string     `json:"summary,omitempty"`
	Industries []Industry `json:"industries,omitempty"`
	Audiences  []string   `json:"audiences,omitempty"`
}

// Entity is a named entity extracted from content.
type Entity struct {
	Text      string  `json:"text"`
	Type      string  `json:"type"`
	Relevance float64 `json:"relevance"`
}

// Audience is an identified target audience segment.
type Audience struct {
	Name          string   `json:"name"`
	Relevance     float64  `json:"relevance"`
	Traits        []string `json:"traits,omitempty"`
	EstimatedSize int      `json:"estimatedSize,omitempty"`
}

// Outlet is a matched media outlet or publication.
type Outlet struct {
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Relevance       float64 `json:"relevance"`
	AudienceOverlap float64 `json:"audienceOverlap"`
}

// Analysis is the analysis stage output: classification, audiences and
// media targets derived from the content.
type Analysis struct {
	PrimaryIndustry     Industry   `json:"primaryIndustry"`
	SecondaryIndustries []Industry `json:"secondaryIndustries,omitempty"`
	Topics              []string   `json:"topics,omitempty"`
	Entities            []Entity   `json:"entities,omitempty"`
	Keywords            []string   `json:"keywords,omitempty"`
	Audiences           []Audience `json:"audiences,omitempty"`
	Outlets             []Outlet   `json:"outlets,omitempty"`

	Sentiment      string  `json:"sentiment"`
	Newsworthiness float64 `json:"newsworthiness"`
	ViralPotential float64 `json:"viralPotential"`

	Summary string   `json:"summary,omitempty"`
	Angles  []string `json:"angles,omitempty"`
}
