package reasoning

import (
	"context"
	"encoding/json"
	"sync"
)

// Static is a scripted Reasoner returning canned responses in order. It backs
// the built-in rule-based stages and tests; once the script is exhausted the
// last response repeats.
type Static struct {
	Responses     []string
	TokensPerCall int
	CostPerCall   float64
	Err           error

	mu   sync.Mutex
	next int
}

var _ Reasoner = (*Static)(nil)

func (s *Static) take() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Responses) == 0 {
		return ""
	}
	i := s.next
	if i >= len(s.Responses) {
		i = len(s.Responses) - 1
	}
	s.next++
	return s.Responses[i]
}

func (s *Static) usage() Usage {
	return Usage{
		Calls:            1,
		PromptTokens:     s.TokensPerCall / 2,
		CompletionTokens: s.TokensPerCall - s.TokensPerCall/2,
		TotalTokens:      s.TokensPerCall,
		Cost:             s.CostPerCall,
	}
}

// Invoke returns the next scripted response.
func (s *Static) Invoke(_ context.Context, _ string) (string, Usage, error) {
	if s.Err != nil {
		return "", s.usage(), s.Err
	}
	return s.take(), s.usage(), nil
}

// InvokeStructured decodes the next scripted response as JSON into target.
func (s *Static) InvokeStructured(_ context.Context, _ string, target interface{}) (Usage, error) {
	if s.Err != nil {
		return s.usage(), s.Err
	}
	return s.usage(), json.Unmarshal([]byte(s.take()), target)
}
