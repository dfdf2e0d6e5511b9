// Package reasoning declares the external reasoning capability consumed by
// the resilient runtime: prompt-to-text and prompt-to-structured-result
// invocations with usage accounting. The capability is an external
// collaborator; the engine only records its usage and classifies its
// failures (transient by default).
package reasoning

import "context"

// Usage captures the resource counters of reasoning invocations.
type Usage struct {
	Calls            int     `json:"calls,omitempty"`
	PromptTokens     int     `json:"promptTokens,omitempty"`
	CompletionTokens int     `json:"completionTokens,omitempty"`
	TotalTokens      int     `json:"totalTokens,omitempty"`
	Cost             float64 `json:"cost,omitempty"`
}

// Add accumulates another usage sample into u.
func (u *Usage) Add(other Usage) {
	u.Calls += other.Calls
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
	u.Cost += other.Cost
}

// Reasoner is the external reasoning capability.
type Reasoner interface {
	// Invoke sends a prompt and returns the raw text result.
	Invoke(ctx context.Context, prompt string) (string, Usage, error)

	// InvokeStructured sends a prompt and decodes the result into target,
	// which must be a pointer to the expected structure.
	InvokeStructured(ctx context.Context, prompt string, target interface{}) (Usage, error)
}

// Recorder receives usage samples and reasoning notes; the execution-log
// entry of the invoking stage implements it.
type Recorder interface {
	RecordUsage(u Usage)
	AddNote(note string)
}

// Session binds a reasoner to the execution-log recorder of one stage
// invocation so that every call is accounted for.
type Session struct {
	reasoner Reasoner
	recorder Recorder
}

// NewSession creates a recording session. A nil reasoner yields a nil
// session, which stage implementations must treat as "capability absent".
func NewSession(r Reasoner, rec Recorder) *Session {
	if r == nil {
		return nil
	}
	return &Session{reasoner: r, recorder: rec}
}

// Invoke forwards to the underlying reasoner and records usage.
func (s *Session) Invoke(ctx context.Context, prompt string) (string, error) {
	text, usage, err := s.reasoner.Invoke(ctx, prompt)
	if s.recorder != nil {
		s.recorder.RecordUsage(usage)
	}
	return text, err
}

// InvokeStructured forwards to the underlying reasoner and records usage.
func (s *Session) InvokeStructured(ctx context.Context, prompt string, target interface{}) error {
	usage, err := s.reasoner.InvokeStructured(ctx, prompt, target)
	if s.recorder != nil {
		s.recorder.RecordUsage(usage)
	}
	return err
}

type sessionKeyT struct{}

var sessionKey sessionKeyT

// WithSession embeds the session in ctx; the resilient runtime installs one
// before each stage invocation.
func WithSession(ctx context.Context, s *Session) context.Context {
	if s == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext extracts the session from ctx; nil when the caller supplied no
// reasoning capability.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey).(*Session)
	return s
}
