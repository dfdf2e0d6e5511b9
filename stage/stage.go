package stage

import (
	"context"
	"fmt"
)

// Kind identifies one unit of the distribution workflow.
type Kind string

const (
	KindAnalysis   Kind = "analysis"
	KindCompliance Kind = "compliance"
	KindRouting    Kind = "routing"
	KindTargeting  Kind = "targeting"
	KindDeployment Kind = "deployment"
	KindReporting  Kind = "reporting"
)

// Kinds returns all stage kinds in pipeline dependency order.
func Kinds() []Kind {
	return []Kind{KindAnalysis, KindCompliance, KindRouting, KindTargeting, KindDeployment, KindReporting}
}

// Stage is the contract every processing unit implements. Process reads the
// typed input and populates the typed output; both are pointers to the
// contract structs declared for the stage kind in the registry.
type Stage interface {
	Process(ctx context.Context, input, output interface{}) error
}

// NewInvalidInputError reports a stage invoked with an unexpected input type.
func NewInvalidInputError(in interface{}) error {
	return fmt.Errorf("invalid input %T", in)
}

// NewInvalidOutputError reports a stage invoked with an unexpected output type.
func NewInvalidOutputError(out interface{}) error {
	return fmt.Errorf("invalid output %T", out)
}

type funcStage[I, O any] struct {
	fn func(ctx context.Context, in *I, out *O) error
}

func (s funcStage[I, O]) Process(ctx context.Context, input, output interface{}) error {
	in, ok := input.(*I)
	if !ok {
		return NewInvalidInputError(input)
	}
	out, ok := output.(*O)
	if !ok {
		return NewInvalidOutputError(output)
	}
	return s.fn(ctx, in, out)
}

// Func adapts a typed function to the Stage interface.
func Func[I, O any](fn func(ctx context.Context, in *I, out *O) error) Stage {
	return funcStage[I, O]{fn: fn}
}
