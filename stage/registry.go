package stage

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/universalpress/cascade/model"
	"github.com/viant/structology/conv"
	"github.com/viant/x"
)

// ErrNotRegistered is returned when no implementation is bound to a kind.
var ErrNotRegistered = errors.New("stage not registered")

// Signature describes the typed input/output contract of a stage kind.
type Signature struct {
	Kind   Kind
	Input  reflect.Type
	Output reflect.Type
}

// signatures is the fixed contract table of the six-stage pipeline.
func signatures() map[Kind]Signature {
	return map[Kind]Signature{
		KindAnalysis:   {Kind: KindAnalysis, Input: reflect.TypeOf(&model.AnalysisInput{}), Output: reflect.TypeOf(&model.Analysis{})},
		KindCompliance: {Kind: KindCompliance, Input: reflect.TypeOf(&model.ComplianceInput{}), Output: reflect.TypeOf(&model.ComplianceReport{})},
		KindRouting:    {Kind: KindRouting, Input: reflect.TypeOf(&model.RoutingInput{}), Output: reflect.TypeOf(&model.ChannelMix{})},
		KindTargeting:  {Kind: KindTargeting, Input: reflect.TypeOf(&model.TargetingInput{}), Output: reflect.TypeOf(&model.TargetList{})},
		KindDeployment: {Kind: KindDeployment, Input: reflect.TypeOf(&model.DeploymentInput{}), Output: reflect.TypeOf(&model.DeploymentOutcome{})},
		KindReporting:  {Kind: KindReporting, Input: reflect.TypeOf(&model.ReportingInput{}), Output: reflect.TypeOf(&model.Report{})},
	}
}

// Registry binds stage implementations to the named pipeline slots. It is the
// dependency-injection seam: mock, rule-based and model-backed stages swap
// without the orchestrator noticing.
type Registry struct {
	mux        sync.RWMutex
	stages     map[Kind]Stage
	signatures map[Kind]Signature
	types      *x.Registry
	converter  *conv.Converter
}

// NewRegistry creates a registry pre-loaded with the pipeline contract types.
func NewRegistry() *Registry {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true

	r := &Registry{
		stages:     map[Kind]Stage{},
		signatures: signatures(),
		types:      x.NewRegistry(),
		converter:  conv.NewConverter(options),
	}
	for _, sig := range r.signatures {
		r.types.Register(x.NewType(sig.Input.Elem()))
		r.types.Register(x.NewType(sig.Output.Elem()))
	}
	return r
}

// Types exposes the contract type registry for embedding applications.
func (r *Registry) Types() *x.Registry { return r.types }

// Register binds an implementation to a stage kind, replacing any previous
// binding for that kind.
func (r *Registry) Register(kind Kind, s Stage) error {
	if _, ok := r.signatures[kind]; !ok {
		return fmt.Errorf("unknown stage kind %q", kind)
	}
	if s == nil {
		return fmt.Errorf("stage %q: nil implementation", kind)
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	r.stages[kind] = s
	return nil
}

// Lookup returns the implementation bound to kind.
func (r *Registry) Lookup(kind Kind) (Stage, error) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	s, ok := r.stages[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, kind)
	}
	return s, nil
}

// Signature returns the typed contract of a stage kind.
func (r *Registry) Signature(kind Kind) (Signature, bool) {
	sig, ok := r.signatures[kind]
	return sig, ok
}

// Invoke executes the stage bound to kind. The input is coerced to the
// stage's declared input type when it arrives as a looser representation
// (for example a map decoded from configuration); typed inputs pass through
// untouched.
func (r *Registry) Invoke(ctx context.Context, kind Kind, input interface{}) (interface{}, error) {
	s, err := r.Lookup(kind)
	if err != nil {
		return nil, NewFatal(kind, err)
	}
	sig := r.signatures[kind]
	in := input
	if input == nil {
		in = reflect.New(sig.Input.Elem()).Interface()
	} else if reflect.TypeOf(input) != sig.Input {
		typed := reflect.New(sig.Input.Elem()).Interface()
		if err := r.converter.Convert(input, typed); err != nil {
			return nil, NewFatal(kind, fmt.Errorf("failed to convert input: %w", err))
		}
		in = typed
	}
	out := reflect.New(sig.Output.Elem()).Interface()
	if err := s.Process(ctx, in, out); err != nil {
		return nil, err
	}
	return out, nil
}
