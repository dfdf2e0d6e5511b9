package stage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/universalpress/cascade/model"
)

func TestRegistry_Invoke(t *testing.T) {
	registry := NewRegistry()
	err := registry.Register(KindAnalysis, Func(func(ctx context.Context, in *model.AnalysisInput, out *model.Analysis) error {
		out.Summary = "summary of " + in.Headline
		out.PrimaryIndustry = model.IndustryTechnology
		return nil
	}))
	assert.NoError(t, err)

	out, err := registry.Invoke(context.Background(), KindAnalysis, &model.AnalysisInput{Headline: "launch"})
	assert.NoError(t, err)
	analysis, ok := out.(*model.Analysis)
	assert.True(t, ok)
	assert.Equal(t, "summary of launch", analysis.Summary)
}

func TestRegistry_InvokeCoercesLooseInput(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register(KindAnalysis, Func(func(ctx context.Context, in *model.AnalysisInput, out *model.Analysis) error {
		out.Summary = in.Headline
		return nil
	}))

	out, err := registry.Invoke(context.Background(), KindAnalysis, map[string]interface{}{"headline": "from map"})
	assert.NoError(t, err)
	analysis := out.(*model.Analysis)
	assert.Equal(t, "from map", analysis.Summary)
}

func TestRegistry_InvokeNilInput(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register(KindAnalysis, Func(func(ctx context.Context, in *model.AnalysisInput, out *model.Analysis) error {
		assert.NotNil(t, in)
		out.Summary = "empty"
		return nil
	}))
	out, err := registry.Invoke(context.Background(), KindAnalysis, nil)
	assert.NoError(t, err)
	assert.Equal(t, "empty", out.(*model.Analysis).Summary)
}

func TestRegistry_InvokeUnregistered(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Invoke(context.Background(), KindRouting, &model.RoutingInput{})
	assert.True(t, errors.Is(err, ErrNotRegistered))
	assert.False(t, IsTransient(err))
}

func TestRegistry_RegisterUnknownKind(t *testing.T) {
	registry := NewRegistry()
	err := registry.Register(Kind("bogus"), Func(func(ctx context.Context, in *model.AnalysisInput, out *model.Analysis) error {
		return nil
	}))
	assert.Error(t, err)
	err = registry.Register(KindAnalysis, nil)
	assert.Error(t, err)
}

func TestIsTransient(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		expect bool
	}{
		{name: "nil", err: nil},
		{name: "validation error", err: &model.ValidationError{Field: "headline", Reason: "too short"}},
		{name: "retry budget exhausted", err: &ExhaustedError{Kind: KindAnalysis, Attempts: 3, Err: errors.New("boom")}},
		{name: "explicit transient", err: Transientf(KindDeployment, "gateway timeout"), expect: true},
		{name: "explicit fatal", err: Fatalf(KindRouting, "no eligible channel")},
		{name: "wrapped fatal", err: errors.Join(errors.New("outer"), NewFatal(KindRouting, errors.New("inner")))},
		{name: "context canceled", err: context.Canceled},
		{name: "plain error defaults transient", err: errors.New("connection reset"), expect: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, IsTransient(tc.err))
		})
	}
}
