package reasoning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorderStub struct {
	usage Usage
	notes []string
}

func (r *recorderStub) RecordUsage(u Usage) { r.usage.Add(u) }
func (r *recorderStub) AddNote(note string) { r.notes = append(r.notes, note) }

func TestStatic_InvokeScript(t *testing.T) {
	reasoner := &Static{Responses: []string{"positive", "negative"}, TokensPerCall: 10, CostPerCall: 0.01}

	text, usage, err := reasoner.Invoke(context.Background(), "first")
	assert.NoError(t, err)
	assert.Equal(t, "positive", text)
	assert.Equal(t, 1, usage.Calls)
	assert.Equal(t, 10, usage.TotalTokens)

	text, _, _ = reasoner.Invoke(context.Background(), "second")
	assert.Equal(t, "negative", text)

	// exhausted script repeats the last response
	text, _, _ = reasoner.Invoke(context.Background(), "third")
	assert.Equal(t, "negative", text)
}

func TestStatic_InvokeStructured(t *testing.T) {
	reasoner := &Static{Responses: []string{`{"sentiment":"positive"}`}}
	var target struct {
		Sentiment string `json:"sentiment"`
	}
	_, err := reasoner.InvokeStructured(context.Background(), "classify", &target)
	assert.NoError(t, err)
	assert.Equal(t, "positive", target.Sentiment)
}

func TestStatic_Error(t *testing.T) {
	boom := errors.New("unavailable")
	reasoner := &Static{Err: boom}
	_, _, err := reasoner.Invoke(context.Background(), "prompt")
	assert.ErrorIs(t, err, boom)
}

func TestSession_RecordsUsage(t *testing.T) {
	recorder := &recorderStub{}
	session := NewSession(&Static{Responses: []string{"neutral"}, TokensPerCall: 8}, recorder)
	assert.NotNil(t, session)

	text, err := session.Invoke(context.Background(), "prompt")
	assert.NoError(t, err)
	assert.Equal(t, "neutral", text)
	assert.Equal(t, 1, recorder.usage.Calls)
	assert.Equal(t, 8, recorder.usage.TotalTokens)
}

func TestSession_NilReasoner(t *testing.T) {
	assert.Nil(t, NewSession(nil, &recorderStub{}))

	// a nil session never enters the context
	ctx := WithSession(context.Background(), nil)
	assert.Nil(t, FromContext(ctx))
}

func TestSession_ContextRoundTrip(t *testing.T) {
	session := NewSession(&Static{Responses: []string{"ok"}}, nil)
	ctx := WithSession(context.Background(), session)
	assert.Same(t, session, FromContext(ctx))
}
